package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	appasset "github.com/openledger/backend/internal/application/asset"
	appaudit "github.com/openledger/backend/internal/application/audit"
	appbudget "github.com/openledger/backend/internal/application/budget"
	appcashflow "github.com/openledger/backend/internal/application/cashflow"
	appledger "github.com/openledger/backend/internal/application/ledger"
	appproject "github.com/openledger/backend/internal/application/project"
	appreconcile "github.com/openledger/backend/internal/application/reconcile"
	appregistry "github.com/openledger/backend/internal/application/registry"
	"github.com/openledger/backend/internal/domain/asset"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/openledger/backend/internal/infrastructure/event"
	"github.com/openledger/backend/internal/infrastructure/logger"
	"github.com/openledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// app wires configuration, storage and services for one CLI invocation
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *persistence.Database
	ledger    *appledger.LedgerService
	budgets   *appbudget.BudgetService
	cashflow  *appcashflow.CashflowService
	analytics *appcashflow.AnalyticsService
	assets    *appasset.AssetService
	reconcile *appreconcile.ReconcileService
	trail     *appaudit.TrailService
	registry  *appregistry.RegistryService
	projects  *appproject.ProjectService
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	a, err := bootstrap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	var result any
	switch command {
	case "record":
		result, err = a.runRecord(ctx, args)
	case "reverse":
		result, err = a.runReverse(ctx, args)
	case "snapshot":
		result, err = a.runSnapshot(ctx, args)
	case "reconcile":
		result, err = a.runReconcile(ctx, args)
	case "book-value":
		result, err = a.runBookValue(ctx, args)
	case "summary":
		result, err = a.runSummary(ctx, args)
	case "variance":
		result, err = a.runVariance(ctx, args)
	case "trail":
		result, err = a.runTrail(ctx, args)
	case "add-category":
		result, err = a.runAddCategory(ctx, args)
	case "add-asset-category":
		result, err = a.runAddAssetCategory(ctx, args)
	case "add-project":
		result, err = a.runAddProject(ctx, args)
	case "register-asset":
		result, err = a.runRegisterAsset(ctx, args)
	case "create-budget":
		result, err = a.runCreateBudget(ctx, args)
	case "add-budget-item":
		result, err = a.runAddBudgetItem(ctx, args)
	case "activate-budget":
		result, err = a.runActivateBudget(ctx, args)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Amounts are stored without a currency column; the configured
	// currency must match the one the store assumes.
	if cfg.Ledger.DefaultCurrency != string(valueobject.DefaultCurrency) {
		return nil, fmt.Errorf("unsupported ledger.default_currency %q, amounts are stored as %s",
			cfg.Ledger.DefaultCurrency, valueobject.DefaultCurrency)
	}
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		return nil, err
	}

	txManager := persistence.NewTxManager(db.DB)
	transactions := persistence.NewGormTransactionRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)
	assetCategories := persistence.NewGormAssetCategoryRepository(db.DB)
	budgets := persistence.NewGormBudgetRepository(db.DB)
	projects := persistence.NewGormProjectRepository(db.DB)
	snapshots := persistence.NewGormSnapshotRepository(db.DB)
	assets := persistence.NewGormAssetRepository(db.DB)
	entries := persistence.NewGormAuditEntryRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appaudit.NewRecorder(entries, log))

	salvage := asset.SalvagePolicy{Fraction: decimal.NewFromFloat(cfg.Depreciation.SalvageFraction)}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		ledger:    appledger.NewLedgerService(txManager, transactions, categories, budgets, projects, bus, log, cfg.Retry),
		budgets:   appbudget.NewBudgetService(txManager, budgets, categories, transactions, bus, log),
		cashflow:  appcashflow.NewCashflowService(snapshots, transactions, bus, log, cfg.Cashflow),
		analytics: appcashflow.NewAnalyticsService(transactions, log),
		assets:    appasset.NewAssetService(assets, assetCategories, salvage, bus, log),
		reconcile: appreconcile.NewReconcileService(budgets, projects, transactions, entries, log),
		trail:     appaudit.NewTrailService(entries),
		registry:  appregistry.NewRegistryService(categories, assetCategories, bus, log),
		projects:  appproject.NewProjectService(projects, log),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
	_ = a.db.Close()
}

func (a *app) runRecord(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	kind := fs.String("kind", "", "transaction kind: income, expense, disbursement, transfer")
	category := fs.String("category", "", "category id")
	amount := fs.String("amount", "", "amount, e.g. 125.50")
	description := fs.String("description", "", "what the money moved for")
	reference := fs.String("reference", "", "external reference; generated when omitted")
	date := fs.String("date", time.Now().Format(dateLayout), "transaction date (YYYY-MM-DD)")
	project := fs.String("project", "", "project id to link")
	actor := fs.String("actor", "", "recording user")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	day, err := time.Parse(dateLayout, *date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	req := appledger.RecordTransactionRequest{
		Kind:        *kind,
		Amount:      amt,
		Description: *description,
		Reference:   *reference,
		Date:        day,
		Notes:       *notes,
		RecordedBy:  *actor,
	}
	if *category != "" {
		id, err := uuid.Parse(*category)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		req.CategoryID = &id
	}
	if *project != "" {
		id, err := uuid.Parse(*project)
		if err != nil {
			return nil, fmt.Errorf("invalid project id: %w", err)
		}
		req.ProjectID = &id
	}
	return a.ledger.RecordTransaction(ctx, req)
}

func (a *app) runReverse(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("reverse", flag.ExitOnError)
	id := fs.String("id", "", "transaction id to reverse")
	actor := fs.String("actor", "", "recording user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	txID, err := uuid.Parse(*id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}
	return a.ledger.ReverseTransaction(ctx, txID, *actor)
}

func (a *app) runSnapshot(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	date := fs.String("date", time.Now().Format(dateLayout), "snapshot date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	day, err := time.Parse(dateLayout, *date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	return a.cashflow.ComputeSnapshot(ctx, day)
}

func (a *app) runReconcile(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("reconcile", flag.ExitOnError)
	actor := fs.String("actor", "system", "actor recorded on anomaly entries")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return a.reconcile.Run(ctx, *actor)
}

func (a *app) runBookValue(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("book-value", flag.ExitOnError)
	tag := fs.String("tag", "", "asset tag")
	asOf := fs.String("as-of", time.Now().Format(dateLayout), "valuation date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	day, err := time.Parse(dateLayout, *asOf)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	resp, err := a.assets.GetAssetByTag(ctx, *tag)
	if err != nil {
		return nil, err
	}
	value, err := a.assets.BookValue(ctx, resp.ID, day)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"tag":        resp.Tag,
		"name":       resp.Name,
		"as_of":      day.Format(dateLayout),
		"book_value": value,
	}, nil
}

func (a *app) runSummary(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	from := fs.String("from", "", "period start (YYYY-MM-DD)")
	to := fs.String("to", time.Now().Format(dateLayout), "period end (YYYY-MM-DD)")
	top := fs.Int("top", 5, "number of top expense categories")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fromDay, err := time.Parse(dateLayout, *from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	toDay, err := time.Parse(dateLayout, *to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}
	return a.analytics.Summary(ctx, fromDay, toDay, *top)
}

func (a *app) runVariance(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("variance", flag.ExitOnError)
	id := fs.String("budget", "", "budget id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	budgetID, err := uuid.Parse(*id)
	if err != nil {
		return nil, fmt.Errorf("invalid budget id: %w", err)
	}
	return a.budgets.BudgetVariance(ctx, budgetID)
}

func (a *app) runTrail(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("trail", flag.ExitOnError)
	resourceType := fs.String("resource-type", "", "resource type, e.g. Transaction, Budget")
	resourceID := fs.String("resource-id", "", "resource id")
	actor := fs.String("actor", "", "list everything this actor did instead")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *actor != "" {
		return a.trail.ByActor(ctx, *actor)
	}
	id, err := uuid.Parse(*resourceID)
	if err != nil {
		return nil, fmt.Errorf("invalid resource id: %w", err)
	}
	return a.trail.ByResource(ctx, *resourceType, id)
}

func (a *app) runAddCategory(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("add-category", flag.ExitOnError)
	name := fs.String("name", "", "category name")
	kind := fs.String("kind", "", "category kind: income, expense, transfer")
	description := fs.String("description", "", "category description")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return a.registry.CreateCategory(ctx, appregistry.CreateCategoryRequest{
		Name: *name, Kind: *kind, Description: *description,
	})
}

func (a *app) runAddAssetCategory(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("add-asset-category", flag.ExitOnError)
	name := fs.String("name", "", "asset category name")
	rate := fs.String("rate", "0", "annual depreciation rate percent, e.g. 20")
	life := fs.Int("useful-life", 0, "useful life in years")
	description := fs.String("description", "", "category description")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	r, err := decimal.NewFromString(*rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate: %w", err)
	}
	return a.registry.CreateAssetCategory(ctx, appregistry.CreateAssetCategoryRequest{
		Name: *name, DepreciationRate: r, UsefulLifeYears: *life, Description: *description,
	})
}

func (a *app) runAddProject(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("add-project", flag.ExitOnError)
	code := fs.String("code", "", "project code")
	name := fs.String("name", "", "project name")
	start := fs.String("start", time.Now().Format(dateLayout), "start date (YYYY-MM-DD)")
	budgetAmt := fs.String("budget", "0", "total project budget")
	donor := fs.String("donor", "", "donor name")
	actor := fs.String("actor", "", "creating user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	day, err := time.Parse(dateLayout, *start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	amt, err := decimal.NewFromString(*budgetAmt)
	if err != nil {
		return nil, fmt.Errorf("invalid budget: %w", err)
	}
	return a.projects.CreateProject(ctx, appproject.CreateProjectRequest{
		Code: *code, Name: *name, StartDate: day,
		TotalBudget: amt, DonorName: *donor, CreatedBy: *actor,
	})
}

func (a *app) runRegisterAsset(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("register-asset", flag.ExitOnError)
	tag := fs.String("tag", "", "asset tag")
	name := fs.String("name", "", "asset name")
	category := fs.String("category", "", "asset category id")
	purchased := fs.String("purchased", "", "purchase date (YYYY-MM-DD)")
	price := fs.String("price", "", "purchase price")
	method := fs.String("method", "straight_line", "depreciation method: straight_line, declining_balance, none")
	location := fs.String("location", "", "where the asset lives")
	actor := fs.String("actor", "", "registering user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(*category)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	day, err := time.Parse(dateLayout, *purchased)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date: %w", err)
	}
	amt, err := decimal.NewFromString(*price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	return a.assets.RegisterAsset(ctx, appasset.RegisterAssetRequest{
		Tag: *tag, Name: *name, CategoryID: categoryID,
		PurchaseDate: day, PurchasePrice: amt,
		DepreciationMethod: *method, Location: *location, CreatedBy: *actor,
	})
}

func (a *app) runCreateBudget(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("create-budget", flag.ExitOnError)
	name := fs.String("name", "", "budget name")
	year := fs.Int("year", time.Now().Year(), "fiscal year")
	start := fs.String("start", "", "period start (YYYY-MM-DD)")
	end := fs.String("end", "", "period end (YYYY-MM-DD)")
	total := fs.String("total", "", "total budget amount")
	actor := fs.String("actor", "", "creating user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	startDay, err := time.Parse(dateLayout, *start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDay, err := time.Parse(dateLayout, *end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	amt, err := decimal.NewFromString(*total)
	if err != nil {
		return nil, fmt.Errorf("invalid total: %w", err)
	}
	return a.budgets.CreateBudget(ctx, appbudget.CreateBudgetRequest{
		Name: *name, FiscalYear: *year,
		StartDate: startDay, EndDate: endDay,
		TotalAmount: amt, CreatedBy: *actor,
	})
}

func (a *app) runAddBudgetItem(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("add-budget-item", flag.ExitOnError)
	id := fs.String("budget", "", "budget id")
	category := fs.String("category", "", "category id")
	allocated := fs.String("allocated", "", "allocated amount")
	notes := fs.String("notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	budgetID, err := uuid.Parse(*id)
	if err != nil {
		return nil, fmt.Errorf("invalid budget id: %w", err)
	}
	categoryID, err := uuid.Parse(*category)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %w", err)
	}
	amt, err := decimal.NewFromString(*allocated)
	if err != nil {
		return nil, fmt.Errorf("invalid allocated amount: %w", err)
	}
	return a.budgets.AddBudgetItem(ctx, budgetID, appbudget.AddBudgetItemRequest{
		CategoryID: categoryID, AllocatedAmount: amt, Notes: *notes,
	})
}

func (a *app) runActivateBudget(ctx context.Context, args []string) (any, error) {
	fs := flag.NewFlagSet("activate-budget", flag.ExitOnError)
	id := fs.String("budget", "", "budget id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	budgetID, err := uuid.Parse(*id)
	if err != nil {
		return nil, fmt.Errorf("invalid budget id: %w", err)
	}
	return a.budgets.ActivateBudget(ctx, budgetID)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: ledgerctl <command> [flags]

Commands:
  record      record a ledger transaction
  reverse     record a compensating reversal
  snapshot    compute the cashflow snapshot for a date
  reconcile   check spent caches against the ledger
  book-value  compute an asset's depreciated value
  summary     financial summary for a period
  variance    budget variance report
  trail       audit history for a resource or actor

Setup:
  add-category        create a transaction category
  add-asset-category  create an asset category
  add-project         create a project
  register-asset      register a fixed asset
  create-budget       create a draft budget
  add-budget-item     allocate a category within a budget
  activate-budget     activate a draft budget`)
}
