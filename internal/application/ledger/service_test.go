package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	auditapp "github.com/openledger/backend/internal/application/audit"
	"github.com/openledger/backend/internal/domain/audit"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/project"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/openledger/backend/internal/infrastructure/event"
	"github.com/openledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	db           *persistence.Database
	service      *LedgerService
	transactions ledger.TransactionRepository
	categories   registry.CategoryRepository
	budgets      budget.BudgetRepository
	projects     project.ProjectRepository
	entries      audit.EntryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	db, err := persistence.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	log := zap.NewNop()
	transactions := persistence.NewGormTransactionRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)
	budgets := persistence.NewGormBudgetRepository(db.DB)
	projects := persistence.NewGormProjectRepository(db.DB)
	entries := persistence.NewGormAuditEntryRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(auditapp.NewRecorder(entries, log))

	retry := config.RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
	service := NewLedgerService(persistence.NewTxManager(db.DB), transactions, categories, budgets, projects, bus, log, retry)

	return &testEnv{
		db:           db,
		service:      service,
		transactions: transactions,
		categories:   categories,
		budgets:      budgets,
		projects:     projects,
		entries:      entries,
	}
}

func (e *testEnv) category(t *testing.T, name string, kind registry.CategoryKind) *registry.Category {
	t.Helper()
	c, err := registry.NewCategory(name, kind, "")
	require.NoError(t, err)
	c.ClearDomainEvents()
	require.NoError(t, e.categories.Save(context.Background(), c))
	return c
}

func (e *testEnv) activeBudget(t *testing.T, categoryID uuid.UUID, allocated int64) *budget.Budget {
	t.Helper()
	b, err := budget.NewBudget("FY2026", "", 2026,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		valueobject.NewMoneyUSD(decimal.NewFromInt(50000)), "alice")
	require.NoError(t, err)
	_, err = b.AddItem(categoryID, valueobject.NewMoneyUSD(decimal.NewFromInt(allocated)), "")
	require.NoError(t, err)
	require.NoError(t, b.Activate())
	b.ClearDomainEvents()
	require.NoError(t, e.budgets.Save(context.Background(), b))
	return b
}

func (e *testEnv) project(t *testing.T, code string, total int64) *project.Project {
	t.Helper()
	p, err := project.NewProject(code, "Project "+code, "",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		valueobject.NewMoneyUSD(decimal.NewFromInt(total)), "Donor", "alice")
	require.NoError(t, err)
	require.NoError(t, e.projects.Save(context.Background(), p))
	return p
}

func expenseRequest(categoryID uuid.UUID, amount float64, day int) RecordTransactionRequest {
	return RecordTransactionRequest{
		Kind:        "expense",
		CategoryID:  &categoryID,
		Amount:      decimal.NewFromFloat(amount),
		Description: "test expense",
		Date:        time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		RecordedBy:  "alice",
	}
}

func TestRecordTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("records an expense and generates a monthly reference", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.category(t, "Travel", registry.CategoryKindExpense)

		first, err := env.service.RecordTransaction(ctx, expenseRequest(category.ID, 300, 5))
		require.NoError(t, err)
		assert.Equal(t, "TXN-202603-0001", first.Reference)

		second, err := env.service.RecordTransaction(ctx, expenseRequest(category.ID, 800, 10))
		require.NoError(t, err)
		assert.Equal(t, "TXN-202603-0002", second.Reference)
	})

	t.Run("reference sequences are per month", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.category(t, "Travel", registry.CategoryKindExpense)

		_, err := env.service.RecordTransaction(ctx, expenseRequest(category.ID, 300, 5))
		require.NoError(t, err)

		req := expenseRequest(category.ID, 100, 1)
		req.Date = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		resp, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "TXN-202604-0001", resp.Reference)
	})

	t.Run("rejects a duplicate supplied reference", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.category(t, "Travel", registry.CategoryKindExpense)

		req := expenseRequest(category.ID, 300, 5)
		req.Reference = "INV-42"
		_, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)

		req = expenseRequest(category.ID, 100, 6)
		req.Reference = "INV-42"
		_, err = env.service.RecordTransaction(ctx, req)
		assertServiceCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("category is optional for every kind", func(t *testing.T) {
		env := newTestEnv(t)

		req := expenseRequest(uuid.Nil, 100, 5)
		req.CategoryID = nil
		resp, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, resp.CategoryID)

		transfer := RecordTransactionRequest{
			Kind:        "transfer",
			Amount:      decimal.NewFromInt(100),
			Description: "move to savings",
			Date:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			RecordedBy:  "alice",
		}
		_, err = env.service.RecordTransaction(ctx, transfer)
		assert.NoError(t, err)
	})

	t.Run("an uncategorized expense never touches budget caches", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)
		b := env.activeBudget(t, travel.ID, 1000)

		req := expenseRequest(uuid.Nil, 250, 5)
		req.CategoryID = nil
		_, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)

		stored, err := env.budgets.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.ItemFor(travel.ID).SpentAmount.IsZero())
	})

	t.Run("rejects a category of the wrong kind", func(t *testing.T) {
		env := newTestEnv(t)
		donations := env.category(t, "Donations", registry.CategoryKindIncome)

		_, err := env.service.RecordTransaction(ctx, expenseRequest(donations.ID, 100, 5))
		assertServiceCode(t, err, "CATEGORY_MISMATCH")
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.RecordTransaction(ctx, expenseRequest(uuid.New(), 100, 5))
		assertServiceCode(t, err, "INVALID_CATEGORY")
	})

	t.Run("rejects an unknown project", func(t *testing.T) {
		env := newTestEnv(t)
		category := env.category(t, "Travel", registry.CategoryKindExpense)

		req := expenseRequest(category.ID, 100, 5)
		missing := uuid.New()
		req.ProjectID = &missing
		_, err := env.service.RecordTransaction(ctx, req)
		assertServiceCode(t, err, "INVALID_PROJECT")
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.RecordTransaction(ctx, RecordTransactionRequest{})
		assertServiceCode(t, err, "INVALID_INPUT")
	})
}

func TestBudgetRefreshOnRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("spent cache tracks the ledger sum", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)
		b := env.activeBudget(t, travel.ID, 1000)

		_, err := env.service.RecordTransaction(ctx, expenseRequest(travel.ID, 300, 5))
		require.NoError(t, err)

		stored, err := env.budgets.FindByID(ctx, b.ID)
		require.NoError(t, err)
		item := stored.ItemFor(travel.ID)
		require.NotNil(t, item)
		assert.True(t, item.SpentAmount.Equal(decimal.NewFromInt(300)), "got %s", item.SpentAmount)
		assert.False(t, item.IsOverspent())

		// Second expense pushes the item over its 1000 allocation; the
		// write still succeeds.
		_, err = env.service.RecordTransaction(ctx, expenseRequest(travel.ID, 800, 10))
		require.NoError(t, err)

		stored, err = env.budgets.FindByID(ctx, b.ID)
		require.NoError(t, err)
		item = stored.ItemFor(travel.ID)
		assert.True(t, item.SpentAmount.Equal(decimal.NewFromInt(1100)), "got %s", item.SpentAmount)
		assert.True(t, item.IsOverspent())
		assert.True(t, item.Variance().Equal(decimal.NewFromInt(100)))
	})

	t.Run("project spent cache follows linked outflows", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)
		p := env.project(t, "WASH-2026", 20000)

		req := expenseRequest(travel.ID, 5000, 5)
		req.Kind = "disbursement"
		req.ProjectID = &p.ID
		_, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)

		stored, err := env.projects.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, stored.SpentAmount.Equal(decimal.NewFromInt(5000)), "got %s", stored.SpentAmount)
		assert.Equal(t, "25", stored.BudgetUtilization().String())
	})

	t.Run("income does not touch budget caches", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)
		donations := env.category(t, "Donations", registry.CategoryKindIncome)
		b := env.activeBudget(t, travel.ID, 1000)

		req := RecordTransactionRequest{
			Kind:        "income",
			CategoryID:  &donations.ID,
			Amount:      decimal.NewFromInt(900),
			Description: "annual gala",
			Date:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			RecordedBy:  "alice",
		}
		_, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)

		stored, err := env.budgets.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.ItemFor(travel.ID).SpentAmount.IsZero())
	})
}

func TestReverseTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("reversal nets every derived aggregate to zero", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)
		b := env.activeBudget(t, travel.ID, 1000)
		p := env.project(t, "WASH-2026", 20000)

		req := expenseRequest(travel.ID, 800, 5)
		req.ProjectID = &p.ID
		recorded, err := env.service.RecordTransaction(ctx, req)
		require.NoError(t, err)

		rev, err := env.service.ReverseTransaction(ctx, recorded.ID, "bob")
		require.NoError(t, err)
		assert.Equal(t, "REV-"+recorded.Reference, rev.Reference)
		assert.Equal(t, recorded.ID, *rev.ReversalOf)

		storedBudget, err := env.budgets.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, storedBudget.ItemFor(travel.ID).SpentAmount.IsZero(),
			"got %s", storedBudget.ItemFor(travel.ID).SpentAmount)

		storedProject, err := env.projects.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, storedProject.SpentAmount.IsZero(), "got %s", storedProject.SpentAmount)
	})

	t.Run("a transaction can only be reversed once", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)

		recorded, err := env.service.RecordTransaction(ctx, expenseRequest(travel.ID, 300, 5))
		require.NoError(t, err)

		_, err = env.service.ReverseTransaction(ctx, recorded.ID, "bob")
		require.NoError(t, err)
		_, err = env.service.ReverseTransaction(ctx, recorded.ID, "bob")
		assertServiceCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("a reversal cannot be reversed", func(t *testing.T) {
		env := newTestEnv(t)
		travel := env.category(t, "Travel", registry.CategoryKindExpense)

		recorded, err := env.service.RecordTransaction(ctx, expenseRequest(travel.ID, 300, 5))
		require.NoError(t, err)
		rev, err := env.service.ReverseTransaction(ctx, recorded.ID, "bob")
		require.NoError(t, err)

		_, err = env.service.ReverseTransaction(ctx, rev.ID, "bob")
		assertServiceCode(t, err, "INVALID_STATE")
	})

	t.Run("reversing an unknown transaction reports not found", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.ReverseTransaction(ctx, uuid.New(), "bob")
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	travel := env.category(t, "Travel", registry.CategoryKindExpense)
	donations := env.category(t, "Donations", registry.CategoryKindIncome)

	for day := 1; day <= 5; day++ {
		_, err := env.service.RecordTransaction(ctx, expenseRequest(travel.ID, float64(day*100), day))
		require.NoError(t, err)
	}
	income := RecordTransactionRequest{
		Kind:        "income",
		CategoryID:  &donations.ID,
		Amount:      decimal.NewFromInt(5000),
		Description: "grant payout",
		Date:        time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		RecordedBy:  "alice",
	}
	_, err := env.service.RecordTransaction(ctx, income)
	require.NoError(t, err)

	t.Run("filters by kind", func(t *testing.T) {
		kind := "income"
		page, err := env.service.ListTransactions(ctx, ListTransactionsRequest{Kind: &kind})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "grant payout", page.Items[0].Description)
	})

	t.Run("filters by category and date range", func(t *testing.T) {
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
		page, err := env.service.ListTransactions(ctx, ListTransactionsRequest{
			FromDate:   &from,
			ToDate:     &to,
			CategoryID: &travel.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
	})

	t.Run("paginates in date order", func(t *testing.T) {
		page, err := env.service.ListTransactions(ctx, ListTransactionsRequest{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(6), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.False(t, page.Items[0].Date.After(page.Items[1].Date))
	})

	t.Run("rejects an invalid kind filter", func(t *testing.T) {
		kind := "refund"
		_, err := env.service.ListTransactions(ctx, ListTransactionsRequest{Kind: &kind})
		assertServiceCode(t, err, "INVALID_KIND")
	})
}

func TestAuditTrailOnRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	travel := env.category(t, "Travel", registry.CategoryKindExpense)

	recorded, err := env.service.RecordTransaction(ctx, expenseRequest(travel.ID, 300, 5))
	require.NoError(t, err)
	rev, err := env.service.ReverseTransaction(ctx, recorded.ID, "bob")
	require.NoError(t, err)

	trail := auditapp.NewTrailService(env.entries)

	entries, err := trail.ByResource(ctx, "Transaction", recorded.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
	assert.Equal(t, "alice", entries[0].Actor)

	entries, err = trail.ByResource(ctx, "Transaction", rev.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "reverse", entries[0].Action)
	assert.Equal(t, "bob", entries[0].Actor)
}

func assertServiceCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected domain error, got %T: %v", err, err)
	assert.Equal(t, code, de.Code)
}
