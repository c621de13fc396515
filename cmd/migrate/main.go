package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/openledger/backend/internal/infrastructure/logger"
	"github.com/openledger/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}
	log.Info("schema migrated", zap.String("path", cfg.Database.Path))

	if err := seedDefaults(context.Background(), db, log); err != nil {
		log.Fatal("Failed to seed default registry", zap.Error(err))
	}
	log.Info("migration complete")
}

// seedDefaults installs the default transaction and asset categories.
// Seeding is idempotent: existing names are left untouched.
func seedDefaults(ctx context.Context, db *persistence.Database, log *zap.Logger) error {
	categories := persistence.NewGormCategoryRepository(db.DB)
	defaults := []struct {
		name string
		kind registry.CategoryKind
		desc string
	}{
		{"Donations", registry.CategoryKindIncome, "Individual and corporate donations"},
		{"Grants", registry.CategoryKindIncome, "Grant funding from institutions"},
		{"Membership Fees", registry.CategoryKindIncome, "Annual member contributions"},
		{"Fundraising Events", registry.CategoryKindIncome, "Proceeds from fundraising events"},
		{"Salaries", registry.CategoryKindExpense, "Staff salaries and benefits"},
		{"Rent", registry.CategoryKindExpense, "Office and facility rent"},
		{"Utilities", registry.CategoryKindExpense, "Electricity, water and connectivity"},
		{"Travel", registry.CategoryKindExpense, "Staff travel and accommodation"},
		{"Office Supplies", registry.CategoryKindExpense, "Consumables and small equipment"},
		{"Program Costs", registry.CategoryKindExpense, "Direct program delivery costs"},
		{"Internal Transfer", registry.CategoryKindTransfer, "Movements between internal accounts"},
	}
	for _, d := range defaults {
		if _, err := categories.FindByName(ctx, d.name); err == nil {
			continue
		} else if !shared.IsNotFound(err) {
			return err
		}
		category, err := registry.NewCategory(d.name, d.kind, d.desc)
		if err != nil {
			return err
		}
		category.ClearDomainEvents()
		if err := categories.Save(ctx, category); err != nil {
			return err
		}
		log.Info("seeded category", zap.String("name", d.name), zap.String("kind", d.kind.String()))
	}

	assetCategories := persistence.NewGormAssetCategoryRepository(db.DB)
	existing, err := assetCategories.FindAll(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].Name] = true
	}
	assetDefaults := []struct {
		name  string
		rate  decimal.Decimal
		years int
		desc  string
	}{
		{"Computer Equipment", decimal.NewFromFloat(33.33), 3, "Laptops, desktops and peripherals"},
		{"Furniture", decimal.NewFromInt(10), 10, "Desks, chairs and fittings"},
		{"Vehicles", decimal.NewFromInt(20), 5, "Organization vehicles"},
		{"Buildings", decimal.NewFromInt(4), 25, "Owned premises"},
	}
	for _, d := range assetDefaults {
		if seen[d.name] {
			continue
		}
		category, err := registry.NewAssetCategory(d.name, d.rate, d.years, d.desc)
		if err != nil {
			return err
		}
		category.ClearDomainEvents()
		if err := assetCategories.Save(ctx, category); err != nil {
			return err
		}
		log.Info("seeded asset category", zap.String("name", d.name))
	}
	return nil
}
