package budget

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetService provides application-level budget operations
type BudgetService struct {
	txManager    shared.TransactionManager
	budgets      budget.BudgetRepository
	categories   registry.CategoryRepository
	transactions ledger.TransactionRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
	validate     *validator.Validate
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	txManager shared.TransactionManager,
	budgets budget.BudgetRepository,
	categories registry.CategoryRepository,
	transactions ledger.TransactionRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		txManager:    txManager,
		budgets:      budgets,
		categories:   categories,
		transactions: transactions,
		eventBus:     eventBus,
		logger:       logger,
		validate:     validator.New(),
	}
}

// CreateBudgetRequest represents a request to create a budget
type CreateBudgetRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	FiscalYear  int             `json:"fiscal_year" validate:"required"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	EndDate     time.Time       `json:"end_date" validate:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" validate:"required"`
	CreatedBy   string          `json:"created_by" validate:"required,max=100"`
}

// AddBudgetItemRequest represents a request to add a per-category allocation
type AddBudgetItemRequest struct {
	CategoryID      uuid.UUID       `json:"category_id" validate:"required"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" validate:"required"`
	Notes           string          `json:"notes"`
}

// BudgetItemResponse represents a budget item in API responses
type BudgetItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CategoryID         uuid.UUID       `json:"category_id"`
	AllocatedAmount    decimal.Decimal `json:"allocated_amount"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	Variance           decimal.Decimal `json:"variance"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	Overspent          bool            `json:"overspent"`
	Notes              string          `json:"notes,omitempty"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	FiscalYear     int                  `json:"fiscal_year"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        time.Time            `json:"end_date"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	AllocatedTotal decimal.Decimal      `json:"allocated_total"`
	Status         string               `json:"status"`
	CreatedBy      string               `json:"created_by"`
	Items          []BudgetItemResponse `json:"items"`
	CreatedAt      time.Time            `json:"created_at"`
}

// VarianceRow is one category line of a budget variance report
type VarianceRow struct {
	CategoryID         uuid.UUID       `json:"category_id"`
	CategoryName       string          `json:"category_name"`
	AllocatedAmount    decimal.Decimal `json:"allocated_amount"`
	SpentAmount        decimal.Decimal `json:"spent_amount"`
	Variance           decimal.Decimal `json:"variance"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	Overspent          bool            `json:"overspent"`
}

// VarianceReport summarizes budget performance per category.
// Variance is spent minus allocated: positive means overspend.
type VarianceReport struct {
	BudgetID       uuid.UUID       `json:"budget_id"`
	BudgetName     string          `json:"budget_name"`
	Status         string          `json:"status"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalVariance  decimal.Decimal `json:"total_variance"`
	OverspentItems int             `json:"overspent_items"`
	Rows           []VarianceRow   `json:"rows"`
}

// CreateBudget creates a new draft budget
func (s *BudgetService) CreateBudget(ctx context.Context, req CreateBudgetRequest) (*BudgetResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	b, err := budget.NewBudget(
		req.Name,
		req.Description,
		req.FiscalYear,
		req.StartDate,
		req.EndDate,
		valueobject.NewMoneyUSD(req.TotalAmount),
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saveAndPublish(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("budget created", zap.String("name", b.Name), zap.Int("fiscal_year", b.FiscalYear))

	return toBudgetResponse(b), nil
}

// AddBudgetItem adds a per-category allocation to the budget. Only expense
// categories can be budgeted.
func (s *BudgetService) AddBudgetItem(ctx context.Context, budgetID uuid.UUID, req AddBudgetItemRequest) (*BudgetResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	category, err := s.categories.FindByID(ctx, req.CategoryID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
		return nil, err
	}
	if category.Kind != registry.CategoryKindExpense {
		return nil, shared.NewDomainError("CATEGORY_MISMATCH", "Only expense categories can be budgeted")
	}

	var b *budget.Budget
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err = s.budgets.FindByID(txCtx, budgetID)
		if err != nil {
			return err
		}
		item, err := b.AddItem(req.CategoryID, valueobject.NewMoneyUSD(req.AllocatedAmount), req.Notes)
		if err != nil {
			return err
		}
		// An item added to an active budget starts at the ledger sum, not
		// at zero: the period may already hold transactions.
		if b.IsActive() {
			if err := s.refreshFromLedger(txCtx, b, item.CategoryID); err != nil {
				return err
			}
		}
		return s.budgets.Save(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return toBudgetResponse(b), nil
}

// ActivateBudget moves a draft budget to active. Items are back-filled from
// transactions already recorded inside the budget period, so the spent cache
// equals the ledger sum the moment the budget starts tracking.
func (s *BudgetService) ActivateBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetResponse, error) {
	var b *budget.Budget
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		b, err = s.budgets.FindByID(txCtx, budgetID)
		if err != nil {
			return err
		}
		if err := b.Activate(); err != nil {
			return err
		}
		for i := range b.Items {
			if err := s.refreshFromLedger(txCtx, b, b.Items[i].CategoryID); err != nil {
				return err
			}
		}
		return s.budgets.Save(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	s.logger.Info("budget activated", zap.String("name", b.Name))
	return toBudgetResponse(b), nil
}

// refreshFromLedger replaces one item's spent cache with the authoritative
// period sum. Unchanged caches are left alone so no refresh event is raised.
func (s *BudgetService) refreshFromLedger(ctx context.Context, b *budget.Budget, categoryID uuid.UUID) error {
	spent, err := s.transactions.SumByCategory(ctx, categoryID, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	if item := b.ItemFor(categoryID); item != nil && spent.Equal(item.SpentAmount) {
		return nil
	}
	_, err = b.RefreshItemSpent(categoryID, spent)
	return err
}

// CloseBudget freezes an active budget
func (s *BudgetService) CloseBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if err := b.Close(); err != nil {
		return nil, err
	}
	if err := s.saveAndPublish(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("budget closed", zap.String("name", b.Name))
	return toBudgetResponse(b), nil
}

// GetBudget returns a budget by ID
func (s *BudgetService) GetBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return toBudgetResponse(b), nil
}

// ListBudgets returns all budgets
func (s *BudgetService) ListBudgets(ctx context.Context) ([]BudgetResponse, error) {
	budgets, err := s.budgets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = *toBudgetResponse(&budgets[i])
	}
	return responses, nil
}

// DeleteBudget removes a budget that never went active
func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID uuid.UUID) error {
	b, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if b.Status != budget.BudgetStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft budgets can be deleted")
	}
	return s.budgets.Delete(ctx, budgetID)
}

// BudgetVariance builds the per-category variance report for a budget
func (s *BudgetService) BudgetVariance(ctx context.Context, budgetID uuid.UUID) (*VarianceReport, error) {
	b, err := s.budgets.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	report := &VarianceReport{
		BudgetID:       b.ID,
		BudgetName:     b.Name,
		Status:         b.Status.String(),
		TotalAllocated: decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalVariance:  decimal.Zero,
		Rows:           make([]VarianceRow, 0, len(b.Items)),
	}
	for i := range b.Items {
		item := &b.Items[i]
		name := ""
		if category, err := s.categories.FindByID(ctx, item.CategoryID); err == nil {
			name = category.Name
		}
		row := VarianceRow{
			CategoryID:         item.CategoryID,
			CategoryName:       name,
			AllocatedAmount:    item.AllocatedAmount,
			SpentAmount:        item.SpentAmount,
			Variance:           item.Variance(),
			UtilizationPercent: item.UtilizationPercent(),
			Overspent:          item.IsOverspent(),
		}
		report.Rows = append(report.Rows, row)
		report.TotalAllocated = report.TotalAllocated.Add(item.AllocatedAmount)
		report.TotalSpent = report.TotalSpent.Add(item.SpentAmount)
		if row.Overspent {
			report.OverspentItems++
		}
	}
	report.TotalVariance = report.TotalSpent.Sub(report.TotalAllocated)
	return report, nil
}

func (s *BudgetService) saveAndPublish(ctx context.Context, b *budget.Budget) error {
	if err := s.budgets.Save(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, b)
	return nil
}

// publish flushes the aggregate's domain events after the mutation has
// committed. A publish failure is logged, never propagated.
func (s *BudgetService) publish(ctx context.Context, b *budget.Budget) {
	events := b.GetDomainEvents()
	b.ClearDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish domain events", zap.Error(err))
		}
	}
}

func toBudgetResponse(b *budget.Budget) *BudgetResponse {
	items := make([]BudgetItemResponse, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		items[i] = BudgetItemResponse{
			ID:                 item.ID,
			CategoryID:         item.CategoryID,
			AllocatedAmount:    item.AllocatedAmount,
			SpentAmount:        item.SpentAmount,
			Variance:           item.Variance(),
			UtilizationPercent: item.UtilizationPercent(),
			Overspent:          item.IsOverspent(),
			Notes:              item.Notes,
		}
	}
	return &BudgetResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		FiscalYear:     b.FiscalYear,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		TotalAmount:    b.TotalAmount,
		AllocatedTotal: b.AllocatedTotal(),
		Status:         b.Status.String(),
		CreatedBy:      b.CreatedBy,
		Items:          items,
		CreatedAt:      b.CreatedAt,
	}
}
