package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/project"
	"github.com/openledger/backend/internal/domain/registry"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService provides application-level transaction recording operations.
// Recording a transaction and refreshing the budget and project spent caches
// happen in one storage transaction; derived state never drifts from the
// ledger within a committed write.
type LedgerService struct {
	txManager    shared.TransactionManager
	transactions ledger.TransactionRepository
	categories   registry.CategoryRepository
	budgets      budget.BudgetRepository
	projects     project.ProjectRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
	retry        config.RetryConfig
	validate     *validator.Validate
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txManager shared.TransactionManager,
	transactions ledger.TransactionRepository,
	categories registry.CategoryRepository,
	budgets budget.BudgetRepository,
	projects project.ProjectRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
	retry config.RetryConfig,
) *LedgerService {
	return &LedgerService{
		txManager:    txManager,
		transactions: transactions,
		categories:   categories,
		budgets:      budgets,
		projects:     projects,
		eventBus:     eventBus,
		logger:       logger,
		retry:        retry,
		validate:     validator.New(),
	}
}

// RecordTransactionRequest represents a request to record a transaction
type RecordTransactionRequest struct {
	Kind        string          `json:"kind" validate:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"required,max=500"`
	Reference   string          `json:"reference" validate:"omitempty,max=100"`
	Date        time.Time       `json:"date" validate:"required"`
	ProjectID   *uuid.UUID      `json:"project_id"`
	Recurrence  *string         `json:"recurrence"`
	Notes       string          `json:"notes"`
	RecordedBy  string          `json:"recorded_by" validate:"required,max=100"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	Date        time.Time       `json:"date"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	Recurrence  *string         `json:"recurrence,omitempty"`
	ReversalOf  *uuid.UUID      `json:"reversal_of,omitempty"`
	RecordedBy  string          `json:"recorded_by"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListTransactionsRequest defines filtering options for transaction list queries
type ListTransactionsRequest struct {
	FromDate   *time.Time `json:"from_date"`
	ToDate     *time.Time `json:"to_date"`
	CategoryID *uuid.UUID `json:"category_id"`
	ProjectID  *uuid.UUID `json:"project_id"`
	Kind       *string    `json:"kind"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// RecordTransaction validates and records a new ledger transaction
func (s *LedgerService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*TransactionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	kind := ledger.TransactionKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind is not valid")
	}

	if err := s.checkCategory(ctx, kind, req.CategoryID); err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		if _, err := s.projects.FindByID(ctx, *req.ProjectID); err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewDomainError("INVALID_PROJECT", "Linked project does not exist")
			}
			return nil, err
		}
	}

	reference, err := s.resolveReference(ctx, req.Reference, req.Date)
	if err != nil {
		return nil, err
	}

	var recurrence *ledger.RecurrenceFrequency
	if req.Recurrence != nil {
		f := ledger.RecurrenceFrequency(*req.Recurrence)
		recurrence = &f
	}

	tx, err := ledger.NewTransaction(
		kind,
		req.CategoryID,
		valueobject.NewMoneyUSD(req.Amount),
		req.Description,
		reference,
		req.Date,
		req.ProjectID,
		recurrence,
		req.RecordedBy,
	)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		tx.SetNotes(req.Notes)
	}

	events, err := s.persist(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events)

	s.logger.Info("transaction recorded",
		zap.String("reference", tx.Reference),
		zap.String("kind", tx.Kind.String()),
		zap.String("amount", tx.Amount.String()),
	)

	return toTransactionResponse(tx), nil
}

// ReverseTransaction records a compensating transaction for the original.
// The original stays untouched; the pair nets to zero in every derived
// aggregate.
func (s *LedgerService) ReverseTransaction(ctx context.Context, id uuid.UUID, actor string) (*TransactionResponse, error) {
	original, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reversed, err := s.transactions.ExistsByReference(ctx, "REV-"+original.Reference)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Transaction has already been reversed")
	}

	rev, err := ledger.NewReversal(original, actor)
	if err != nil {
		return nil, err
	}

	events, err := s.persist(ctx, rev)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events)

	s.logger.Info("transaction reversed",
		zap.String("original_reference", original.Reference),
		zap.String("reversal_reference", rev.Reference),
	)

	return toTransactionResponse(rev), nil
}

// GetTransaction returns a transaction by ID
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(tx), nil
}

// ListTransactions returns a page of transactions matching the filter
func (s *LedgerService) ListTransactions(ctx context.Context, req ListTransactionsRequest) (*shared.Paginated[TransactionResponse], error) {
	filter := ledger.TransactionFilter{
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
		CategoryID: req.CategoryID,
		ProjectID:  req.ProjectID,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.Kind != nil {
		kind := ledger.TransactionKind(*req.Kind)
		if !kind.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Transaction kind is not valid")
		}
		filter.Kind = &kind
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	total, err := s.transactions.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = *toTransactionResponse(&transactions[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// checkCategory enforces kind compatibility when a category is supplied.
// Categories are optional: an uncategorized transaction is valid, it simply
// never matches a budget item.
func (s *LedgerService) checkCategory(ctx context.Context, kind ledger.TransactionKind, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categories.FindByID(ctx, *categoryID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
		return err
	}
	if !kind.CompatibleWith(category.Kind) {
		return shared.NewDomainError("CATEGORY_MISMATCH",
			fmt.Sprintf("Category of kind %s cannot tag a %s transaction", category.Kind, kind))
	}
	return nil
}

// resolveReference returns the caller-supplied reference after a duplicate
// check, or generates the next TXN-YYYYMM-NNNN reference for the month.
func (s *LedgerService) resolveReference(ctx context.Context, reference string, date time.Time) (string, error) {
	if reference != "" {
		exists, err := s.transactions.ExistsByReference(ctx, reference)
		if err != nil {
			return "", err
		}
		if exists {
			return "", shared.NewDomainError("ALREADY_EXISTS", "Transaction reference already exists")
		}
		return reference, nil
	}
	yearMonth := date.Format("200601")
	seq, err := s.transactions.NextReferenceSequence(ctx, yearMonth)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%s-%04d", yearMonth, seq), nil
}

// persist writes the transaction and refreshes derived spent caches in one
// storage transaction, retrying transient failures with exponential backoff.
// It returns the domain events to publish after commit.
func (s *LedgerService) persist(ctx context.Context, tx *ledger.Transaction) ([]shared.DomainEvent, error) {
	var events []shared.DomainEvent
	op := func() error {
		events = events[:0]
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := s.transactions.Save(txCtx, tx); err != nil {
				return err
			}
			derived, err := s.refreshDerived(txCtx, tx)
			if err != nil {
				return err
			}
			events = append(events, tx.GetDomainEvents()...)
			events = append(events, derived...)
			return nil
		})
	}
	if err := s.retryTransient(ctx, op); err != nil {
		return nil, err
	}
	tx.ClearDomainEvents()
	return events, nil
}

// refreshDerived recomputes the budget item and project spent caches
// affected by the transaction from the authoritative ledger sums.
func (s *LedgerService) refreshDerived(ctx context.Context, tx *ledger.Transaction) ([]shared.DomainEvent, error) {
	if !tx.Kind.IsOutflow() {
		return nil, nil
	}

	var events []shared.DomainEvent
	if tx.CategoryID != nil {
		budgets, err := s.budgets.FindActiveCovering(ctx, *tx.CategoryID, tx.Date)
		if err != nil {
			return nil, err
		}
		for i := range budgets {
			b := &budgets[i]
			spent, err := s.transactions.SumByCategory(ctx, *tx.CategoryID, b.StartDate, b.EndDate)
			if err != nil {
				return nil, err
			}
			item, err := b.RefreshItemSpent(*tx.CategoryID, spent)
			if err != nil {
				return nil, err
			}
			if err := s.budgets.Save(ctx, b); err != nil {
				return nil, err
			}
			if item.IsOverspent() {
				s.logger.Warn("budget item overspent",
					zap.String("budget", b.Name),
					zap.String("category_id", item.CategoryID.String()),
					zap.String("allocated", item.AllocatedAmount.String()),
					zap.String("spent", item.SpentAmount.String()),
				)
			}
			events = append(events, b.GetDomainEvents()...)
			b.ClearDomainEvents()
		}
	}

	if tx.ProjectID != nil {
		p, err := s.projects.FindByID(ctx, *tx.ProjectID)
		if err != nil {
			return nil, err
		}
		spent, err := s.transactions.SumByProject(ctx, *tx.ProjectID)
		if err != nil {
			return nil, err
		}
		p.RefreshSpent(spent)
		if err := s.projects.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	return events, nil
}

// retryTransient retries op on transient storage failures. Validation and
// not-found errors abort immediately.
func (s *LedgerService) retryTransient(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if s.retry.InitialInterval > 0 {
		b.InitialInterval = s.retry.InitialInterval
	}
	if s.retry.MaxInterval > 0 {
		b.MaxInterval = s.retry.MaxInterval
	}
	wrapped := func() error {
		err := op()
		if err != nil && !shared.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.retry.MaxRetries)), ctx))
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

func toTransactionResponse(tx *ledger.Transaction) *TransactionResponse {
	var recurrence *string
	if tx.Recurrence != nil {
		r := string(*tx.Recurrence)
		recurrence = &r
	}
	return &TransactionResponse{
		ID:          tx.ID,
		Kind:        tx.Kind.String(),
		CategoryID:  tx.CategoryID,
		Amount:      tx.Amount,
		Description: tx.Description,
		Reference:   tx.Reference,
		Date:        tx.Date,
		ProjectID:   tx.ProjectID,
		Recurrence:  recurrence,
		ReversalOf:  tx.ReversalOf,
		RecordedBy:  tx.RecordedBy,
		Notes:       tx.Notes,
		CreatedAt:   tx.CreatedAt,
	}
}
