package cashflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/cashflow"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// seedLookbackDays is how far before the first snapshot the accumulation
// window opens when no seed date is configured.
const seedLookbackDays = 90

// CashflowService computes and serves cashflow snapshots. A snapshot's
// period runs from the previous snapshot (exclusive) to its own date
// (inclusive); the very first period is anchored by the configured seed.
type CashflowService struct {
	snapshots    cashflow.SnapshotRepository
	transactions ledger.TransactionRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
	cfg          config.CashflowConfig
}

// NewCashflowService creates a new CashflowService
func NewCashflowService(
	snapshots cashflow.SnapshotRepository,
	transactions ledger.TransactionRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
	cfg config.CashflowConfig,
) *CashflowService {
	return &CashflowService{
		snapshots:    snapshots,
		transactions: transactions,
		eventBus:     eventBus,
		logger:       logger,
		cfg:          cfg,
	}
}

// SnapshotResponse represents a cashflow snapshot in API responses
type SnapshotResponse struct {
	ID               uuid.UUID       `json:"id"`
	Date             time.Time       `json:"date"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	PeriodDays       int             `json:"period_days"`
	BurnRate         decimal.Decimal `json:"burn_rate"`
	Projection30Days decimal.Decimal `json:"projection_30_days"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ComputeSnapshot computes and appends the snapshot for the given date.
// The operation is idempotent: if a snapshot for that date already exists it
// is returned unchanged.
func (s *CashflowService) ComputeSnapshot(ctx context.Context, asOf time.Time) (*SnapshotResponse, error) {
	date := normalizeDate(asOf)

	if existing, err := s.snapshots.FindByDate(ctx, date); err == nil {
		return toSnapshotResponse(existing), nil
	} else if !shared.IsNotFound(err) {
		return nil, err
	}

	opening, periodStart, err := s.periodOpening(ctx, date)
	if err != nil {
		return nil, err
	}
	periodDays := int(date.Sub(periodStart).Hours() / 24)
	if periodDays <= 0 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Snapshot date must be after the previous snapshot")
	}

	income, err := s.transactions.SumInflow(ctx, periodStart, date)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactions.SumOutflow(ctx, periodStart, date)
	if err != nil {
		return nil, err
	}
	history, err := s.snapshots.History(ctx, date)
	if err != nil {
		return nil, err
	}

	snap, err := cashflow.Analyze(date, opening, income, expenses, periodDays, history)
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Append(ctx, snap); err != nil {
		// Lost an append race for the same date: the stored snapshot wins.
		if de, ok := err.(*shared.DomainError); ok && de.Code == "ALREADY_EXISTS" {
			existing, findErr := s.snapshots.FindByDate(ctx, date)
			if findErr != nil {
				return nil, findErr
			}
			return toSnapshotResponse(existing), nil
		}
		return nil, err
	}

	event := cashflow.NewSnapshotComputedEvent(snap)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish snapshot event", zap.Error(err))
	}
	s.logger.Info("cashflow snapshot computed",
		zap.Time("date", snap.Date),
		zap.String("closing_balance", snap.ClosingBalance.String()),
		zap.String("burn_rate", snap.BurnRate.String()),
	)

	return toSnapshotResponse(snap), nil
}

// GetSnapshot returns the snapshot for the given date
func (s *CashflowService) GetSnapshot(ctx context.Context, date time.Time) (*SnapshotResponse, error) {
	snap, err := s.snapshots.FindByDate(ctx, normalizeDate(date))
	if err != nil {
		return nil, err
	}
	return toSnapshotResponse(snap), nil
}

// ListSnapshots returns snapshots within [from, to] ordered by date
func (s *CashflowService) ListSnapshots(ctx context.Context, from, to time.Time) ([]SnapshotResponse, error) {
	snapshots, err := s.snapshots.List(ctx, normalizeDate(from), normalizeDate(to))
	if err != nil {
		return nil, err
	}
	responses := make([]SnapshotResponse, len(snapshots))
	for i := range snapshots {
		responses[i] = *toSnapshotResponse(&snapshots[i])
	}
	return responses, nil
}

// periodOpening resolves the opening balance and the exclusive start of the
// accumulation period: the previous snapshot when one exists, the configured
// seed otherwise.
func (s *CashflowService) periodOpening(ctx context.Context, date time.Time) (decimal.Decimal, time.Time, error) {
	prev, err := s.snapshots.FindLatestBefore(ctx, date)
	if err == nil {
		return prev.ClosingBalance, prev.Date, nil
	}
	if !shared.IsNotFound(err) {
		return decimal.Zero, time.Time{}, err
	}

	opening := decimal.Zero
	if s.cfg.SeedBalance != "" {
		opening, err = decimal.NewFromString(s.cfg.SeedBalance)
		if err != nil {
			return decimal.Zero, time.Time{}, shared.NewDomainError("INVALID_INPUT", "Configured seed balance is not a valid decimal")
		}
	}
	start := date.AddDate(0, 0, -seedLookbackDays)
	if s.cfg.SeedDate != "" {
		seedDate, err := time.Parse("2006-01-02", s.cfg.SeedDate)
		if err != nil {
			return decimal.Zero, time.Time{}, shared.NewDomainError("INVALID_INPUT", "Configured seed date is not YYYY-MM-DD")
		}
		start = seedDate.UTC()
	}
	return opening, start, nil
}

// normalizeDate truncates to UTC midnight so date equality is exact
func normalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func toSnapshotResponse(s *cashflow.Snapshot) *SnapshotResponse {
	return &SnapshotResponse{
		ID:               s.ID,
		Date:             s.Date,
		OpeningBalance:   s.OpeningBalance,
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		ClosingBalance:   s.ClosingBalance,
		PeriodDays:       s.PeriodDays,
		BurnRate:         s.BurnRate,
		Projection30Days: s.Projection30Days,
		CreatedAt:        s.CreatedAt,
	}
}
