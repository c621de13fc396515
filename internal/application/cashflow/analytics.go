package cashflow

import (
	"context"
	"time"

	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AnalyticsService builds financial summaries straight from the ledger
type AnalyticsService struct {
	transactions ledger.TransactionRepository
	logger       *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(transactions ledger.TransactionRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{transactions: transactions, logger: logger}
}

// FinancialSummary aggregates ledger activity over [From, To]
type FinancialSummary struct {
	From                 time.Time              `json:"from"`
	To                   time.Time              `json:"to"`
	TotalIncome          decimal.Decimal        `json:"total_income"`
	TotalExpenses        decimal.Decimal        `json:"total_expenses"`
	NetPosition          decimal.Decimal        `json:"net_position"`
	BurnRate             decimal.Decimal        `json:"burn_rate"`
	TopExpenseCategories []ledger.CategoryTotal `json:"top_expense_categories"`
	MonthlyIncome        []ledger.MonthlyTotal  `json:"monthly_income"`
	MonthlyExpenses      []ledger.MonthlyTotal  `json:"monthly_expenses"`
}

// Summary builds the financial summary for the period [from, to].
// Totals are derived from the per-month aggregates so the headline numbers
// always reconcile with the trend rows beneath them.
func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time, topCategories int) (*FinancialSummary, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Summary period end must not precede start")
	}

	monthlyIncome, err := s.transactions.MonthlyInflow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	monthlyExpenses, err := s.transactions.MonthlyOutflow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	top, err := s.transactions.TopOutflowCategories(ctx, from, to, topCategories)
	if err != nil {
		return nil, err
	}

	totalIncome := sumMonthly(monthlyIncome)
	totalExpenses := sumMonthly(monthlyExpenses)

	periodDays := int(to.Sub(from).Hours()/24) + 1
	if periodDays < 1 {
		periodDays = 1
	}
	burnRate := decimal.Zero
	if totalExpenses.IsPositive() {
		burnRate = totalExpenses.Div(decimal.NewFromInt(int64(periodDays)))
	}

	return &FinancialSummary{
		From:                 from,
		To:                   to,
		TotalIncome:          totalIncome,
		TotalExpenses:        totalExpenses,
		NetPosition:          totalIncome.Sub(totalExpenses),
		BurnRate:             burnRate,
		TopExpenseCategories: top,
		MonthlyIncome:        monthlyIncome,
		MonthlyExpenses:      monthlyExpenses,
	}, nil
}

func sumMonthly(totals []ledger.MonthlyTotal) decimal.Decimal {
	sum := decimal.Zero
	for i := range totals {
		sum = sum.Add(totals[i].Total)
	}
	return sum
}
