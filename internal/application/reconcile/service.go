package reconcile

import (
	"context"

	"github.com/google/uuid"
	"github.com/openledger/backend/internal/domain/audit"
	"github.com/openledger/backend/internal/domain/budget"
	"github.com/openledger/backend/internal/domain/ledger"
	"github.com/openledger/backend/internal/domain/project"
	"go.uber.org/zap"
)

// ReconcileService re-derives every cached spent amount from the ledger and
// reports divergence. Anomalies are recorded in the audit trail and surfaced
// to the caller; the caches are never auto-corrected, so a human decides
// what to fix.
type ReconcileService struct {
	budgets      budget.BudgetRepository
	projects     project.ProjectRepository
	transactions ledger.TransactionRepository
	entries      audit.EntryRepository
	logger       *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(
	budgets budget.BudgetRepository,
	projects project.ProjectRepository,
	transactions ledger.TransactionRepository,
	entries audit.EntryRepository,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		budgets:      budgets,
		projects:     projects,
		transactions: transactions,
		entries:      entries,
		logger:       logger,
	}
}

// Anomaly is one detected divergence between a cached spent amount and the
// authoritative ledger sum
type Anomaly struct {
	ResourceType  string    `json:"resource_type"`
	ResourceID    uuid.UUID `json:"resource_id"`
	Detail        string    `json:"detail"`
	Cached        string    `json:"cached"`
	Authoritative string    `json:"authoritative"`
}

// Report summarizes one reconciliation run
type Report struct {
	CheckedBudgetItems int       `json:"checked_budget_items"`
	CheckedProjects    int       `json:"checked_projects"`
	Anomalies          []Anomaly `json:"anomalies"`
}

// Run checks all active budgets and all projects against the ledger
func (s *ReconcileService) Run(ctx context.Context, actor string) (*Report, error) {
	report := &Report{Anomalies: make([]Anomaly, 0)}

	budgets, err := s.budgets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		b := &budgets[i]
		// Closed budgets are frozen; their caches are allowed to diverge
		// from later ledger activity.
		if !b.IsActive() {
			continue
		}
		for j := range b.Items {
			item := &b.Items[j]
			report.CheckedBudgetItems++
			authoritative, err := s.transactions.SumByCategory(ctx, item.CategoryID, b.StartDate, b.EndDate)
			if err != nil {
				return nil, err
			}
			if item.SpentAmount.Equal(authoritative) {
				continue
			}
			anomaly := Anomaly{
				ResourceType:  "Budget",
				ResourceID:    b.ID,
				Detail:        "budget item spent cache diverges from ledger sum",
				Cached:        item.SpentAmount.String(),
				Authoritative: authoritative.String(),
			}
			report.Anomalies = append(report.Anomalies, anomaly)
			s.recordAnomaly(ctx, actor, anomaly, map[string]any{
				"category_id": item.CategoryID.String(),
				"cached":      anomaly.Cached,
			}, map[string]any{
				"category_id":   item.CategoryID.String(),
				"authoritative": anomaly.Authoritative,
			})
		}
	}

	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		p := &projects[i]
		report.CheckedProjects++
		authoritative, err := s.transactions.SumByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if p.SpentAmount.Equal(authoritative) {
			continue
		}
		anomaly := Anomaly{
			ResourceType:  "Project",
			ResourceID:    p.ID,
			Detail:        "project spent cache diverges from ledger sum",
			Cached:        p.SpentAmount.String(),
			Authoritative: authoritative.String(),
		}
		report.Anomalies = append(report.Anomalies, anomaly)
		s.recordAnomaly(ctx, actor, anomaly, map[string]any{
			"code":   p.Code,
			"cached": anomaly.Cached,
		}, map[string]any{
			"code":          p.Code,
			"authoritative": anomaly.Authoritative,
		})
	}

	if len(report.Anomalies) > 0 {
		s.logger.Error("reconciliation found divergent caches",
			zap.Int("anomalies", len(report.Anomalies)),
		)
	} else {
		s.logger.Info("reconciliation clean",
			zap.Int("checked_budget_items", report.CheckedBudgetItems),
			zap.Int("checked_projects", report.CheckedProjects),
		)
	}
	return report, nil
}

func (s *ReconcileService) recordAnomaly(ctx context.Context, actor string, anomaly Anomaly, oldValues, newValues map[string]any) {
	entry, err := audit.NewEntry(actor, audit.ActionAnomaly, anomaly.ResourceType, anomaly.ResourceID, oldValues, newValues)
	if err != nil {
		s.logger.Error("failed to build anomaly audit entry", zap.Error(err))
		return
	}
	if err := s.entries.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append anomaly audit entry", zap.Error(err))
	}
}
