package project

import (
	"time"

	"github.com/openledger/backend/internal/domain/shared"
	"github.com/openledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// Project represents a funded project aggregate root.
// SpentAmount is a persisted cache of the signed sum of linked outflow
// transactions, refreshed in the same storage transaction as the insert.
type Project struct {
	shared.BaseAggregateRoot
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	DonorName   string          `json:"donor_name"`
	Status      ProjectStatus   `json:"status"`
	CreatedBy   string          `json:"created_by"`
}

// NewProject creates a new project in planning status
func NewProject(code, name, description string, startDate time.Time, totalBudget valueobject.Money, donorName, createdBy string) (*Project, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Project code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Project start date is required")
	}
	if totalBudget.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total budget cannot be negative")
	}
	if createdBy == "" {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Creating actor cannot be empty")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Description:       description,
		StartDate:         startDate,
		TotalBudget:       totalBudget.Amount(),
		SpentAmount:       decimal.Zero,
		DonorName:         donorName,
		Status:            ProjectStatusPlanning,
		CreatedBy:         createdBy,
	}, nil
}

// RefreshSpent replaces the cached spent amount with the authoritative sum
// recomputed from the ledger.
func (p *Project) RefreshSpent(spent decimal.Decimal) {
	p.SpentAmount = spent
	p.UpdatedAt = time.Now()
}

// BudgetUtilization returns spent as a percentage of the total budget,
// rounded to two decimal places.
func (p *Project) BudgetUtilization() decimal.Decimal {
	if !p.TotalBudget.IsPositive() {
		return decimal.Zero
	}
	return p.SpentAmount.Mul(decimal.NewFromInt(100)).Div(p.TotalBudget).Round(2)
}

// SetStatus transitions the project lifecycle state
func (p *Project) SetStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Project status is not valid")
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}
