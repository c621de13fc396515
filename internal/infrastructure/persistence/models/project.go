package models

import (
	"time"

	"github.com/openledger/backend/internal/domain/project"
	"github.com/shopspring/decimal"
)

// ProjectModel is the GORM model for funded projects
type ProjectModel struct {
	AggregateModel
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	StartDate   time.Time       `gorm:"not null"`
	EndDate     *time.Time      `gorm:""`
	TotalBudget decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	SpentAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	DonorName   string          `gorm:"type:varchar(200)"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	CreatedBy   string          `gorm:"type:varchar(100);not null"`
}

// TableName specifies the table name
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the model to a domain Project
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		TotalBudget:       m.TotalBudget,
		SpentAmount:       m.SpentAmount,
		DonorName:         m.DonorName,
		Status:            project.ProjectStatus(m.Status),
		CreatedBy:         m.CreatedBy,
	}
}

// ProjectModelFromDomain creates a model from a domain Project
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		TotalBudget: p.TotalBudget,
		SpentAmount: p.SpentAmount,
		DonorName:   p.DonorName,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
