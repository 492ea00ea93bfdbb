package dto

import (
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMilestoneRequest defines a milestone to add to a goal.
type CreateMilestoneRequest struct {
	Name             string          `json:"name" binding:"required,max=255"`
	TargetDate       time.Time       `json:"targetDate" binding:"required"`
	TargetCarbonInKg decimal.Decimal `json:"targetCarbonInKg"`
}

// CreateGoalRequest defines the body for creating a reduction goal.
type CreateGoalRequest struct {
	ScopeRequest
	Name                      string                   `json:"name" binding:"required,max=255"`
	Description               string                   `json:"description,omitempty" binding:"max=2000"`
	BaselineCarbonInKg        decimal.Decimal          `json:"baselineCarbonInKg"`
	TargetCarbonInKg          decimal.Decimal          `json:"targetCarbonInKg"`
	TargetReductionPercentage decimal.Decimal          `json:"targetReductionPercentage"`
	StartDate                 time.Time                `json:"startDate" binding:"required"`
	TargetDate                time.Time                `json:"targetDate" binding:"required"`
	Milestones                []CreateMilestoneRequest `json:"milestones,omitempty" binding:"omitempty,dive"`
}

// UpdateGoalRequest is a partial update; nil fields are left unchanged.
type UpdateGoalRequest struct {
	Name                      *string            `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description               *string            `json:"description,omitempty" binding:"omitempty,max=2000"`
	BaselineCarbonInKg        *decimal.Decimal   `json:"baselineCarbonInKg,omitempty"`
	TargetCarbonInKg          *decimal.Decimal   `json:"targetCarbonInKg,omitempty"`
	TargetReductionPercentage *decimal.Decimal   `json:"targetReductionPercentage,omitempty"`
	TargetDate                *time.Time         `json:"targetDate,omitempty"`
	Status                    *domain.GoalStatus `json:"status,omitempty" binding:"omitempty,oneof=active achieved missed archived"`
}

// ListGoalsQuery binds goal listing filters from the query string.
type ListGoalsQuery struct {
	OrganizationID string `form:"organizationId" binding:"required"`
	DepartmentID   string `form:"departmentId"`
	ProjectID      string `form:"projectId"`
	Status         string `form:"status" binding:"omitempty,oneof=active achieved missed archived"`
}

// ToFilter converts the query to a domain.GoalFilter.
func (q ListGoalsQuery) ToFilter() domain.GoalFilter {
	return domain.GoalFilter{
		DepartmentID: q.DepartmentID,
		ProjectID:    q.ProjectID,
		Status:       domain.GoalStatus(q.Status),
	}
}

// GoalResponse defines the API shape of a goal.
type GoalResponse struct {
	GoalID                    string                 `json:"goalId"`
	OrganizationID            string                 `json:"organizationId"`
	DepartmentID              string                 `json:"departmentId,omitempty"`
	ProjectID                 string                 `json:"projectId,omitempty"`
	Name                      string                 `json:"name"`
	Description               string                 `json:"description,omitempty"`
	BaselineCarbonInKg        decimal.Decimal        `json:"baselineCarbonInKg"`
	TargetCarbonInKg          decimal.Decimal        `json:"targetCarbonInKg"`
	TargetReductionPercentage decimal.Decimal        `json:"targetReductionPercentage"`
	StartDate                 time.Time              `json:"startDate"`
	TargetDate                time.Time              `json:"targetDate"`
	Status                    domain.GoalStatus      `json:"status"`
	Milestones                []domain.GoalMilestone `json:"milestones"`
	CreatedAt                 time.Time              `json:"createdAt"`
	LastUpdatedAt             time.Time              `json:"lastUpdatedAt"`
}

// ToGoalResponse converts a domain.CarbonReductionGoal to GoalResponse
func ToGoalResponse(g *domain.CarbonReductionGoal) GoalResponse {
	milestones := g.Milestones
	if milestones == nil {
		milestones = []domain.GoalMilestone{}
	}
	return GoalResponse{
		GoalID:                    g.GoalID,
		OrganizationID:            g.OrganizationID,
		DepartmentID:              g.DepartmentID,
		ProjectID:                 g.ProjectID,
		Name:                      g.Name,
		Description:               g.Description,
		BaselineCarbonInKg:        g.BaselineCarbonInKg,
		TargetCarbonInKg:          g.TargetCarbonInKg,
		TargetReductionPercentage: g.TargetReductionPercentage,
		StartDate:                 g.StartDate,
		TargetDate:                g.TargetDate,
		Status:                    g.Status,
		Milestones:                milestones,
		CreatedAt:                 g.CreatedAt,
		LastUpdatedAt:             g.LastUpdatedAt,
	}
}

// ToListGoalResponse converts a slice of goals.
func ToListGoalResponse(goals []domain.CarbonReductionGoal) []GoalResponse {
	responses := make([]GoalResponse, len(goals))
	for i := range goals {
		responses[i] = ToGoalResponse(&goals[i])
	}
	return responses
}

// GoalProgressResponse is returned by the progress endpoint.
type GoalProgressResponse struct {
	Goal               GoalResponse    `json:"goal"`
	CurrentCarbonInKg  decimal.Decimal `json:"currentCarbonInKg"`
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
	IsAchieved         bool            `json:"isAchieved"`
}

// ToGoalProgressResponse converts a domain.GoalProgress.
func ToGoalProgressResponse(p *domain.GoalProgress) GoalProgressResponse {
	return GoalProgressResponse{
		Goal:               ToGoalResponse(p.Goal),
		CurrentCarbonInKg:  p.CurrentCarbonInKg,
		ProgressPercentage: p.ProgressPercentage.Round(2),
		IsAchieved:         p.IsAchieved,
	}
}
