package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalMilestone is one element of the milestones JSONB column.
type GoalMilestone struct {
	MilestoneID      string          `json:"milestoneId"`
	Name             string          `json:"name"`
	TargetDate       time.Time       `json:"targetDate"`
	TargetCarbonInKg decimal.Decimal `json:"targetCarbonInKg"`
	Achieved         bool            `json:"achieved"`
	AchievedDate     *time.Time      `json:"achievedDate,omitempty"`
}

// CarbonReductionGoal represents a row of the carbon_goals table.
type CarbonReductionGoal struct {
	GoalID string `json:"goalId"`
	Scope
	Name                      string          `json:"name"`
	Description               string          `json:"description"`
	BaselineCarbonInKg        decimal.Decimal `json:"baselineCarbonInKg"`
	TargetCarbonInKg          decimal.Decimal `json:"targetCarbonInKg"`
	TargetReductionPercentage decimal.Decimal `json:"targetReductionPercentage"`
	StartDate                 time.Time       `json:"startDate"`
	TargetDate                time.Time       `json:"targetDate"`
	Status                    string          `json:"status"`
	Milestones                []GoalMilestone `json:"milestones"` // JSONB
	AuditFields
}
