package repositories

import (
	"context"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
)

// GoalReader defines read operations for reduction goals
type GoalReader interface {
	FindGoalByID(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error)
	// ListGoals returns the organization's goals matching filter, ordered by target date ascending.
	ListGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error)
}

// GoalWriter defines write operations for reduction goals
type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.CarbonReductionGoal) error
	// UpdateGoal overwrites the mutable fields of the goal, milestones included.
	UpdateGoal(ctx context.Context, goal domain.CarbonReductionGoal) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}
