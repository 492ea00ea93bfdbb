package services

import (
	"context"

	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
)

// GoalReaderSvc defines read operations for reduction goals
type GoalReaderSvc interface {
	GetGoal(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error)
	GetGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error)
}

// GoalWriterSvc defines write operations for reduction goals
type GoalWriterSvc interface {
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest, userID string) (*domain.CarbonReductionGoal, error)
	UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.CarbonReductionGoal, error)
	AddMilestone(ctx context.Context, goalID string, req dto.CreateMilestoneRequest, userID string) (*domain.CarbonReductionGoal, error)
}

// GoalProgressSvc recomputes progress and drives automatic status transitions
type GoalProgressSvc interface {
	UpdateGoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error)
	// RefreshActiveGoals recomputes progress for every active goal of the organization.
	RefreshActiveGoals(ctx context.Context, organizationID string) ([]domain.GoalProgress, error)
}

// GoalSvcFacade combines all goal interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
	GoalProgressSvc
}
