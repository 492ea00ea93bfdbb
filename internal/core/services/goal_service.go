package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// goalService implements the GoalSvcFacade interface
type goalService struct {
	BaseService
	goalRepo  portsrepo.GoalRepositoryFacade
	footprint portssvc.FootprintRangeReaderSvc
	validate  *validator.Validate
}

// GoalServiceOption is a functional option for configuring the goal service
type GoalServiceOption func(*goalService)

// WithGoalClock overrides the clock used for date checks and progress timestamps.
func WithGoalClock(clock func() time.Time) GoalServiceOption {
	return func(s *goalService) {
		s.clock = clock
	}
}

// NewGoalService creates a new goal service. footprint supplies current usage for progress.
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, footprint portssvc.FootprintRangeReaderSvc, options ...GoalServiceOption) portssvc.GoalSvcFacade {
	svc := &goalService{
		goalRepo:  goalRepo,
		footprint: footprint,
		validate:  newRequestValidator(),
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// newRequestValidator validates DTOs against the same `binding` tags gin uses.
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// CreateGoal validates the request and persists a new active goal.
func (s *goalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest, userID string) (*domain.CarbonReductionGoal, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := s.Now()
	goal := domain.CarbonReductionGoal{
		GoalID:                    uuid.NewString(),
		Scope:                     req.ScopeRequest.ToDomain(),
		Name:                      req.Name,
		Description:               req.Description,
		BaselineCarbonInKg:        req.BaselineCarbonInKg,
		TargetCarbonInKg:          req.TargetCarbonInKg,
		TargetReductionPercentage: req.TargetReductionPercentage,
		StartDate:                 req.StartDate.UTC(),
		TargetDate:                req.TargetDate.UTC(),
		Status:                    domain.GoalActive,
		Milestones:                []domain.GoalMilestone{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := validateGoalTargets(goal); err != nil {
		return nil, err
	}
	if !goal.TargetDate.After(now) {
		return nil, apperrors.NewValidationError("target date must be in the future")
	}
	if !goal.StartDate.Before(goal.TargetDate) {
		return nil, apperrors.NewValidationError("start date must be before target date")
	}
	for _, m := range req.Milestones {
		milestone, err := newMilestone(goal, m)
		if err != nil {
			return nil, err
		}
		goal.AddMilestone(milestone)
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save carbon reduction goal", scopeAttrs(goal.Scope))
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	s.LogInfo(ctx, "Carbon reduction goal created",
		slog.String("goal_id", goal.GoalID),
		scopeAttrs(goal.Scope))
	return &goal, nil
}

// UpdateGoal merges the supplied fields into the goal and re-validates them.
func (s *goalService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.CarbonReductionGoal, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status == domain.GoalArchived {
		return nil, apperrors.NewValidationError("archived goals cannot be modified")
	}

	now := s.Now()
	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.BaselineCarbonInKg != nil {
		goal.BaselineCarbonInKg = *req.BaselineCarbonInKg
	}
	if req.TargetCarbonInKg != nil {
		goal.TargetCarbonInKg = *req.TargetCarbonInKg
	}
	if req.TargetReductionPercentage != nil {
		goal.TargetReductionPercentage = *req.TargetReductionPercentage
	}
	if req.TargetDate != nil {
		if !req.TargetDate.After(now) {
			return nil, apperrors.NewValidationError("target date must be in the future")
		}
		goal.TargetDate = req.TargetDate.UTC()
		if !goal.StartDate.Before(goal.TargetDate) {
			return nil, apperrors.NewValidationError("start date must be before target date")
		}
	}
	if req.Status != nil {
		if !req.Status.IsValid() || !goal.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("goal cannot move from %s to %s", goal.Status, *req.Status))
		}
		goal.Status = *req.Status
	}
	if err := validateGoalTargets(*goal); err != nil {
		return nil, err
	}
	for _, m := range goal.Milestones {
		if err := checkMilestoneBounds(*goal, m.TargetDate, m.TargetCarbonInKg); err != nil {
			return nil, fmt.Errorf("milestone %q no longer fits the goal: %w", m.Name, err)
		}
	}

	goal.LastUpdatedAt = now
	goal.LastUpdatedBy = userID
	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// UpdateGoalProgress recomputes the goal's progress from current usage, moving an
// active goal to achieved or missed and marking reached milestones.
func (s *goalService) UpdateGoalProgress(ctx context.Context, goalID string) (*domain.GoalProgress, error) {
	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != domain.GoalActive {
		return &domain.GoalProgress{
			Goal:               goal,
			CurrentCarbonInKg:  decimal.Zero,
			ProgressPercentage: decimal.Zero,
			IsAchieved:         goal.Status == domain.GoalAchieved,
		}, nil
	}

	now := s.Now()
	if now.Before(goal.StartDate) {
		// Not started; no usage window to measure yet.
		return &domain.GoalProgress{
			Goal:               goal,
			CurrentCarbonInKg:  decimal.Zero,
			ProgressPercentage: decimal.Zero,
		}, nil
	}

	current, err := s.footprint.GetFootprintForRange(ctx, goal.Scope, goal.StartDate, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to read current footprint for goal", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to read current footprint: %w", err)
	}

	progress := goalProgressPercentage(goal.BaselineCarbonInKg, goal.TargetCarbonInKg, current)
	isAchieved := current.LessThanOrEqual(goal.TargetCarbonInKg)

	changed := false
	if isAchieved {
		goal.Status = domain.GoalAchieved
		changed = true
	} else if now.After(goal.TargetDate) {
		goal.Status = domain.GoalMissed
		changed = true
	}
	if goal.MarkMilestonesAchieved(current, now) {
		changed = true
	}

	if changed {
		goal.LastUpdatedAt = now
		goal.LastUpdatedBy = systemUserID
		if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
			s.LogError(ctx, err, "Failed to persist goal progress", slog.String("goal_id", goalID))
			return nil, fmt.Errorf("failed to persist goal progress: %w", err)
		}
		s.LogInfo(ctx, "Goal progress updated",
			slog.String("goal_id", goalID),
			slog.String("status", string(goal.Status)),
			slog.String("progress", progress.StringFixed(2)))
	}

	return &domain.GoalProgress{
		Goal:               goal,
		CurrentCarbonInKg:  current,
		ProgressPercentage: progress,
		IsAchieved:         isAchieved,
	}, nil
}

// RefreshActiveGoals recomputes progress for every active goal of the organization.
// It keeps going past individual failures and returns them joined.
func (s *goalService) RefreshActiveGoals(ctx context.Context, organizationID string) ([]domain.GoalProgress, error) {
	goals, err := s.GetGoals(ctx, organizationID, domain.GoalFilter{Status: domain.GoalActive})
	if err != nil {
		return nil, err
	}

	results := make([]domain.GoalProgress, 0, len(goals))
	var errs []error
	for _, goal := range goals {
		progress, err := s.UpdateGoalProgress(ctx, goal.GoalID)
		if err != nil {
			errs = append(errs, fmt.Errorf("goal %s: %w", goal.GoalID, err))
			continue
		}
		results = append(results, *progress)
	}
	return results, errors.Join(errs...)
}

// AddMilestone validates the milestone against the goal and inserts it in date order.
func (s *goalService) AddMilestone(ctx context.Context, goalID string, req dto.CreateMilestoneRequest, userID string) (*domain.CarbonReductionGoal, error) {
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status == domain.GoalArchived {
		return nil, apperrors.NewValidationError("archived goals cannot be modified")
	}

	milestone, err := newMilestone(*goal, req)
	if err != nil {
		return nil, err
	}
	goal.AddMilestone(milestone)
	goal.LastUpdatedAt = s.Now()
	goal.LastUpdatedBy = userID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to add milestone", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}
	return goal, nil
}

// GetGoal retrieves a goal by ID.
func (s *goalService) GetGoal(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error) {
	if goalID == "" {
		return nil, apperrors.NewValidationError("goal ID is required")
	}
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("goal not found: " + goalID)
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// GetGoals lists an organization's goals ordered by target date.
func (s *goalService) GetGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error) {
	if organizationID == "" {
		return nil, apperrors.NewValidationError("organization ID is required")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown goal status %q", filter.Status))
	}
	goals, err := s.goalRepo.ListGoals(ctx, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// goalProgressPercentage is min(100, max(0, baseline-current) / (baseline-target) * 100),
// or 0 when the goal asks for no reduction.
func goalProgressPercentage(baseline, target, current decimal.Decimal) decimal.Decimal {
	targetReduction := baseline.Sub(target)
	if !targetReduction.IsPositive() {
		return zero
	}
	currentReduction := decimal.Max(zero, baseline.Sub(current))
	return decimal.Min(hundred, currentReduction.Div(targetReduction).Mul(hundred))
}

func validateGoalTargets(goal domain.CarbonReductionGoal) error {
	if goal.TargetReductionPercentage.LessThan(zero) || goal.TargetReductionPercentage.GreaterThan(hundred) {
		return apperrors.NewValidationError("target reduction percentage must be between 0 and 100")
	}
	if goal.BaselineCarbonInKg.IsNegative() || goal.TargetCarbonInKg.IsNegative() {
		return apperrors.NewValidationError("carbon amounts must not be negative")
	}
	if goal.TargetCarbonInKg.GreaterThan(goal.BaselineCarbonInKg) {
		return apperrors.NewValidationError("target carbon must not exceed baseline carbon")
	}
	return nil
}

// checkMilestoneBounds requires the milestone to sit within [start, target date]
// and [target, baseline] carbon of the goal.
func checkMilestoneBounds(goal domain.CarbonReductionGoal, targetDate time.Time, carbonInKg decimal.Decimal) error {
	if targetDate.Before(goal.StartDate) || targetDate.After(goal.TargetDate) {
		return apperrors.NewValidationError("milestone date must lie between the goal start and target dates")
	}
	if carbonInKg.LessThan(goal.TargetCarbonInKg) || carbonInKg.GreaterThan(goal.BaselineCarbonInKg) {
		return apperrors.NewValidationError("milestone carbon must lie between the goal target and baseline")
	}
	return nil
}

func newMilestone(goal domain.CarbonReductionGoal, req dto.CreateMilestoneRequest) (domain.GoalMilestone, error) {
	targetDate := req.TargetDate.UTC()
	if err := checkMilestoneBounds(goal, targetDate, req.TargetCarbonInKg); err != nil {
		return domain.GoalMilestone{}, err
	}
	return domain.GoalMilestone{
		MilestoneID:      uuid.NewString(),
		Name:             req.Name,
		TargetDate:       targetDate,
		TargetCarbonInKg: req.TargetCarbonInKg,
	}, nil
}
