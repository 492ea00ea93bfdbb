package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portssvc "github.com/SscSPs/carbon_accounting_app/internal/core/ports/services"
	"github.com/SscSPs/carbon_accounting_app/internal/core/services"
	"github.com/SscSPs/carbon_accounting_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type GoalServiceTestSuite struct {
	suite.Suite
	goalRepo  *MockGoalRepository
	footprint *MockFootprintReader
	service   portssvc.GoalSvcFacade
	ctx       context.Context
	now       time.Time
	scope     domain.Scope
}

func (s *GoalServiceTestSuite) SetupTest() {
	s.goalRepo = new(MockGoalRepository)
	s.footprint = new(MockFootprintReader)
	s.ctx = context.Background()
	s.now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	s.scope = domain.Scope{OrganizationID: "org-1"}
	s.service = services.NewGoalService(s.goalRepo, s.footprint, services.WithGoalClock(fixedClock(s.now)))
}

func (s *GoalServiceTestSuite) TearDownTest() {
	s.goalRepo.AssertExpectations(s.T())
	s.footprint.AssertExpectations(s.T())
}

func TestGoalServiceSuite(t *testing.T) {
	suite.Run(t, new(GoalServiceTestSuite))
}

func (s *GoalServiceTestSuite) goalStart() time.Time {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// activeGoal returns a fresh goal: baseline 1000 kg, target 800 kg, ending Dec 31 2025.
func (s *GoalServiceTestSuite) activeGoal() *domain.CarbonReductionGoal {
	return &domain.CarbonReductionGoal{
		GoalID:                    "goal-1",
		Scope:                     s.scope,
		Name:                      "Cut 20%",
		BaselineCarbonInKg:        kg("1000"),
		TargetCarbonInKg:          kg("800"),
		TargetReductionPercentage: kg("20"),
		StartDate:                 s.goalStart(),
		TargetDate:                time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Status:                    domain.GoalActive,
		Milestones:                []domain.GoalMilestone{},
	}
}

func (s *GoalServiceTestSuite) createRequest() dto.CreateGoalRequest {
	return dto.CreateGoalRequest{
		ScopeRequest:              dto.ScopeRequest{OrganizationID: "org-1"},
		Name:                      "Cut 20%",
		BaselineCarbonInKg:        kg("1000"),
		TargetCarbonInKg:          kg("800"),
		TargetReductionPercentage: kg("20"),
		StartDate:                 s.goalStart(),
		TargetDate:                time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (s *GoalServiceTestSuite) TestCreateGoal_Success() {
	req := s.createRequest()
	req.Milestones = []dto.CreateMilestoneRequest{
		{Name: "Q3", TargetDate: time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("850")},
		{Name: "Q2", TargetDate: time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("900")},
	}
	s.goalRepo.On("SaveGoal", s.ctx, mock.AnythingOfType("domain.CarbonReductionGoal")).Return(nil).Once()

	goal, err := s.service.CreateGoal(s.ctx, req, "user-1")

	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), goal.GoalID)
	assert.Equal(s.T(), domain.GoalActive, goal.Status)
	assert.Equal(s.T(), "user-1", goal.CreatedBy)
	require.Len(s.T(), goal.Milestones, 2)
	assert.Equal(s.T(), "Q2", goal.Milestones[0].Name)
	assert.Equal(s.T(), "Q3", goal.Milestones[1].Name)
}

func (s *GoalServiceTestSuite) TestCreateGoal_ValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*dto.CreateGoalRequest)
	}{
		{name: "percentage above 100", mutate: func(r *dto.CreateGoalRequest) { r.TargetReductionPercentage = kg("150") }},
		{name: "negative percentage", mutate: func(r *dto.CreateGoalRequest) { r.TargetReductionPercentage = kg("-1") }},
		{name: "target above baseline", mutate: func(r *dto.CreateGoalRequest) { r.TargetCarbonInKg = kg("1200") }},
		{name: "target date in the past", mutate: func(r *dto.CreateGoalRequest) {
			r.TargetDate = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
		}},
		{name: "start after target", mutate: func(r *dto.CreateGoalRequest) {
			r.StartDate = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		}},
		{name: "missing organization", mutate: func(r *dto.CreateGoalRequest) { r.OrganizationID = "" }},
		{name: "missing name", mutate: func(r *dto.CreateGoalRequest) { r.Name = "" }},
		{name: "milestone outside goal dates", mutate: func(r *dto.CreateGoalRequest) {
			r.Milestones = []dto.CreateMilestoneRequest{{Name: "late", TargetDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("900")}}
		}},
		{name: "milestone below target", mutate: func(r *dto.CreateGoalRequest) {
			r.Milestones = []dto.CreateMilestoneRequest{{Name: "deep", TargetDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("700")}}
		}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.createRequest()
			tt.mutate(&req)

			goal, err := s.service.CreateGoal(s.ctx, req, "user-1")

			assert.Nil(s.T(), goal)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
		})
	}
	s.goalRepo.AssertNotCalled(s.T(), "SaveGoal", mock.Anything, mock.Anything)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_Partial() {
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(s.activeGoal(), nil).Twice()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("900"), nil).Twice()

	first, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)
	second, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)

	assert.True(s.T(), kg("50").Equal(first.ProgressPercentage), "got %s", first.ProgressPercentage)
	assert.False(s.T(), first.IsAchieved)
	assert.Equal(s.T(), domain.GoalActive, first.Goal.Status)
	assert.True(s.T(), first.ProgressPercentage.Equal(second.ProgressPercentage))
	assert.Equal(s.T(), first.IsAchieved, second.IsAchieved)
	s.goalRepo.AssertNotCalled(s.T(), "UpdateGoal", mock.Anything, mock.Anything)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_AchievedOnce() {
	achieved := s.activeGoal()
	achieved.Status = domain.GoalAchieved

	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(s.activeGoal(), nil).Once()
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(achieved, nil).Once()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("750"), nil).Once()
	s.goalRepo.On("UpdateGoal", s.ctx, mock.MatchedBy(func(g domain.CarbonReductionGoal) bool {
		return g.Status == domain.GoalAchieved && g.LastUpdatedBy == "system"
	})).Return(nil).Once()

	first, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)
	assert.True(s.T(), first.IsAchieved)
	assert.True(s.T(), kg("100").Equal(first.ProgressPercentage))
	assert.Equal(s.T(), domain.GoalAchieved, first.Goal.Status)

	second, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)
	assert.True(s.T(), second.IsAchieved)
	s.goalRepo.AssertNumberOfCalls(s.T(), "UpdateGoal", 1)
	s.footprint.AssertNumberOfCalls(s.T(), "GetFootprintForRange", 1)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_MissedAfterTargetDate() {
	goal := s.activeGoal()
	goal.TargetDate = time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(goal, nil).Once()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("950"), nil).Once()
	s.goalRepo.On("UpdateGoal", s.ctx, mock.MatchedBy(func(g domain.CarbonReductionGoal) bool {
		return g.Status == domain.GoalMissed
	})).Return(nil).Once()

	progress, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")

	require.NoError(s.T(), err)
	assert.False(s.T(), progress.IsAchieved)
	assert.Equal(s.T(), domain.GoalMissed, progress.Goal.Status)
	assert.True(s.T(), kg("25").Equal(progress.ProgressPercentage))
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_TerminalGoalsAreNotRecomputed() {
	tests := []struct {
		status     domain.GoalStatus
		isAchieved bool
	}{
		{status: domain.GoalArchived, isAchieved: false},
		{status: domain.GoalMissed, isAchieved: false},
		{status: domain.GoalAchieved, isAchieved: true},
	}
	for _, tt := range tests {
		s.Run(string(tt.status), func() {
			goal := s.activeGoal()
			goal.Status = tt.status
			s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(goal, nil).Once()

			progress, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")

			require.NoError(s.T(), err)
			assert.Equal(s.T(), tt.isAchieved, progress.IsAchieved)
			assert.True(s.T(), progress.ProgressPercentage.IsZero())
			assert.Equal(s.T(), tt.status, progress.Goal.Status)
		})
	}
	s.footprint.AssertNotCalled(s.T(), "GetFootprintForRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_NotStarted() {
	goal := s.activeGoal()
	goal.StartDate = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(goal, nil).Once()

	progress, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")

	require.NoError(s.T(), err)
	assert.False(s.T(), progress.IsAchieved)
	assert.Equal(s.T(), domain.GoalActive, progress.Goal.Status)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_MilestonesStayAchieved() {
	goal := s.activeGoal()
	goal.AddMilestone(domain.GoalMilestone{MilestoneID: "m1", Name: "first step", TargetDate: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("950")})
	goal.AddMilestone(domain.GoalMilestone{MilestoneID: "m2", Name: "second step", TargetDate: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), TargetCarbonInKg: kg("850")})

	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(goal, nil).Twice()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("900"), nil).Once()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("990"), nil).Once()
	s.goalRepo.On("UpdateGoal", s.ctx, mock.AnythingOfType("domain.CarbonReductionGoal")).Return(nil).Once()

	first, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)
	require.Len(s.T(), first.Goal.Milestones, 2)
	assert.True(s.T(), first.Goal.Milestones[0].Achieved)
	require.NotNil(s.T(), first.Goal.Milestones[0].AchievedDate)
	assert.Equal(s.T(), s.now, *first.Goal.Milestones[0].AchievedDate)
	assert.False(s.T(), first.Goal.Milestones[1].Achieved)

	second, err := s.service.UpdateGoalProgress(s.ctx, "goal-1")
	require.NoError(s.T(), err)
	assert.True(s.T(), second.Goal.Milestones[0].Achieved)
	assert.True(s.T(), second.ProgressPercentage.IsZero())
	s.goalRepo.AssertNumberOfCalls(s.T(), "UpdateGoal", 1)
}

func (s *GoalServiceTestSuite) TestUpdateGoalProgress_NotFound() {
	s.goalRepo.On("FindGoalByID", s.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	progress, err := s.service.UpdateGoalProgress(s.ctx, "missing")

	assert.Nil(s.T(), progress)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *GoalServiceTestSuite) TestRefreshActiveGoals_ContinuesPastFailures() {
	second := s.activeGoal()
	second.GoalID = "goal-2"
	s.goalRepo.On("ListGoals", s.ctx, "org-1", domain.GoalFilter{Status: domain.GoalActive}).
		Return([]domain.CarbonReductionGoal{*s.activeGoal(), *second}, nil).Once()
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(nil, errors.New("connection reset")).Once()
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-2").Return(second, nil).Once()
	s.footprint.On("GetFootprintForRange", s.ctx, s.scope, s.goalStart(), s.now).Return(kg("900"), nil).Once()

	results, err := s.service.RefreshActiveGoals(s.ctx, "org-1")

	require.Len(s.T(), results, 1)
	assert.Equal(s.T(), "goal-2", results[0].Goal.GoalID)
	assert.ErrorContains(s.T(), err, "goal-1")
}

func (s *GoalServiceTestSuite) TestUpdateGoal() {
	s.Run("archive an active goal", func() {
		archived := domain.GoalArchived
		s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(s.activeGoal(), nil).Once()
		s.goalRepo.On("UpdateGoal", s.ctx, mock.MatchedBy(func(g domain.CarbonReductionGoal) bool {
			return g.Status == domain.GoalArchived && g.LastUpdatedBy == "user-2"
		})).Return(nil).Once()

		goal, err := s.service.UpdateGoal(s.ctx, "goal-1", dto.UpdateGoalRequest{Status: &archived}, "user-2")

		require.NoError(s.T(), err)
		assert.Equal(s.T(), domain.GoalArchived, goal.Status)
	})

	s.Run("reject reopening an achieved goal", func() {
		achieved := s.activeGoal()
		achieved.Status = domain.GoalAchieved
		active := domain.GoalActive
		s.goalRepo.On("FindGoalByID", s.ctx, "goal-achieved").Return(achieved, nil).Once()

		goal, err := s.service.UpdateGoal(s.ctx, "goal-achieved", dto.UpdateGoalRequest{Status: &active}, "user-2")

		assert.Nil(s.T(), goal)
		assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	})

	s.Run("reject edits to archived goals", func() {
		archivedGoal := s.activeGoal()
		archivedGoal.Status = domain.GoalArchived
		name := "renamed"
		s.goalRepo.On("FindGoalByID", s.ctx, "goal-archived").Return(archivedGoal, nil).Once()

		goal, err := s.service.UpdateGoal(s.ctx, "goal-archived", dto.UpdateGoalRequest{Name: &name}, "user-2")

		assert.Nil(s.T(), goal)
		assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	})

	s.Run("reject target above baseline", func() {
		target := kg("1500")
		s.goalRepo.On("FindGoalByID", s.ctx, "goal-target").Return(s.activeGoal(), nil).Once()

		goal, err := s.service.UpdateGoal(s.ctx, "goal-target", dto.UpdateGoalRequest{TargetCarbonInKg: &target}, "user-2")

		assert.Nil(s.T(), goal)
		assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	})
}

func (s *GoalServiceTestSuite) TestUpdateGoal_RechecksExistingMilestones() {
	withMilestone := func() *domain.CarbonReductionGoal {
		g := s.activeGoal()
		g.Milestones = []domain.GoalMilestone{{
			MilestoneID:      "ms-1",
			Name:             "halfway",
			TargetDate:       time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			TargetCarbonInKg: kg("900"),
		}}
		return g
	}
	julyFirst := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		req  dto.UpdateGoalRequest
	}{
		{"target above milestone carbon and date before milestone", dto.UpdateGoalRequest{TargetCarbonInKg: ptr(kg("950")), TargetDate: &julyFirst}},
		{"target above milestone carbon", dto.UpdateGoalRequest{TargetCarbonInKg: ptr(kg("950"))}},
		{"target date before milestone", dto.UpdateGoalRequest{TargetDate: &julyFirst}},
		{"baseline below milestone carbon", dto.UpdateGoalRequest{BaselineCarbonInKg: ptr(kg("850"))}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(withMilestone(), nil).Once()

			goal, err := s.service.UpdateGoal(s.ctx, "goal-1", tc.req, "user-2")

			assert.Nil(s.T(), goal)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
			assert.ErrorContains(s.T(), err, "halfway")
		})
	}
	s.goalRepo.AssertNotCalled(s.T(), "UpdateGoal", mock.Anything, mock.Anything)

	s.Run("milestone still inside the new bounds", func() {
		s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(withMilestone(), nil).Once()
		s.goalRepo.On("UpdateGoal", s.ctx, mock.MatchedBy(func(g domain.CarbonReductionGoal) bool {
			return g.TargetCarbonInKg.Equal(kg("880")) && len(g.Milestones) == 1
		})).Return(nil).Once()

		goal, err := s.service.UpdateGoal(s.ctx, "goal-1", dto.UpdateGoalRequest{TargetCarbonInKg: ptr(kg("880"))}, "user-2")

		require.NoError(s.T(), err)
		assert.True(s.T(), kg("880").Equal(goal.TargetCarbonInKg))
	})
}

func (s *GoalServiceTestSuite) TestAddMilestone() {
	s.goalRepo.On("FindGoalByID", s.ctx, "goal-1").Return(s.activeGoal(), nil).Once()
	s.goalRepo.On("UpdateGoal", s.ctx, mock.MatchedBy(func(g domain.CarbonReductionGoal) bool {
		return len(g.Milestones) == 1
	})).Return(nil).Once()

	goal, err := s.service.AddMilestone(s.ctx, "goal-1", dto.CreateMilestoneRequest{
		Name:             "halfway",
		TargetDate:       time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		TargetCarbonInKg: kg("900"),
	}, "user-1")

	require.NoError(s.T(), err)
	require.Len(s.T(), goal.Milestones, 1)
	assert.False(s.T(), goal.Milestones[0].Achieved)
	assert.NotEmpty(s.T(), goal.Milestones[0].MilestoneID)
}

func (s *GoalServiceTestSuite) TestGetGoals_RejectsUnknownStatus() {
	goals, err := s.service.GetGoals(s.ctx, "org-1", domain.GoalFilter{Status: "paused"})

	assert.Nil(s.T(), goals)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func TestGoalProgressIsBounded(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		baseline string
		target   string
		current  string
		want     string
	}{
		{name: "no reduction yet", baseline: "1000", target: "800", current: "1000", want: "0"},
		{name: "usage grew", baseline: "1000", target: "800", current: "1300", want: "0"},
		{name: "halfway", baseline: "1000", target: "800", current: "900", want: "50"},
		{name: "overshoot", baseline: "1000", target: "800", current: "100", want: "100"},
		{name: "no reduction asked", baseline: "1000", target: "1000", current: "900", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goalRepo := new(MockGoalRepository)
			footprint := new(MockFootprintReader)
			svc := services.NewGoalService(goalRepo, footprint, services.WithGoalClock(fixedClock(now)))
			goal := &domain.CarbonReductionGoal{
				GoalID:             "g",
				Scope:              domain.Scope{OrganizationID: "org"},
				BaselineCarbonInKg: kg(tt.baseline),
				TargetCarbonInKg:   kg(tt.target),
				StartDate:          now.AddDate(0, -1, 0),
				TargetDate:         now.AddDate(0, 6, 0),
				Status:             domain.GoalActive,
			}
			goalRepo.On("FindGoalByID", mock.Anything, "g").Return(goal, nil)
			footprint.On("GetFootprintForRange", mock.Anything, goal.Scope, mock.Anything, mock.Anything).Return(kg(tt.current), nil)
			goalRepo.On("UpdateGoal", mock.Anything, mock.Anything).Return(nil).Maybe()

			progress, err := svc.UpdateGoalProgress(context.Background(), "g")

			require.NoError(t, err)
			assert.True(t, progress.ProgressPercentage.GreaterThanOrEqual(decimal.Zero))
			assert.True(t, progress.ProgressPercentage.LessThanOrEqual(decimal.NewFromInt(100)))
			assert.True(t, kg(tt.want).Equal(progress.ProgressPercentage), "got %s", progress.ProgressPercentage)
		})
	}
}
