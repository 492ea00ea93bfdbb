package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is the lifecycle state of a reduction goal.
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalAchieved GoalStatus = "achieved"
	GoalMissed   GoalStatus = "missed"
	GoalArchived GoalStatus = "archived"
)

// IsValid checks that the status is one of the known values.
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalActive, GoalAchieved, GoalMissed, GoalArchived:
		return true
	}
	return false
}

// IsTerminal reports whether progress tracking has stopped for the status.
func (s GoalStatus) IsTerminal() bool {
	return s != GoalActive
}

// CanTransitionTo reports whether a goal in status s may move to next.
// Staying in the same status is always allowed.
//
//	active           -> achieved | missed | archived
//	achieved, missed -> archived
//	archived         -> (none)
func (s GoalStatus) CanTransitionTo(next GoalStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case GoalActive:
		return next == GoalAchieved || next == GoalMissed || next == GoalArchived
	case GoalAchieved, GoalMissed:
		return next == GoalArchived
	}
	return false
}

// GoalMilestone is an interim target inside a goal's timeline.
type GoalMilestone struct {
	MilestoneID      string          `json:"milestoneId"`
	Name             string          `json:"name"`
	TargetDate       time.Time       `json:"targetDate"`
	TargetCarbonInKg decimal.Decimal `json:"targetCarbonInKg"`
	Achieved         bool            `json:"achieved"`
	AchievedDate     *time.Time      `json:"achievedDate,omitempty"`
}

// CarbonReductionGoal is a reduction target for a scope.
type CarbonReductionGoal struct {
	GoalID string `json:"goalId"`
	Scope
	Name                      string          `json:"name"`
	Description               string          `json:"description,omitempty"`
	BaselineCarbonInKg        decimal.Decimal `json:"baselineCarbonInKg"`
	TargetCarbonInKg          decimal.Decimal `json:"targetCarbonInKg"`
	TargetReductionPercentage decimal.Decimal `json:"targetReductionPercentage"`
	StartDate                 time.Time       `json:"startDate"`
	TargetDate                time.Time       `json:"targetDate"`
	Status                    GoalStatus      `json:"status"`
	Milestones                []GoalMilestone `json:"milestones"`
	AuditFields
}

// AddMilestone inserts m keeping the list ordered by target date.
func (g *CarbonReductionGoal) AddMilestone(m GoalMilestone) {
	g.Milestones = append(g.Milestones, m)
	sort.SliceStable(g.Milestones, func(i, j int) bool {
		return g.Milestones[i].TargetDate.Before(g.Milestones[j].TargetDate)
	})
}

// MarkMilestonesAchieved flags every unachieved milestone whose target is at or
// above current. Achieved milestones are never reset. Returns true if any changed.
func (g *CarbonReductionGoal) MarkMilestonesAchieved(current decimal.Decimal, at time.Time) bool {
	changed := false
	for i := range g.Milestones {
		m := &g.Milestones[i]
		if m.Achieved {
			continue
		}
		if m.TargetCarbonInKg.GreaterThanOrEqual(current) {
			achievedAt := at
			m.Achieved = true
			m.AchievedDate = &achievedAt
			changed = true
		}
	}
	return changed
}

// GoalFilter narrows a goal listing. Empty fields are ignored.
type GoalFilter struct {
	DepartmentID string
	ProjectID    string
	Status       GoalStatus
}

// GoalProgress is the result of a progress recomputation.
type GoalProgress struct {
	Goal               *CarbonReductionGoal `json:"goal"`
	CurrentCarbonInKg  decimal.Decimal      `json:"currentCarbonInKg"`
	ProgressPercentage decimal.Decimal      `json:"progressPercentage"`
	IsAchieved         bool                 `json:"isAchieved"`
}
