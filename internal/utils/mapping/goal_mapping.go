package mapping

import (
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
)

// ToModelGoal converts a domain CarbonReductionGoal to a model CarbonReductionGoal
func ToModelGoal(d domain.CarbonReductionGoal) models.CarbonReductionGoal {
	milestones := make([]models.GoalMilestone, len(d.Milestones))
	for i, ms := range d.Milestones {
		milestones[i] = models.GoalMilestone{
			MilestoneID:      ms.MilestoneID,
			Name:             ms.Name,
			TargetDate:       ms.TargetDate,
			TargetCarbonInKg: ms.TargetCarbonInKg,
			Achieved:         ms.Achieved,
			AchievedDate:     ms.AchievedDate,
		}
	}
	return models.CarbonReductionGoal{
		GoalID:                    d.GoalID,
		Scope:                     ToModelScope(d.Scope),
		Name:                      d.Name,
		Description:               d.Description,
		BaselineCarbonInKg:        d.BaselineCarbonInKg,
		TargetCarbonInKg:          d.TargetCarbonInKg,
		TargetReductionPercentage: d.TargetReductionPercentage,
		StartDate:                 d.StartDate,
		TargetDate:                d.TargetDate,
		Status:                    string(d.Status),
		Milestones:                milestones,
		AuditFields:               ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model CarbonReductionGoal to a domain CarbonReductionGoal
func ToDomainGoal(m models.CarbonReductionGoal) domain.CarbonReductionGoal {
	milestones := make([]domain.GoalMilestone, len(m.Milestones))
	for i, ms := range m.Milestones {
		milestones[i] = domain.GoalMilestone{
			MilestoneID:      ms.MilestoneID,
			Name:             ms.Name,
			TargetDate:       ms.TargetDate.UTC(),
			TargetCarbonInKg: ms.TargetCarbonInKg,
			Achieved:         ms.Achieved,
			AchievedDate:     utcPtr(ms.AchievedDate),
		}
	}
	return domain.CarbonReductionGoal{
		GoalID:                    m.GoalID,
		Scope:                     ToDomainScope(m.Scope),
		Name:                      m.Name,
		Description:               m.Description,
		BaselineCarbonInKg:        m.BaselineCarbonInKg,
		TargetCarbonInKg:          m.TargetCarbonInKg,
		TargetReductionPercentage: m.TargetReductionPercentage,
		StartDate:                 m.StartDate.UTC(),
		TargetDate:                m.TargetDate.UTC(),
		Status:                    domain.GoalStatus(m.Status),
		Milestones:                milestones,
		AuditFields:               ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainGoalSlice converts a slice of model goals.
func ToDomainGoalSlice(ms []models.CarbonReductionGoal) []domain.CarbonReductionGoal {
	ds := make([]domain.CarbonReductionGoal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoal(m)
	}
	return ds
}
