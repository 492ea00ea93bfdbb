package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// ScopeLevel is the granularity a record applies to.
type ScopeLevel string

const (
	ScopeOrganization ScopeLevel = "organization"
	ScopeDepartment   ScopeLevel = "department"
	ScopeProject      ScopeLevel = "project"
)

// Scope identifies the (organization, department, project) tuple a usage record,
// goal or report applies to. Empty department/project IDs mean "not set".
type Scope struct {
	OrganizationID string `json:"organizationId"`
	DepartmentID   string `json:"departmentId,omitempty"`
	ProjectID      string `json:"projectId,omitempty"`
}

// Level returns the most specific level set on the scope: project, then department, then organization.
func (s Scope) Level() ScopeLevel {
	switch {
	case s.ProjectID != "":
		return ScopeProject
	case s.DepartmentID != "":
		return ScopeDepartment
	default:
		return ScopeOrganization
	}
}

// Label is the human readable name of the scope level, used in report names.
func (s Scope) Label() string {
	switch s.Level() {
	case ScopeProject:
		return "Project"
	case ScopeDepartment:
		return "Department"
	default:
		return "Organization"
	}
}

// Period is a closed time interval [StartDate, EndDate].
type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Duration returns EndDate - StartDate.
func (p Period) Duration() time.Duration {
	return p.EndDate.Sub(p.StartDate)
}

// Contains reports whether t lies within the closed interval.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// Previous returns the immediately preceding period of equal duration.
// It ends one millisecond before p starts.
func (p Period) Previous() Period {
	prevEnd := p.StartDate.Add(-time.Millisecond)
	return Period{
		StartDate: prevEnd.Add(-p.Duration()),
		EndDate:   prevEnd,
	}
}

// MonthPeriod returns the calendar month containing t, in UTC.
// The period ends on the last millisecond of the month.
func MonthPeriod(t time.Time) Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0).Add(-time.Millisecond),
	}
}
