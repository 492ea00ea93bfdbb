package dto

import "github.com/SscSPs/carbon_accounting_app/internal/core/domain"

// ScopeRequest carries the organization/department/project tuple in bodies and query strings.
type ScopeRequest struct {
	OrganizationID string `json:"organizationId" form:"organizationId" binding:"required"`
	DepartmentID   string `json:"departmentId,omitempty" form:"departmentId"`
	ProjectID      string `json:"projectId,omitempty" form:"projectId"`
}

// ToDomain converts the request scope to a domain.Scope.
func (s ScopeRequest) ToDomain() domain.Scope {
	return domain.Scope{
		OrganizationID: s.OrganizationID,
		DepartmentID:   s.DepartmentID,
		ProjectID:      s.ProjectID,
	}
}

// DateRangeQuery is a scope plus an inclusive date range, bound from the query string.
type DateRangeQuery struct {
	ScopeRequest
	StartDate string `form:"startDate" binding:"required"` // YYYY-MM-DD or RFC3339
	EndDate   string `form:"endDate" binding:"required"`   // YYYY-MM-DD or RFC3339
}
