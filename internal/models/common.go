package models

import "time"

// AuditFields mirrors the audit columns shared by most tables.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Scope columns. Department and project are stored as '' when absent so that
// equality in WHERE clauses matches the domain's exact-scope rule.
type Scope struct {
	OrganizationID string `json:"organizationId"`
	DepartmentID   string `json:"departmentId"`
	ProjectID      string `json:"projectId"`
}
