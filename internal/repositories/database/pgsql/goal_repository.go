package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/carbon_accounting_app/internal/apperrors"
	"github.com/SscSPs/carbon_accounting_app/internal/core/domain"
	portsrepo "github.com/SscSPs/carbon_accounting_app/internal/core/ports/repositories"
	"github.com/SscSPs/carbon_accounting_app/internal/models"
	"github.com/SscSPs/carbon_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `
	goal_id, organization_id, department_id, project_id, name, description,
	baseline_carbon_kg, target_carbon_kg, target_reduction_percentage,
	start_date, target_date, status, milestones,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for reduction goals.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

// SaveGoal inserts a new goal.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.CarbonReductionGoal) error {
	m := mapping.ToModelGoal(goal)
	milestones, err := json.Marshal(m.Milestones)
	if err != nil {
		return fmt.Errorf("failed to encode milestones: %w", err)
	}

	query := `INSERT INTO carbon_goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err = r.Pool.Exec(ctx, query,
		m.GoalID, m.OrganizationID, m.DepartmentID, m.ProjectID, m.Name, m.Description,
		m.BaselineCarbonInKg, m.TargetCarbonInKg, m.TargetReductionPercentage,
		m.StartDate, m.TargetDate, m.Status, milestones,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: goal %s already exists", apperrors.ErrDuplicate, m.GoalID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert goal "+m.GoalID, err)
	}
	return nil
}

// UpdateGoal overwrites the mutable fields of a goal.
func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.CarbonReductionGoal) error {
	m := mapping.ToModelGoal(goal)
	milestones, err := json.Marshal(m.Milestones)
	if err != nil {
		return fmt.Errorf("failed to encode milestones: %w", err)
	}

	tag, err := r.Pool.Exec(ctx, `
		UPDATE carbon_goals
		SET name = $1, description = $2,
		    baseline_carbon_kg = $3, target_carbon_kg = $4, target_reduction_percentage = $5,
		    target_date = $6, status = $7, milestones = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE goal_id = $11;`,
		m.Name, m.Description,
		m.BaselineCarbonInKg, m.TargetCarbonInKg, m.TargetReductionPercentage,
		m.TargetDate, m.Status, milestones,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.GoalID,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update goal "+m.GoalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindGoalByID retrieves a goal by its ID.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.CarbonReductionGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM carbon_goals WHERE goal_id = $1;`
	goal, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find goal by ID "+goalID, err)
	}
	return &goal, nil
}

// ListGoals returns an organization's goals ordered by target date. Empty filter fields are ignored.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, organizationID string, filter domain.GoalFilter) ([]domain.CarbonReductionGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM carbon_goals WHERE organization_id = $1`
	args := []any{organizationID}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += " AND department_id = $" + strconv.Itoa(len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += " AND project_id = $" + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY target_date ASC, created_at ASC;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query goals for organization "+organizationID, err)
	}
	defer rows.Close()

	goals := []domain.CarbonReductionGoal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan goal row", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating goal rows", err)
	}
	return goals, nil
}

func scanGoal(row pgx.Row) (domain.CarbonReductionGoal, error) {
	var m models.CarbonReductionGoal
	var milestones []byte
	err := row.Scan(
		&m.GoalID, &m.OrganizationID, &m.DepartmentID, &m.ProjectID, &m.Name, &m.Description,
		&m.BaselineCarbonInKg, &m.TargetCarbonInKg, &m.TargetReductionPercentage,
		&m.StartDate, &m.TargetDate, &m.Status, &milestones,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.CarbonReductionGoal{}, err
	}
	if len(milestones) > 0 {
		if err := json.Unmarshal(milestones, &m.Milestones); err != nil {
			return domain.CarbonReductionGoal{}, fmt.Errorf("failed to decode milestones of goal %s: %w", m.GoalID, err)
		}
	}
	return mapping.ToDomainGoal(m), nil
}
