package membership

import (
	"context"
	"database/sql"
	"strings"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/membership"
)

// PlanSQLiteStore implements PlanStore using SQLite.
type PlanSQLiteStore struct {
	db storage.SQLDB
}

var _ PlanStore = (*PlanSQLiteStore)(nil)

// NewPlanSQLiteStore creates a new membership plan store.
func NewPlanSQLiteStore(db storage.SQLDB) *PlanSQLiteStore {
	return &PlanSQLiteStore{db: db}
}

// GetByID retrieves a Plan by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *PlanSQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, type, price, duration, duration_days, created_at FROM membership_plan WHERE id = ?", id)
	p, err := scanPlan(row.Scan)
	if err != nil {
		return domain.Plan{}, storage.NotFound("membership plan", err)
	}
	return p, nil
}

// Save persists a Plan (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *PlanSQLiteStore) Save(ctx context.Context, p domain.Plan) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_plan (id, type, price, duration, duration_days, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET type=excluded.type, price=excluded.price,
		 duration=excluded.duration, duration_days=excluded.duration_days`,
		p.ID, p.Type, p.Price, p.Duration, p.DurationDays, storage.FormatTime(p.CreatedAt))
	return err
}

// Delete removes a Plan. Assignments keep their type and lose the plan reference.
// POST: Returns an error wrapping storage.ErrNotFound when nothing was deleted
func (s *PlanSQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM membership_plan WHERE id = ?", id)
	if err != nil {
		return err
	}
	return storage.RequireAffected("membership plan", res)
}

// List returns all plans ordered by price.
func (s *PlanSQLiteStore) List(ctx context.Context) ([]domain.Plan, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, type, price, duration, duration_days, created_at FROM membership_plan ORDER BY price, type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlan(scan func(dest ...any) error) (domain.Plan, error) {
	var p domain.Plan
	var createdAt string
	if err := scan(&p.ID, &p.Type, &p.Price, &p.Duration, &p.DurationDays, &createdAt); err != nil {
		return domain.Plan{}, err
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	return p, nil
}

// AssignmentSQLiteStore implements AssignmentStore and AssignmentViewStore using SQLite.
type AssignmentSQLiteStore struct {
	db storage.SQLDB
}

var (
	_ AssignmentStore     = (*AssignmentSQLiteStore)(nil)
	_ AssignmentViewStore = (*AssignmentSQLiteStore)(nil)
)

// NewAssignmentSQLiteStore creates a new assignment store.
func NewAssignmentSQLiteStore(db storage.SQLDB) *AssignmentSQLiteStore {
	return &AssignmentSQLiteStore{db: db}
}

const assignmentColumns = "a.id, a.user_id, a.membership_id, a.type, a.start_date, a.end_date, a.active, a.total_paid, a.created_at"

// Save persists an Assignment (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted
func (s *AssignmentSQLiteStore) Save(ctx context.Context, a domain.Assignment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO membership_assignment (id, user_id, membership_id, type, start_date, end_date, active, total_paid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET membership_id=excluded.membership_id, type=excluded.type,
		 start_date=excluded.start_date, end_date=excluded.end_date, active=excluded.active, total_paid=excluded.total_paid`,
		a.ID, a.UserID, storage.NullableString(a.MembershipID), a.Type, a.StartDate,
		storage.NullableString(a.EndDate), a.Active, a.TotalPaid, storage.FormatTime(a.CreatedAt))
	return err
}

// List returns assignments matching the filter ordered by end date.
func (s *AssignmentSQLiteStore) List(ctx context.Context, filter AssignmentFilter) ([]domain.Assignment, error) {
	where, args := buildAssignmentWhere(filter)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM membership_assignment a"+where+" ORDER BY a.end_date, a.created_at", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns how many assignments match the filter.
func (s *AssignmentSQLiteStore) Count(ctx context.Context, filter AssignmentFilter) (int, error) {
	where, args := buildAssignmentWhere(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM membership_assignment a"+where, args...).Scan(&n)
	return n, err
}

// ListWithMembers returns assignments joined with profile and plan details.
func (s *AssignmentSQLiteStore) ListWithMembers(ctx context.Context, filter AssignmentFilter) ([]AssignmentView, error) {
	where, args := buildAssignmentWhere(filter)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+assignmentColumns+", p.full_name, p.email, COALESCE(m.type, a.type)"+
			" FROM membership_assignment a"+
			" JOIN profile p ON p.id = a.user_id"+
			" LEFT JOIN membership_plan m ON m.id = a.membership_id"+
			where+" ORDER BY a.end_date, p.full_name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssignmentView
	for rows.Next() {
		var v AssignmentView
		var membershipID, endDate sql.NullString
		var createdAt string
		if err := rows.Scan(&v.ID, &v.UserID, &membershipID, &v.Type, &v.StartDate, &endDate,
			&v.Active, &v.TotalPaid, &createdAt, &v.FullName, &v.Email, &v.PlanType); err != nil {
			return nil, err
		}
		v.MembershipID = membershipID.String
		v.EndDate = endDate.String
		v.CreatedAt, _ = storage.ParseTime(createdAt)
		out = append(out, v)
	}
	return out, rows.Err()
}

func buildAssignmentWhere(f AssignmentFilter) (string, []any) {
	var conds []string
	var args []any
	if f.UserID != "" {
		conds = append(conds, "a.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.MembershipID != "" {
		conds = append(conds, "a.membership_id = ?")
		args = append(args, f.MembershipID)
	}
	if f.ActiveOnly {
		conds = append(conds, "a.active = 1")
	}
	if f.HasEndDate {
		conds = append(conds, "a.end_date IS NOT NULL")
	}
	if f.EndFrom != "" {
		conds = append(conds, "a.end_date >= ?")
		args = append(args, f.EndFrom)
	}
	if f.EndTo != "" {
		conds = append(conds, "a.end_date <= ?")
		args = append(args, f.EndTo)
	}
	if f.EndBefore != "" {
		conds = append(conds, "a.end_date < ?")
		args = append(args, f.EndBefore)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAssignment(scan func(dest ...any) error) (domain.Assignment, error) {
	var a domain.Assignment
	var membershipID, endDate sql.NullString
	var createdAt string
	if err := scan(&a.ID, &a.UserID, &membershipID, &a.Type, &a.StartDate, &endDate,
		&a.Active, &a.TotalPaid, &createdAt); err != nil {
		return domain.Assignment{}, err
	}
	a.MembershipID = membershipID.String
	a.EndDate = endDate.String
	a.CreatedAt, _ = storage.ParseTime(createdAt)
	return a, nil
}
