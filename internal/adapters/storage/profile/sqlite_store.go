package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"dojo/internal/adapters/storage"
	"dojo/internal/domain/account"
	domain "dojo/internal/domain/profile"
)

const columns = "id, email, full_name, avatar, birth_date, nationality, has_experience, how_found, health_info, " +
	"underage, parent_name, parent_phone, address, join_date, next_payment, classes, class_progress, " +
	"streak, training, role, belt_level, student_notes, waiver_signed, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new profile store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Profile by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM profile WHERE id = ?", id)
	p, err := scanProfile(row.Scan)
	if err != nil {
		return domain.Profile{}, storage.NotFound("profile", err)
	}
	return p, nil
}

// GetByEmail retrieves a Profile by email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM profile WHERE email = ?", account.NormalizeEmail(email))
	p, err := scanProfile(row.Scan)
	if err != nil {
		return domain.Profile{}, storage.NotFound("profile", err)
	}
	return p, nil
}

// Save persists a Profile (insert or update).
// PRE: entity has been validated
// POST: Entity is persisted; JSON columns hold the serialized rollups
func (s *SQLiteStore) Save(ctx context.Context, p domain.Profile) error {
	classes, err := json.Marshal(nonNilStrings(p.Classes))
	if err != nil {
		return err
	}
	progress, err := json.Marshal(nonNilProgress(p.ClassProgress))
	if err != nil {
		return err
	}
	training, err := json.Marshal(p.Training)
	if err != nil {
		return err
	}

	fields := strings.Split(columns, ", ")
	placeholders := make([]string, len(fields))
	updates := make([]string, 0, len(fields))
	for i, f := range fields {
		placeholders[i] = "?"
		if f != "id" && f != "created_at" {
			updates = append(updates, f+"=excluded."+f)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO profile (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		columns,
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err = s.db.ExecContext(ctx, query,
		p.ID, account.NormalizeEmail(p.Email), p.FullName, p.Avatar, p.BirthDate, p.Nationality,
		p.HasExperience, p.HowFound, p.HealthInfo, p.Underage, p.ParentName, p.ParentPhone,
		p.Address, p.JoinDate, storage.NullableString(p.NextPayment), string(classes), string(progress),
		p.Streak, string(training), p.Role, p.BeltLevel, p.StudentNotes, p.WaiverSigned,
		storage.FormatTime(p.CreatedAt),
	)
	return err
}

// Delete removes a Profile.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM profile WHERE id = ?", id)
	return err
}

// UpdateAdminFields sets the back-office fields without touching the rest of the row.
// PRE: id is non-empty; beltLevel has been validated
// POST: Returns an error wrapping storage.ErrNotFound when no profile matches
func (s *SQLiteStore) UpdateAdminFields(ctx context.Context, id, studentNotes, beltLevel string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE profile SET student_notes = ?, belt_level = ? WHERE id = ?",
		studentNotes, beltLevel, id)
	if err != nil {
		return err
	}
	return storage.RequireAffected("profile", res)
}

// List retrieves Profiles based on the filter, newest join date first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	where, args := buildWhere(filter)
	query := "SELECT " + columns + " FROM profile" + where + " ORDER BY join_date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// Count returns the number of profiles matching the filter (Limit/Offset ignored).
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profile"+where, args...).Scan(&count)
	return count, err
}

func buildWhere(filter ListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Search != "" {
		conds = append(conds, "(full_name LIKE ? OR email LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProfile(scan func(dest ...any) error) (domain.Profile, error) {
	var p domain.Profile
	var nextPayment sql.NullString
	var classes, progress, training, createdAt string
	if err := scan(
		&p.ID, &p.Email, &p.FullName, &p.Avatar, &p.BirthDate, &p.Nationality, &p.HasExperience,
		&p.HowFound, &p.HealthInfo, &p.Underage, &p.ParentName, &p.ParentPhone, &p.Address,
		&p.JoinDate, &nextPayment, &classes, &progress, &p.Streak, &training, &p.Role,
		&p.BeltLevel, &p.StudentNotes, &p.WaiverSigned, &createdAt,
	); err != nil {
		return domain.Profile{}, err
	}
	p.NextPayment = nextPayment.String
	if err := json.Unmarshal([]byte(classes), &p.Classes); err != nil {
		return domain.Profile{}, fmt.Errorf("decode classes for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(progress), &p.ClassProgress); err != nil {
		return domain.Profile{}, fmt.Errorf("decode class_progress for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(training), &p.Training); err != nil {
		return domain.Profile{}, fmt.Errorf("decode training for %s: %w", p.ID, err)
	}
	p.Classes = nonNilStrings(p.Classes)
	p.ClassProgress = nonNilProgress(p.ClassProgress)
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	return p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilProgress(p []domain.ClassProgress) []domain.ClassProgress {
	if p == nil {
		return []domain.ClassProgress{}
	}
	return p
}
