package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/account"
)

const selectColumns = "SELECT id, email, password_hash, created_at, failed_logins, locked_until FROM credential"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new credential store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Credential by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Credential, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanCredential(row.Scan)
	if err != nil {
		return domain.Credential{}, storage.NotFound("credential", err)
	}
	return entity, nil
}

// GetByEmail retrieves a Credential by normalized email.
// PRE: email is non-empty
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ?", domain.NormalizeEmail(email))
	entity, err := scanCredential(row.Scan)
	if err != nil {
		return domain.Credential{}, storage.NotFound("credential", err)
	}
	return entity, nil
}

// Save persists a Credential to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Credential) error {
	fields := []string{"id", "email", "password_hash", "created_at", "failed_logins", "locked_until"}
	placeholders := []string{"?", "?", "?", "?", "?", "?"}
	updates := []string{
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
	}

	query := fmt.Sprintf(
		"INSERT INTO credential (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		domain.NormalizeEmail(entity.Email),
		entity.PasswordHash,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.NullableString(storage.FormatTime(entity.LockedUntil)),
	)
	return err
}

// Delete removes a Credential from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credential WHERE id = ?", id)
	return err
}

// Count returns the total number of credentials.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM credential").Scan(&count)
	return count, err
}

func scanCredential(scan func(dest ...any) error) (domain.Credential, error) {
	var entity domain.Credential
	var createdAt string
	var lockedUntil sql.NullString
	if err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	); err != nil {
		return domain.Credential{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	if lockedUntil.Valid {
		entity.LockedUntil, _ = storage.ParseTime(lockedUntil.String)
	}
	return entity, nil
}
