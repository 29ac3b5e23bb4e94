package waiver

import (
	"context"
	"database/sql"
	"strings"

	"dojo/internal/adapters/storage"
	domain "dojo/internal/domain/waiver"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new waiver store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetActiveByUser returns the user's signed, non-revoked waiver.
// POST: Returns the entity or an error wrapping storage.ErrNotFound
func (s *SQLiteStore) GetActiveByUser(ctx context.Context, userID string) (domain.Waiver, error) {
	var w domain.Waiver
	var age sql.NullInt64
	var signedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, revoked, participant_name, participant_email, participant_age, is_minor,
		 guardian_name, guardian_relation, signature_url, gym_owner_1, gym_owner_2, accepted_esign_law,
		 allowed_marketing, signed_at
		 FROM waiver WHERE user_id = ? AND status = 'signed' AND revoked = 0`, userID).
		Scan(&w.ID, &w.UserID, &w.Status, &w.Revoked, &w.ParticipantName, &w.ParticipantEmail, &age,
			&w.IsMinor, &w.GuardianName, &w.GuardianRelation, &w.SignatureURL, &w.GymOwner1, &w.GymOwner2,
			&w.AcceptedESignLaw, &w.AllowedMarketing, &signedAt)
	if err != nil {
		return domain.Waiver{}, storage.NotFound("waiver", err)
	}
	if age.Valid {
		v := int(age.Int64)
		w.ParticipantAge = &v
	}
	w.SignedAt, _ = storage.ParseTime(signedAt)
	return w, nil
}

// Create inserts a signed waiver and flags the profile as signed, atomically.
// PRE: w has been validated
// POST: Returns domain.ErrAlreadySigned when an active waiver exists for the user
func (s *SQLiteStore) Create(ctx context.Context, w domain.Waiver) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var age any
	if w.ParticipantAge != nil {
		age = *w.ParticipantAge
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO waiver (id, user_id, status, revoked, participant_name, participant_email, participant_age,
		 is_minor, guardian_name, guardian_relation, signature_url, gym_owner_1, gym_owner_2,
		 accepted_esign_law, allowed_marketing, signed_at)
		 VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, domain.StatusSigned, w.ParticipantName, w.ParticipantEmail, age, w.IsMinor,
		w.GuardianName, w.GuardianRelation, w.SignatureURL, w.GymOwner1, w.GymOwner2,
		w.AcceptedESignLaw, w.AllowedMarketing, storage.FormatTime(w.SignedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadySigned
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE profile SET waiver_signed = 1 WHERE id = ?", w.UserID); err != nil {
		return err
	}
	return tx.Commit()
}

// Revoke marks a waiver revoked and clears the profile flag.
// POST: Returns an error wrapping storage.ErrNotFound when no waiver matches
func (s *SQLiteStore) Revoke(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE waiver SET revoked = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := storage.RequireAffected("waiver", res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE profile SET waiver_signed = 0 WHERE id = (SELECT user_id FROM waiver WHERE id = ?)", id); err != nil {
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
