// Package calls persists scheduled training calls and tracks their
// lifecycle from scheduling through the provider's status callbacks.
package calls

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the store needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CallRecord is one scheduled training call.
type CallRecord struct {
	ID              uuid.UUID
	Recipient       string
	ScheduledAt     time.Time
	Topic           string
	UserID          string
	Status          string
	ProviderCallSID string
	LastError       string
	DurationSeconds int
	CreatedAt       time.Time
}

// Store persists scheduled calls in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a call store over the given pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Insert creates a pending call record and returns its id.
func (s *Store) Insert(ctx context.Context, rec CallRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	query := `
		INSERT INTO scheduled_calls (id, recipient, scheduled_at, topic, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, query, rec.ID, rec.Recipient, rec.ScheduledAt, rec.Topic, rec.UserID, rec.Status).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("calls: insert scheduled call: %w", err)
	}
	return id, nil
}

// Get fetches one call record by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (CallRecord, error) {
	query := `
		SELECT id, recipient, scheduled_at, topic, user_id, status,
			provider_call_sid, last_error, duration_seconds, created_at
	 	FROM scheduled_calls
		WHERE id = $1
	`
	var rec CallRecord
	var userID, sid, lastErr sql.NullString
	var duration sql.NullInt64
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Recipient, &rec.ScheduledAt, &rec.Topic, &userID,
		&rec.Status, &sid, &lastErr, &duration, &rec.CreatedAt,
	)
	if err != nil {
		return CallRecord{}, fmt.Errorf("calls: get scheduled call: %w", err)
	}
	rec.UserID = userID.String
	rec.ProviderCallSID = sid.String
	rec.LastError = lastErr.String
	rec.DurationSeconds = int(duration.Int64)
	return rec, nil
}

// MarkInProgress records provider acceptance of the dial, storing the
// provider call sid. Conditional on the record still being pending so a
// racing callback cannot be rewound.
func (s *Store) MarkInProgress(ctx context.Context, id uuid.UUID, providerCallSID string) error {
	query := `
		UPDATE scheduled_calls
		SET status = $2, provider_call_sid = $3, updated_at = now()
		WHERE id = $1 AND status = $4
	`
	if _, err := s.pool.Exec(ctx, query, id, StatusInProgress, providerCallSID, StatusPending); err != nil {
		return fmt.Errorf("calls: mark in progress: %w", err)
	}
	return nil
}

// MarkError records a provider rejection at creation time, preserving the
// provider's error text on the record. Terminal records are left
// untouched.
func (s *Store) MarkError(ctx context.Context, id uuid.UUID, errText string) error {
	query := `
		UPDATE scheduled_calls
		SET status = $2, last_error = $3, updated_at = now()
		WHERE id = $1 AND status NOT IN ($4, $5, $6)
	`
	if _, err := s.pool.Exec(ctx, query, id, StatusError, errText, StatusCompleted, StatusFailed, StatusError); err != nil {
		return fmt.Errorf("calls: mark error: %w", err)
	}
	return nil
}

// ApplyCallback applies a provider status callback as a single atomic
// conditional update keyed by the record id. Records already in a
// terminal state never transition back; status is expected to have been
// passed through MapProviderStatus.
func (s *Store) ApplyCallback(ctx context.Context, id uuid.UUID, status string, durationSeconds int) error {
	query := `
		UPDATE scheduled_calls
		SET status = $2, duration_seconds = $3, updated_at = now()
		WHERE id = $1 AND status NOT IN ($4, $5, $6)
	`
	if _, err := s.pool.Exec(ctx, query, id, status, durationSeconds, StatusCompleted, StatusFailed, StatusError); err != nil {
		return fmt.Errorf("calls: apply status callback: %w", err)
	}
	return nil
}

// ListRecent returns the most recent call records for the admin surface.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]CallRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, recipient, scheduled_at, topic, user_id, status,
			provider_call_sid, last_error, duration_seconds, created_at
		FROM scheduled_calls
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("calls: list recent: %w", err)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		var rec CallRecord
		var userID, sid, lastErr sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(
			&rec.ID, &rec.Recipient, &rec.ScheduledAt, &rec.Topic, &userID,
			&rec.Status, &sid, &lastErr, &duration, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("calls: scan call record: %w", err)
		}
		rec.UserID = userID.String
		rec.ProviderCallSID = sid.String
		rec.LastError = lastErr.String
		rec.DurationSeconds = int(duration.Int64)
		out = append(out, rec)
	}
	return out, rows.Err()
}
