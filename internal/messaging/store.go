// Package messaging handles the chat delivery channel: WhatsApp sends via
// the provider REST API, the durable dispatch records behind them, and the
// provider webhook signature scheme shared with the telephony endpoints.
package messaging

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dispatch message statuses. A record never leaves a terminal state
// (delivered, error) once it enters one.
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusError     = "error"
)

// PgxPool is the subset of pgxpool.Pool the store needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MessageRecord is one dispatchable WhatsApp message and its lifecycle
// state.
type MessageRecord struct {
	ID          uuid.UUID
	Recipient   string
	Topic       string
	Body        string
	UserID      string
	Status      string
	ProviderSID string
	LastError   string
	CreatedAt   time.Time
}

// Store persists dispatch messages in Postgres.
type Store struct {
	pool PgxPool
}

// NewStore creates a message store over the given pool.
func NewStore(pool PgxPool) *Store {
	if pool == nil {
		return nil
	}
	return &Store{pool: pool}
}

// Insert creates a pending dispatch record and returns its id.
func (s *Store) Insert(ctx context.Context, rec MessageRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Status == "" {
		rec.Status = StatusPending
	}
	query := `
		INSERT INTO dispatch_messages (id, recipient, topic, body, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, query, rec.ID, rec.Recipient, rec.Topic, rec.Body, rec.UserID, rec.Status).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("messaging: insert dispatch message: %w", err)
	}
	return id, nil
}

// MarkSent records provider acceptance. The update is conditional on the
// record still being pending so a late callback can never be overwritten.
func (s *Store) MarkSent(ctx context.Context, id uuid.UUID, providerSID string) error {
	query := `
		UPDATE dispatch_messages
		SET status = $2, provider_sid = $3, updated_at = now()
		WHERE id = $1 AND status = $4
	`
	if _, err := s.pool.Exec(ctx, query, id, StatusSent, providerSID, StatusPending); err != nil {
		return fmt.Errorf("messaging: mark sent: %w", err)
	}
	return nil
}

// MarkError records a provider rejection, preserving the provider's error
// text for later inspection. Terminal records are left untouched.
func (s *Store) MarkError(ctx context.Context, id uuid.UUID, errText string) error {
	query := `
		UPDATE dispatch_messages
		SET status = $2, last_error = $3, updated_at = now()
		WHERE id = $1 AND status NOT IN ($4, $5)
	`
	if _, err := s.pool.Exec(ctx, query, id, StatusError, errText, StatusDelivered, StatusError); err != nil {
		return fmt.Errorf("messaging: mark error: %w", err)
	}
	return nil
}

// UpdateStatusBySID applies a provider delivery callback. The update is a
// single conditional statement keyed by the provider sid; records already
// in a terminal state are never transitioned back.
func (s *Store) UpdateStatusBySID(ctx context.Context, providerSID, status string) error {
	query := `
		UPDATE dispatch_messages
		SET status = $2, updated_at = now()
		WHERE provider_sid = $1 AND status NOT IN ($3, $4)
	`
	if _, err := s.pool.Exec(ctx, query, providerSID, status, StatusDelivered, StatusError); err != nil {
		return fmt.Errorf("messaging: update status by sid: %w", err)
	}
	return nil
}

// Get fetches one dispatch record by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (MessageRecord, error) {
	query := `
		SELECT id, recipient, topic, body, user_id, status, provider_sid, last_error, created_at
		FROM dispatch_messages
		WHERE id = $1
	`
	var rec MessageRecord
	// topic and user_id are optional; provider_sid and last_error stay
	// NULL until the provider responds.
	var topic, userID, providerSID, lastError sql.NullString
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Recipient, &topic, &rec.Body, &userID,
		&rec.Status, &providerSID, &lastError, &rec.CreatedAt,
	)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("messaging: get dispatch message: %w", err)
	}
	rec.Topic = topic.String
	rec.UserID = userID.String
	rec.ProviderSID = providerSID.String
	rec.LastError = lastError.String
	return rec, nil
}

// MapProviderStatus folds the messaging provider's delivery vocabulary
// into the record status enum. Unmodeled inputs pass through lower-cased.
func MapProviderStatus(providerStatus string) string {
	switch s := strings.ToLower(strings.TrimSpace(providerStatus)); s {
	case "delivered", "read":
		return StatusDelivered
	case "queued", "accepted", "sending", "sent":
		return StatusSent
	case "failed", "undelivered":
		return StatusError
	default:
		return s
	}
}
