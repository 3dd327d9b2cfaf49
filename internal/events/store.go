package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store appends interaction events to Postgres. Appends are never
// deduplicated: logging the same event twice yields two rows.
type Store struct {
	db *sql.DB
}

// NewStore creates an interaction event store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one interaction event row.
func (s *Store) Append(ctx context.Context, event InteractionEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO interaction_events (
			id, source, intent_name, user_input, language, caller_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Source),
		event.IntentName,
		nullString(event.UserInput),
		event.Language,
		nullString(event.CallerID),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("events: failed to append interaction event: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
