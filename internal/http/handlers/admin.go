package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// adminPageSize caps every admin listing.
const adminPageSize = 100

// AdminHandler exposes read-only listings of interactions, calls, and
// messages for operators. It reads through database/sql directly; the
// listings are plain projections with no lifecycle logic.
type AdminHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, logger *logging.Logger) *AdminHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{db: db, logger: logger}
}

type adminInteraction struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	IntentName string    `json:"intentName"`
	UserInput  string    `json:"userInput,omitempty"`
	Language   string    `json:"language"`
	CallerID   string    `json:"callerId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type adminCall struct {
	ID              string    `json:"id"`
	Recipient       string    `json:"recipient"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	Topic           string    `json:"topic"`
	UserID          string    `json:"userId,omitempty"`
	Status          string    `json:"status"`
	ProviderCallSID string    `json:"providerCallSid,omitempty"`
	LastError       string    `json:"lastError,omitempty"`
	DurationSeconds int       `json:"durationSeconds"`
	CreatedAt       time.Time `json:"createdAt"`
}

type adminMessage struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	Topic       string    `json:"topic,omitempty"`
	Status      string    `json:"status"`
	ProviderSID string    `json:"providerSid,omitempty"`
	LastError   string    `json:"lastError,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListInteractions is the HTTP handler for GET /admin/interactions.
func (h *AdminHandler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, source, intent_name, user_input, language, caller_id, created_at
		FROM interaction_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := h.db.QueryContext(r.Context(), query, adminPageSize)
	if err != nil {
		h.logger.Error("admin: list interactions failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	defer rows.Close()

	out := []adminInteraction{}
	for rows.Next() {
		var rec adminInteraction
		var userInput, callerID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.IntentName, &userInput, &rec.Language, &callerID, &rec.CreatedAt); err != nil {
			h.logger.Error("admin: scan interaction failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scan failed"})
			return
		}
		rec.UserInput = userInput.String
		rec.CallerID = callerID.String
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": out})
}

// ListCalls is the HTTP handler for GET /admin/calls.
func (h *AdminHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, recipient, scheduled_at, topic, user_id, status,
			provider_call_sid, last_error, duration_seconds, created_at
		FROM scheduled_calls
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := h.db.QueryContext(r.Context(), query, adminPageSize)
	if err != nil {
		h.logger.Error("admin: list calls failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	defer rows.Close()

	out := []adminCall{}
	for rows.Next() {
		var rec adminCall
		var userID, sid, lastErr sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Recipient, &rec.ScheduledAt, &rec.Topic, &userID,
			&rec.Status, &sid, &lastErr, &duration, &rec.CreatedAt); err != nil {
			h.logger.Error("admin: scan call failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scan failed"})
			return
		}
		rec.UserID = userID.String
		rec.ProviderCallSID = sid.String
		rec.LastError = lastErr.String
		rec.DurationSeconds = int(duration.Int64)
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": out})
}

// ListMessages is the HTTP handler for GET /admin/messages. Message bodies
// are omitted from the listing; they can hold personal conversation text.
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, recipient, topic, status, provider_sid, last_error, created_at
		FROM dispatch_messages
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := h.db.QueryContext(r.Context(), query, adminPageSize)
	if err != nil {
		h.logger.Error("admin: list messages failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
		return
	}
	defer rows.Close()

	out := []adminMessage{}
	for rows.Next() {
		var rec adminMessage
		var topic, sid, lastErr sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Recipient, &topic, &rec.Status, &sid, &lastErr, &rec.CreatedAt); err != nil {
			h.logger.Error("admin: scan message failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scan failed"})
			return
		}
		rec.Topic = topic.String
		rec.ProviderSID = sid.String
		rec.LastError = lastErr.String
		out = append(out, rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}
