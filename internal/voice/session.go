// Package voice tracks per-call IVR session state between gather
// round-trips. The welcome prompt asks the caller to pick a language; the
// selection is stored here keyed by the provider call identifier so every
// later prompt in the call stays in the caller's language.
package voice

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long a call's language selection is retained.
// Calls are short-lived; half an hour comfortably outlives any IVR call.
const sessionTTL = 30 * time.Minute

// SessionStore persists IVR session state in Redis.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a session store. A nil client yields a nil
// store; callers treat a nil store as "no session state available".
func NewSessionStore(rdb *redis.Client) *SessionStore {
	if rdb == nil {
		return nil
	}
	return &SessionStore{rdb: rdb}
}

func sessionKey(callSID string) string {
	return "voice:session:lang:" + callSID
}

// SetLanguage records the caller's language selection for the call.
func (s *SessionStore) SetLanguage(ctx context.Context, callSID, language string) error {
	if s == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, sessionKey(callSID), language, sessionTTL).Err(); err != nil {
		return fmt.Errorf("voice: store session language: %w", err)
	}
	return nil
}

// Language returns the stored language for the call, or "" when the call
// has not selected one yet.
func (s *SessionStore) Language(ctx context.Context, callSID string) (string, error) {
	if s == nil {
		return "", nil
	}
	val, err := s.rdb.Get(ctx, sessionKey(callSID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("voice: load session language: %w", err)
	}
	return val, nil
}

// Clear removes the session state for a finished call.
func (s *SessionStore) Clear(ctx context.Context, callSID string) error {
	if s == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(callSID)).Err(); err != nil {
		return fmt.Errorf("voice: clear session: %w", err)
	}
	return nil
}
