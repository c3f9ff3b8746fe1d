// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/security"
)

type tokenEntry struct {
	token     string
	expiresAt time.Time
}

// TokensStore holds the auth token acquired for each rendered page so the
// page's action requests reuse it. Entries live for ttl after the last Get.
type TokensStore struct {
	entries map[string]*tokenEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger
}

// NewTokensStore creates a new token cache store
func NewTokensStore(ttl time.Duration, logger *logging.ChanneledLogger) *TokensStore {
	if logger != nil {
		logger.Cache().Info("Initializing tokens cache store", "ttl", ttl)
	}
	return &TokensStore{
		entries: make(map[string]*tokenEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

func (ts *TokensStore) Name() string { return "tokens" }

// Len is the number of entries, expired ones included.
func (ts *TokensStore) Len() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return len(ts.entries)
}

// Put stores token under a new session id and returns the id. An empty token
// is stored too: it records that the page had no auth API or the fetch failed.
func (ts *TokensStore) Put(token string) string {
	sessionID := security.GenerateULID()

	ts.mu.Lock()
	ts.entries[sessionID] = &tokenEntry{token: token, expiresAt: ts.now().Add(ts.ttl)}
	ts.mu.Unlock()

	if ts.logger != nil {
		ts.logger.Cache().Debug("Cache operation", "operation", "put", "type", "token", "sessionId", sessionID, "empty", token == "")
	}
	return sessionID
}

// Get returns the token for a live session and extends its lifetime.
func (ts *TokensStore) Get(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	now := ts.now()

	ts.mu.Lock()
	defer ts.mu.Unlock()

	entry, exists := ts.entries[sessionID]
	if !exists || now.After(entry.expiresAt) {
		if ts.logger != nil {
			ts.logger.Cache().Debug("Cache operation", "operation", "get", "type", "token", "sessionId", sessionID, "hit", false)
		}
		return "", false
	}
	entry.expiresAt = now.Add(ts.ttl)
	if ts.logger != nil {
		ts.logger.Cache().Debug("Cache operation", "operation", "get", "type", "token", "sessionId", sessionID, "hit", true)
	}
	return entry.token, true
}

// Delete drops a session.
func (ts *TokensStore) Delete(sessionID string) {
	ts.mu.Lock()
	delete(ts.entries, sessionID)
	ts.mu.Unlock()
}

// PurgeExpired removes entries whose deadline is before now.
func (ts *TokensStore) PurgeExpired(now time.Time) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	purged := 0
	for id, entry := range ts.entries {
		if now.After(entry.expiresAt) {
			delete(ts.entries, id)
			purged++
		}
	}
	return purged
}

var _ interfaces.TokenCache = (*TokensStore)(nil)
