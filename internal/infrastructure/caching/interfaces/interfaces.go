// Package interfaces defines cache operation contracts.
package interfaces

import "time"

// ExpiringStore is a cache whose entries carry a deadline. The cleanup worker
// sweeps every registered store.
type ExpiringStore interface {
	Name() string
	Len() int
	PurgeExpired(now time.Time) int
}

// TokenCache keeps page-load auth tokens keyed by page session id.
type TokenCache interface {
	ExpiringStore
	Put(token string) string
	Get(sessionID string) (string, bool)
	Delete(sessionID string)
}
