package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionUnknown is returned by SessionStore.Lookup for ids that were never
// saved, have expired or were deleted.
var ErrSessionUnknown = errors.New("session unknown")

// SessionStore records which token ids are live and who owns them.
type SessionStore interface {
	Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenID string) error
}

// MemorySessions is a process-local SessionStore. Expired entries are
// dropped lazily on lookup.
type MemorySessions struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	userID  uuid.UUID
	expires time.Time
}

// NewMemorySessions returns an empty MemorySessions using the wall clock.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemorySessions) Save(_ context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tokenID] = memoryEntry{userID: userID, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessions) Lookup(_ context.Context, tokenID string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[tokenID]
	if !ok {
		return uuid.Nil, ErrSessionUnknown
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, tokenID)
		return uuid.Nil, ErrSessionUnknown
	}
	return e.userID, nil
}

func (m *MemorySessions) Delete(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, tokenID)
	return nil
}

var _ SessionStore = (*MemorySessions)(nil)
