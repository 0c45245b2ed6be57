package highscore

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey identifies the highscore list in every store.
const DefaultKey = "metris_highscores"

// ErrNotFound is returned by Store.Load when nothing has been saved yet.
var ErrNotFound = errors.New("highscore: no saved data")

// Store persists the encoded highscore list as an opaque value.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// MemoryStore keeps the list in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}
