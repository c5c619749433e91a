package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

// Memory is an in-process Backend used for development and tests
type Memory struct {
	mu     sync.Mutex
	stores map[types.Resource]*recordStore
	now    func() time.Time
	newID  func() string
}

var _ interfaces.Backend = &Memory{}

type Option func(*Memory)

// WithClock replaces time.Now for created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// WithIDGenerator replaces the UUID generator of record IDs
func WithIDGenerator(gen func() string) Option {
	return func(m *Memory) {
		m.newID = gen
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		stores: make(map[types.Resource]*recordStore),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Records returns the store of a schema's resource. Stores live as long as
// the Memory backend, so every call for the same resource shares data.
func (m *Memory) Records(schema *config.FormSchema) interfaces.RecordAccess {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[schema.Resource]
	if !ok {
		store = newRecordStore(schema, m.now, m.newID)
		m.stores[schema.Resource] = store
	}
	return store
}

func (m *Memory) Close() error {
	return nil
}
