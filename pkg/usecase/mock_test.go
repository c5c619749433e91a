package usecase_test

import (
	"context"
	"sync"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

// mockAccess is a RecordAccess whose calls are recorded and whose results are
// controlled by the test
type mockAccess struct {
	mu sync.Mutex

	records map[string]model.Record

	createCalls int
	updateCalls int
	lastRecord  model.Record
	lastFiles   []*model.StagedFile

	// block, when set, holds Create/Update until it is closed or ctx is done
	block    chan struct{}
	entered  chan struct{}
	err      error
	fetchErr error
}

func newMockAccess() *mockAccess {
	return &mockAccess{records: make(map[string]model.Record)}
}

func (m *mockAccess) FetchByID(ctx context.Context, id string) (model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *mockAccess) FetchAll(ctx context.Context) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []model.Record
	for _, r := range m.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *mockAccess) write(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error) {
	m.mu.Lock()
	m.lastRecord = record.Clone()
	m.lastFiles = files
	block, entered, err := m.block, m.entered, m.err
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := record.Clone()
	stored["_id"] = id
	m.records[id] = stored
	return stored.Clone(), nil
}

func (m *mockAccess) Create(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error) {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()
	return m.write(ctx, "new-id", record, files)
}

func (m *mockAccess) Update(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error) {
	m.mu.Lock()
	m.updateCalls++
	m.mu.Unlock()
	return m.write(ctx, id, record, files)
}

func (m *mockAccess) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockAccess) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls, m.updateCalls
}

func (m *mockAccess) sent() (model.Record, []*model.StagedFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecord.Clone(), m.lastFiles
}

// mockBackend hands out one mockAccess per resource
type mockBackend struct {
	mu       sync.Mutex
	accesses map[types.Resource]*mockAccess
}

var _ interfaces.Backend = &mockBackend{}

func newMockBackend() *mockBackend {
	return &mockBackend{accesses: make(map[types.Resource]*mockAccess)}
}

func (b *mockBackend) access(res types.Resource) *mockAccess {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accesses[res]
	if !ok {
		a = newMockAccess()
		b.accesses[res] = a
	}
	return a
}

func (b *mockBackend) Records(schema *config.FormSchema) interfaces.RecordAccess {
	return b.access(schema.Resource)
}

func (b *mockBackend) Close() error { return nil }

// mockNotifier records delivered notifications
type mockNotifier struct {
	mu   sync.Mutex
	sent []*model.Notification
	ch   chan *model.Notification
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{ch: make(chan *model.Notification, 8)}
}

func (n *mockNotifier) Notify(ctx context.Context, msg *model.Notification) error {
	n.mu.Lock()
	n.sent = append(n.sent, msg)
	n.mu.Unlock()
	n.ch <- msg
	return nil
}

// recordingIssuer tracks live preview URLs
type recordingIssuer struct {
	mu   sync.Mutex
	seq  int
	live map[string]bool
}

func newRecordingIssuer() *recordingIssuer {
	return &recordingIssuer{live: make(map[string]bool)}
}

func (r *recordingIssuer) Issue(f *model.StagedFile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	url := "preview://" + f.ID()
	r.live[url] = true
	return url, nil
}

func (r *recordingIssuer) Revoke(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, url)
}

func (r *recordingIssuer) liveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
