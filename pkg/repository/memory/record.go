package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
)

const (
	CreatedAtKey = "created_at"
	UpdatedAtKey = "updated_at"
)

type recordStore struct {
	mu      sync.RWMutex
	schema  *config.FormSchema
	records map[string]model.Record
	order   []string
	now     func() time.Time
	newID   func() string
}

func newRecordStore(schema *config.FormSchema, now func() time.Time, newID func() string) *recordStore {
	return &recordStore{
		schema:  schema,
		records: make(map[string]model.Record),
		now:     now,
		newID:   newID,
	}
}

// fileURL is the pseudo URL of a staged file kept by this backend
func (r *recordStore) fileURL(f *model.StagedFile) (string, error) {
	return fmt.Sprintf("memory://%s/%s/%s", r.schema.Resource, f.ID(), f.Name()), nil
}

func (r *recordStore) FetchByID(ctx context.Context, id string) (model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "record not found",
			goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.RecordIDKey, id))
	}

	// Return a copy to prevent external modification
	return rec.Clone(), nil
}

func (r *recordStore) FetchAll(ctx context.Context) ([]model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Record, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.records[id].Clone())
	}
	return result, nil
}

func (r *recordStore) Create(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(model.ErrTimeout, "context done before create", goerr.V(model.ResourceKey, r.schema.Resource))
	}

	created, err := model.AttachUploads(r.schema, record, files, r.fileURL)
	if err != nil {
		return nil, goerr.Wrap(model.ErrTransport, "failed to store files", goerr.V(model.CauseKey, err.Error()))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	now := r.now().Format(time.RFC3339Nano)
	created[r.schema.IDKey()] = id
	created[CreatedAtKey] = now
	created[UpdatedAtKey] = now

	r.records[id] = created
	r.order = append(r.order, id)
	return created.Clone(), nil
}

func (r *recordStore) Update(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(model.ErrTimeout, "context done before update", goerr.V(model.ResourceKey, r.schema.Resource))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "record not found",
			goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.RecordIDKey, id))
	}

	merged := existing.Clone()
	for k, v := range record {
		merged[k] = v
	}
	updated, err := model.AttachUploads(r.schema, merged, files, r.fileURL)
	if err != nil {
		return nil, goerr.Wrap(model.ErrTransport, "failed to store files", goerr.V(model.CauseKey, err.Error()))
	}
	updated[r.schema.IDKey()] = id
	updated[CreatedAtKey] = existing[CreatedAtKey]
	updated[UpdatedAtKey] = r.now().Format(time.RFC3339Nano)

	r.records[id] = updated
	return updated.Clone(), nil
}

func (r *recordStore) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return goerr.Wrap(model.ErrNotFound, "record not found",
			goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.RecordIDKey, id))
	}
	delete(r.records, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
