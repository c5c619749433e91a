package usecase

import (
	"context"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// ResourceCount is the number of records of one admin screen
type ResourceCount struct {
	Resource types.Resource `json:"resource"`
	Title    string         `json:"title"`
	Count    int            `json:"count"`
}

// NewForm opens an empty create-mode form
func (uc *UseCases) NewForm(resource types.Resource, opts ...FormOption) (*FormController, error) {
	schema, err := uc.schemas.Get(resource)
	if err != nil {
		return nil, err
	}

	record, images := emptyRecord(schema)
	return newFormController(formParams{
		schema:   schema,
		access:   uc.backend.Records(schema),
		notifier: uc.notifier,
		previews: uc.previews,
		mode:     types.FormModeCreate,
		record:   record,
		images:   images,
	}, uc.resetDelay, uc.timeout, opts...), nil
}

// OpenForm fetches a record and opens an edit-mode form hydrated from it.
// model.ErrNotFound is returned when the record does not exist.
func (uc *UseCases) OpenForm(ctx context.Context, resource types.Resource, id string, opts ...FormOption) (*FormController, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrEmptyRecordID, "cannot open form", goerr.V(model.ResourceKey, resource))
	}
	schema, err := uc.schemas.Get(resource)
	if err != nil {
		return nil, err
	}

	access := uc.backend.Records(schema)
	fetched, err := access.FetchByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch record",
			goerr.V(model.ResourceKey, resource), goerr.V(model.RecordIDKey, id))
	}

	record, images := hydrate(schema, fetched)
	return newFormController(formParams{
		schema:   schema,
		access:   access,
		notifier: uc.notifier,
		previews: uc.previews,
		mode:     types.FormModeEdit,
		recordID: id,
		record:   record,
		images:   images,
	}, uc.resetDelay, uc.timeout, opts...), nil
}

// List retrieves every record of a resource
func (uc *UseCases) List(ctx context.Context, resource types.Resource) ([]model.Record, error) {
	schema, err := uc.schemas.Get(resource)
	if err != nil {
		return nil, err
	}

	records, err := uc.backend.Records(schema).FetchAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list records", goerr.V(model.ResourceKey, resource))
	}
	return records, nil
}

// Get retrieves one record
func (uc *UseCases) Get(ctx context.Context, resource types.Resource, id string) (model.Record, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrEmptyRecordID, "cannot get record", goerr.V(model.ResourceKey, resource))
	}
	schema, err := uc.schemas.Get(resource)
	if err != nil {
		return nil, err
	}

	record, err := uc.backend.Records(schema).FetchByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get record",
			goerr.V(model.ResourceKey, resource), goerr.V(model.RecordIDKey, id))
	}
	return record, nil
}

// Delete removes one record
func (uc *UseCases) Delete(ctx context.Context, resource types.Resource, id string) error {
	if id == "" {
		return goerr.Wrap(ErrEmptyRecordID, "cannot delete record", goerr.V(model.ResourceKey, resource))
	}
	schema, err := uc.schemas.Get(resource)
	if err != nil {
		return err
	}

	if err := uc.backend.Records(schema).Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete record",
			goerr.V(model.ResourceKey, resource), goerr.V(model.RecordIDKey, id))
	}
	return nil
}

// Summary counts the records of every resource concurrently. The result
// follows registration order.
func (uc *UseCases) Summary(ctx context.Context) ([]ResourceCount, error) {
	schemas := uc.schemas.List()
	counts := make([]ResourceCount, len(schemas))

	eg, ctx := errgroup.WithContext(ctx)
	for i, schema := range schemas {
		eg.Go(func() error {
			records, err := uc.backend.Records(schema).FetchAll(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to count records", goerr.V(model.ResourceKey, schema.Resource))
			}
			counts[i] = ResourceCount{Resource: schema.Resource, Title: schema.Title, Count: len(records)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func emptyRecord(schema *config.FormSchema) (model.Record, map[string]model.ImageRef) {
	record := model.Record{}
	images := make(map[string]model.ImageRef)
	for _, f := range schema.Fields {
		if f.Type == types.FieldTypeImage {
			images[f.ID] = model.EmptyImage()
			continue
		}
		record[f.ID] = ""
	}
	return record, images
}

// hydrate copies the editable fields of a fetched record. Absent text-like
// fields become "", absent numeric fields nil, and image fields reference
// their URLs remotely.
func hydrate(schema *config.FormSchema, src model.Record) (model.Record, map[string]model.ImageRef) {
	record := model.Record{}
	images := make(map[string]model.ImageRef)
	for _, f := range schema.Fields {
		if f.Type == types.FieldTypeImage {
			images[f.ID] = model.RemoteImage(src.Strings(f.ID)...)
			continue
		}

		v, ok := src[f.ID]
		switch {
		case ok && v != nil:
			record[f.ID] = v
		case f.Type.IsNumeric():
			record[f.ID] = nil
		default:
			record[f.ID] = ""
		}
	}
	return record, images
}
