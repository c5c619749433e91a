package interfaces

import (
	"context"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
)

// RecordAccess is the record-access collaborator of one admin screen.
// Implementations return model.ErrNotFound, model.ErrTransport or
// model.ErrTimeout (wrapped) on failure.
type RecordAccess interface {
	// FetchByID retrieves a single record
	FetchByID(ctx context.Context, id string) (model.Record, error)

	// FetchAll retrieves every record of the resource
	FetchAll(ctx context.Context) ([]model.Record, error)

	// Create stores a new record together with its staged files and returns
	// the stored record as the backend reports it
	Create(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error)

	// Update replaces an existing record
	Update(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error
}

// Backend hands out a RecordAccess per form schema
type Backend interface {
	Records(schema *config.FormSchema) RecordAccess
	Close() error
}
