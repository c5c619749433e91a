package model

import (
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SchemaRegistry holds the form schema of every admin screen.
// It holds settings only, never collaborators.
type SchemaRegistry struct {
	entries map[types.Resource]*config.FormSchema
	order   []types.Resource // preserves registration order
}

// NewSchemaRegistry creates a registry and registers schemas after validating them
func NewSchemaRegistry(schemas ...*config.FormSchema) (*SchemaRegistry, error) {
	r := &SchemaRegistry{
		entries: make(map[types.Resource]*config.FormSchema),
	}
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid form schema", goerr.V(ResourceKey, s.Resource))
		}
		r.Register(s)
	}
	return r, nil
}

// Register adds or replaces a schema
func (r *SchemaRegistry) Register(schema *config.FormSchema) {
	if _, exists := r.entries[schema.Resource]; !exists {
		r.order = append(r.order, schema.Resource)
	}
	r.entries[schema.Resource] = schema
}

// Get retrieves a schema by resource
func (r *SchemaRegistry) Get(resource types.Resource) (*config.FormSchema, error) {
	schema, ok := r.entries[resource]
	if !ok {
		return nil, goerr.Wrap(ErrSchemaNotFound, "schema not found",
			goerr.V(ResourceKey, resource))
	}
	return schema, nil
}

// List returns all schemas in registration order
func (r *SchemaRegistry) List() []*config.FormSchema {
	result := make([]*config.FormSchema, 0, len(r.order))
	for _, res := range r.order {
		result = append(result, r.entries[res])
	}
	return result
}

// Resources returns all registered resources in registration order
func (r *SchemaRegistry) Resources() []types.Resource {
	return append([]types.Resource(nil), r.order...)
}
