package usecase

import (
	"context"
	"fmt"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ValidationIssue is one stored record that no longer passes its form schema
type ValidationIssue struct {
	Resource types.Resource
	RecordID string
	Errors   model.FieldErrors
}

// ValidationResult holds the results of a record audit
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// String renders one line per issue
func (i ValidationIssue) String() string {
	s := fmt.Sprintf("%s/%s:", i.Resource, i.RecordID)
	for _, f := range i.Errors.Fields() {
		s += fmt.Sprintf(" %s=%q", f, i.Errors.Get(f))
	}
	return s
}

// ValidateRecords runs every stored record through the validator of its
// schema, as if it were opened in an edit form and submitted unchanged. It is
// used after a schema change to find records the admins can no longer save
// without fixing them. It does NOT modify any data.
func (uc *UseCases) ValidateRecords(ctx context.Context, resources ...types.Resource) (*ValidationResult, error) {
	result := &ValidationResult{}

	if len(resources) == 0 {
		resources = uc.schemas.Resources()
	}

	for _, res := range resources {
		schema, err := uc.schemas.Get(res)
		if err != nil {
			return nil, err
		}

		records, err := uc.backend.Records(schema).FetchAll(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch records", goerr.V(model.ResourceKey, res))
		}

		validator := model.NewValidator(schema)
		for _, rec := range records {
			fields, images := hydrate(schema, rec)
			errs := validator.Validate(&model.Draft{
				Mode:   types.FormModeEdit,
				Fields: validator.Derive(fields),
				Images: images,
			})
			result.Checked++
			if errs.Empty() {
				continue
			}
			result.AddIssue(ValidationIssue{
				Resource: res,
				RecordID: rec.ID(schema.IDKey()),
				Errors:   errs,
			})
		}
	}

	return result, nil
}
