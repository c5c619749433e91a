package config

import (
	"strings"

	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultIDField is the record key holding the backend identifier
const DefaultIDField = "_id"

// ImageSpec constrains what may be staged into an image field
type ImageSpec struct {
	UploadName string // multipart field name, e.g. "backgroundImage"
	MaxBytes   int64
	MimePrefix string // e.g. "image/" or "image/gif"
	Multiple   bool
}

// FieldDefinition defines one input of an admin form
type FieldDefinition struct {
	ID               string
	Label            string
	Type             types.FieldType
	Required         bool
	RequiredOnCreate bool // required in create mode only, e.g. passwords
	Positive         bool // numeric value must be > 0
	Options          []string
	Image            *ImageSpec
}

// LessThanRule requires Field to be strictly less than Than when both are numeric
type LessThanRule struct {
	Field string
	Than  string
}

// ScheduleRule requires EndDate+EndTime to be strictly after StartDate+StartTime
type ScheduleRule struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

// DiscountRule derives Target as the rounded percentage Offer saves on Original
type DiscountRule struct {
	Offer    string
	Original string
	Target   string
}

// FormSchema is the field set and rule set of one admin screen
type FormSchema struct {
	Resource types.Resource
	Title    string
	Path     string // REST resource path, e.g. "/home-offer"
	IDField  string
	Fields   []FieldDefinition
	LessThan []LessThanRule
	Schedule *ScheduleRule
	Discount *DiscountRule
}

// Field looks up a field definition by ID
func (s *FormSchema) Field(id string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// ImageFields returns the image fields in declaration order
func (s *FormSchema) ImageFields() []FieldDefinition {
	var fields []FieldDefinition
	for _, f := range s.Fields {
		if f.Type == types.FieldTypeImage {
			fields = append(fields, f)
		}
	}
	return fields
}

// Label returns the display label of a field, falling back to its ID
func (s *FormSchema) Label(id string) string {
	if f, ok := s.Field(id); ok && f.Label != "" {
		return f.Label
	}
	return id
}

// IDKey returns the record key of the backend identifier
func (s *FormSchema) IDKey() string {
	if s.IDField != "" {
		return s.IDField
	}
	return DefaultIDField
}

// Validate checks the schema for structural problems
func (s *FormSchema) Validate() error {
	if err := s.Resource.Validate(); err != nil {
		return goerr.Wrap(err, "invalid resource")
	}
	if !strings.HasPrefix(s.Path, "/") {
		return goerr.Wrap(ErrInvalidPath, "path must start with '/'",
			goerr.V(ResourceKey, s.Resource), goerr.V(PathKey, s.Path))
	}
	if len(s.Fields) == 0 {
		return goerr.Wrap(ErrNoFields, "schema has no fields", goerr.V(ResourceKey, s.Resource))
	}

	seen := make(map[string]bool)
	for i, f := range s.Fields {
		if f.ID == "" {
			return goerr.Wrap(ErrInvalidFieldID, "field ID is empty",
				goerr.V(ResourceKey, s.Resource), goerr.V(FieldIndexKey, i))
		}
		if seen[f.ID] {
			return goerr.Wrap(ErrDuplicateFieldID, "duplicate field ID",
				goerr.V(ResourceKey, s.Resource), goerr.V(FieldIDKey, f.ID))
		}
		seen[f.ID] = true

		if !f.Type.IsValid() {
			return goerr.Wrap(ErrInvalidFieldType, "unknown field type",
				goerr.V(FieldIDKey, f.ID), goerr.V(FieldTypeKey, f.Type))
		}
		if f.Type == types.FieldTypeEnum && len(f.Options) == 0 {
			return goerr.Wrap(ErrMissingOptions, "enum field requires options",
				goerr.V(FieldIDKey, f.ID))
		}
		if f.Type == types.FieldTypeImage && (f.Image == nil || f.Image.MaxBytes <= 0) {
			return goerr.Wrap(ErrInvalidImageSpec, "image field requires a positive max size",
				goerr.V(FieldIDKey, f.ID))
		}
	}

	refs := func(rule string, ids ...string) error {
		for _, id := range ids {
			if !seen[id] {
				return goerr.Wrap(ErrUnknownRuleField, "rule references unknown field",
					goerr.V(ResourceKey, s.Resource), goerr.V(RuleKey, rule), goerr.V(FieldIDKey, id))
			}
		}
		return nil
	}
	for _, r := range s.LessThan {
		if err := refs("less_than", r.Field, r.Than); err != nil {
			return err
		}
	}
	if r := s.Schedule; r != nil {
		if err := refs("schedule", r.StartDate, r.StartTime, r.EndDate, r.EndTime); err != nil {
			return err
		}
	}
	if r := s.Discount; r != nil {
		if err := refs("discount", r.Offer, r.Original, r.Target); err != nil {
			return err
		}
	}

	return nil
}
