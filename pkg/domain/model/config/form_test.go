package config_test

import (
	"testing"

	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestDefaultSchemas_Valid(t *testing.T) {
	for _, s := range config.DefaultSchemas() {
		t.Run(s.Resource.String(), func(t *testing.T) {
			gt.NoError(t, s.Validate()).Required()
		})
	}
}

func TestFormSchema_Validate(t *testing.T) {
	base := func() *config.FormSchema {
		return &config.FormSchema{
			Resource: "deal",
			Path:     "/deal",
			Fields: []config.FieldDefinition{
				{ID: "offerPrice", Type: types.FieldTypePrice},
				{ID: "originalPrice", Type: types.FieldTypePrice},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *config.FormSchema)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(s *config.FormSchema) {},
		},
		{
			name:    "path without slash",
			mutate:  func(s *config.FormSchema) { s.Path = "deal" },
			wantErr: config.ErrInvalidPath,
		},
		{
			name:    "no fields",
			mutate:  func(s *config.FormSchema) { s.Fields = nil },
			wantErr: config.ErrNoFields,
		},
		{
			name: "duplicate field",
			mutate: func(s *config.FormSchema) {
				s.Fields = append(s.Fields, config.FieldDefinition{ID: "offerPrice", Type: types.FieldTypeText})
			},
			wantErr: config.ErrDuplicateFieldID,
		},
		{
			name: "unknown type",
			mutate: func(s *config.FormSchema) {
				s.Fields[0].Type = "money"
			},
			wantErr: config.ErrInvalidFieldType,
		},
		{
			name: "enum without options",
			mutate: func(s *config.FormSchema) {
				s.Fields = append(s.Fields, config.FieldDefinition{ID: "status", Type: types.FieldTypeEnum})
			},
			wantErr: config.ErrMissingOptions,
		},
		{
			name: "image without spec",
			mutate: func(s *config.FormSchema) {
				s.Fields = append(s.Fields, config.FieldDefinition{ID: "image", Type: types.FieldTypeImage})
			},
			wantErr: config.ErrInvalidImageSpec,
		},
		{
			name: "rule with unknown field",
			mutate: func(s *config.FormSchema) {
				s.LessThan = []config.LessThanRule{{Field: "offerPrice", Than: "price"}}
			},
			wantErr: config.ErrUnknownRuleField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == nil {
				gt.NoError(t, err).Required()
				return
			}
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}

func TestFormSchema_Lookup(t *testing.T) {
	var deal *config.FormSchema
	for _, s := range config.DefaultSchemas() {
		if s.Resource == types.ResourceDeal {
			deal = s
		}
	}
	gt.Value(t, deal).NotNil()

	gt.Value(t, deal.Label("offerPrice")).Equal("Offer price")
	gt.Value(t, deal.Label("missing")).Equal("missing")
	gt.Value(t, deal.IDKey()).Equal(config.DefaultIDField)
	gt.Array(t, deal.ImageFields()).Length(1)

	_, ok := deal.Field("endTime")
	gt.Bool(t, ok).True()
}
