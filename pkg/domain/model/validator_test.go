package model_test

import (
	"testing"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func schemaOf(t *testing.T, res types.Resource) *config.FormSchema {
	t.Helper()
	for _, s := range config.DefaultSchemas() {
		if s.Resource == res {
			return s
		}
	}
	t.Fatalf("no schema for %s", res)
	return nil
}

func validDeal() model.Record {
	return model.Record{
		"title":         "Weekend mangoes",
		"description":   "",
		"originalPrice": "4.00",
		"offerPrice":    "3.00",
		"startDate":     "2024-01-10",
		"startTime":     "10:00",
		"endDate":       "2024-01-12",
		"endTime":       "09:00",
	}
}

func dealDraft(fields model.Record) *model.Draft {
	return &model.Draft{
		Mode:   types.FormModeCreate,
		Fields: fields,
		Images: map[string]model.ImageRef{
			"image": model.RemoteImage("https://cdn.example.com/mango.png"),
		},
	}
}

func TestValidator_Validate_Deal(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceDeal))

	tests := []struct {
		name       string
		mutate     func(d *model.Draft)
		wantFields []string
	}{
		{
			name:   "valid deal",
			mutate: func(d *model.Draft) {},
		},
		{
			name:       "missing title",
			mutate:     func(d *model.Draft) { d.Fields["title"] = "   " },
			wantFields: []string{"title"},
		},
		{
			name:       "missing image",
			mutate:     func(d *model.Draft) { d.Images = nil },
			wantFields: []string{"image"},
		},
		{
			name: "staged image satisfies required",
			mutate: func(d *model.Draft) {
				d.Images = map[string]model.ImageRef{"image": model.StagedImage("f1")}
			},
		},
		{
			name:       "non numeric price",
			mutate:     func(d *model.Draft) { d.Fields["originalPrice"] = "four" },
			wantFields: []string{"originalPrice"},
		},
		{
			name:       "NaN price",
			mutate:     func(d *model.Draft) { d.Fields["offerPrice"] = "NaN" },
			wantFields: []string{"offerPrice"},
		},
		{
			name:       "infinite price",
			mutate:     func(d *model.Draft) { d.Fields["originalPrice"] = "Inf" },
			wantFields: []string{"originalPrice"},
		},
		{
			name:       "infinity spelled out",
			mutate:     func(d *model.Draft) { d.Fields["originalPrice"] = "-Infinity" },
			wantFields: []string{"originalPrice"},
		},
		{
			name:       "zero price",
			mutate:     func(d *model.Draft) { d.Fields["offerPrice"] = "0" },
			wantFields: []string{"offerPrice"},
		},
		{
			name:       "offer above original",
			mutate:     func(d *model.Draft) { d.Fields["offerPrice"] = "5.00" },
			wantFields: []string{"offerPrice"},
		},
		{
			name:       "offer equal to original",
			mutate:     func(d *model.Draft) { d.Fields["offerPrice"] = "4" },
			wantFields: []string{"offerPrice"},
		},
		{
			name: "end before start on the same day",
			mutate: func(d *model.Draft) {
				d.Fields["endDate"] = "2024-01-10"
				d.Fields["endTime"] = "09:00"
			},
			wantFields: []string{"endDate", "endTime"},
		},
		{
			name: "end equal to start",
			mutate: func(d *model.Draft) {
				d.Fields["endDate"] = "2024-01-10"
				d.Fields["endTime"] = "10:00"
			},
			wantFields: []string{"endDate", "endTime"},
		},
		{
			name:       "malformed date",
			mutate:     func(d *model.Draft) { d.Fields["startDate"] = "10/01/2024" },
			wantFields: []string{"startDate"},
		},
		{
			name:       "malformed time",
			mutate:     func(d *model.Draft) { d.Fields["endTime"] = "9am" },
			wantFields: []string{"endTime"},
		},
		{
			name:       "numbers from a hydrated record",
			mutate:     func(d *model.Draft) { d.Fields["originalPrice"] = float64(4); d.Fields["offerPrice"] = float64(4.5) },
			wantFields: []string{"offerPrice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dealDraft(validDeal())
			tt.mutate(d)

			errs := v.Validate(d)
			gt.Value(t, errs.Fields()).Equal(fieldsOrEmpty(tt.wantFields))
		})
	}
}

func fieldsOrEmpty(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}

func TestValidator_Validate_OrderingLaw(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceDeal))
	fields := validDeal()
	fields["startDate"] = "2024-01-10"
	fields["startTime"] = "10:00"
	fields["endDate"] = "2024-01-10"
	fields["endTime"] = "09:00"

	errs := v.Validate(dealDraft(fields))
	gt.Bool(t, errs.Has("endDate")).True()
	gt.Bool(t, errs.Has("endTime")).True()
	gt.Bool(t, errs.Has("startDate")).False()
}

func TestValidator_Validate_OfferAboveOriginal(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceDeal))
	fields := validDeal()
	fields["offerPrice"] = "5.00"
	fields["originalPrice"] = "4.00"

	derived := v.Derive(fields)
	errs := v.Validate(dealDraft(derived))

	gt.Value(t, errs.Get("offerPrice")).Equal("Offer price must be less than original price")
	gt.Value(t, derived.String("discount")).Equal("")
}

func TestValidator_Validate_RequiredFields(t *testing.T) {
	for _, schema := range config.DefaultSchemas() {
		t.Run(schema.Resource.String(), func(t *testing.T) {
			v := model.NewValidator(schema)
			errs := v.Validate(&model.Draft{Mode: types.FormModeCreate, Fields: model.Record{}})

			for _, f := range schema.Fields {
				if f.Required || f.RequiredOnCreate {
					gt.Bool(t, errs.Has(f.ID)).True()
				} else {
					gt.Bool(t, errs.Has(f.ID)).False()
				}
			}
		})
	}
}

func TestValidator_Validate_RequiredOnCreate(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceSubAdmin))
	fields := model.Record{"name": "Asha", "email": "asha@example.com", "role": "support"}

	create := v.Validate(&model.Draft{Mode: types.FormModeCreate, Fields: fields})
	gt.Value(t, create.Fields()).Equal([]string{"password"})

	edit := v.Validate(&model.Draft{Mode: types.FormModeEdit, Fields: fields})
	gt.Bool(t, edit.Empty()).True()
}

func TestValidator_Validate_Formats(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceCustomer))

	tests := []struct {
		name    string
		field   string
		value   any
		wantErr bool
	}{
		{name: "valid email", field: "email", value: "ravi@example.com"},
		{name: "invalid email", field: "email", value: "ravi@", wantErr: true},
		{name: "display name is not an address", field: "email", value: "Ravi <ravi@example.com>", wantErr: true},
		{name: "known status", field: "status", value: "blocked"},
		{name: "unknown status", field: "status", value: "deleted", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := model.Record{
				"name":   "Ravi",
				"email":  "ravi@example.com",
				"phone":  "+91 98765 43210",
				"status": "active",
			}
			fields[tt.field] = tt.value

			errs := v.Validate(&model.Draft{Mode: types.FormModeCreate, Fields: fields})
			gt.Value(t, errs.Has(tt.field)).Equal(tt.wantErr)
		})
	}
}

func TestValidator_Validate_DoesNotModifyDraft(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceDeal))
	fields := validDeal()
	before := fields.Clone()

	v.Validate(dealDraft(fields))
	gt.Value(t, fields).Equal(before)
}

func TestValidator_Derive(t *testing.T) {
	v := model.NewValidator(schemaOf(t, types.ResourceDeal))

	t.Run("offer 3 of 4 derives 25", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "3.00", "originalPrice": "4.00"})
		gt.Value(t, r["discount"]).Equal(any(25))
	})

	t.Run("rounds half up", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "1", "originalPrice": "8"})
		gt.Value(t, r["discount"]).Equal(any(88))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := v.Derive(model.Record{"offerPrice": "2.49", "originalPrice": "3.99"})
		twice := v.Derive(once)
		gt.Value(t, twice).Equal(once)
	})

	t.Run("non numeric leaves discount untouched", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "", "originalPrice": "4", "discount": 10})
		gt.Value(t, r["discount"]).Equal(any(10))
	})

	t.Run("NaN offer derives nothing", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "NaN", "originalPrice": "4.00"})
		_, ok := r["discount"]
		gt.Bool(t, ok).False()
	})

	t.Run("infinite original derives nothing", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "3.00", "originalPrice": "Inf", "discount": 10})
		gt.Value(t, r["discount"]).Equal(any(10))
	})

	t.Run("offer above original blanks stale discount", func(t *testing.T) {
		r := v.Derive(model.Record{"offerPrice": "5", "originalPrice": "4", "discount": 25})
		gt.Value(t, r["discount"]).Equal(any(""))
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := model.Record{"offerPrice": "3", "originalPrice": "4"}
		v.Derive(in)
		_, ok := in["discount"]
		gt.Bool(t, ok).False()
	})

	t.Run("schema without discount rule", func(t *testing.T) {
		pv := model.NewValidator(schemaOf(t, types.ResourceProduct))
		in := model.Record{"price": "3"}
		gt.Value(t, pv.Derive(in)).Equal(in)
	})
}
