package model

import (
	"fmt"
	"math"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Validator checks drafts against one form schema
type Validator struct {
	schema *config.FormSchema
}

// NewValidator creates a new Validator with the given schema
func NewValidator(schema *config.FormSchema) *Validator {
	return &Validator{
		schema: schema,
	}
}

// Validate returns the problems of a draft. The result is empty iff the draft
// can be submitted. It does not modify the draft.
func (v *Validator) Validate(d *Draft) FieldErrors {
	errs := make(FieldErrors)
	fields := d.Fields
	if fields == nil {
		fields = Record{}
	}

	for _, f := range v.schema.Fields {
		required := f.Required || (f.RequiredOnCreate && d.Mode != types.FormModeEdit)

		if f.Type == types.FieldTypeImage {
			if required && !d.Image(f.ID).IsSet() {
				errs.Set(f.ID, fmt.Sprintf("%s is required", labelOf(f)))
			}
			continue
		}

		value := strings.TrimSpace(fields.String(f.ID))
		if value == "" {
			if required {
				errs.Set(f.ID, fmt.Sprintf("%s is required", labelOf(f)))
			}
			continue
		}

		if msg := checkFormat(f, value); msg != "" {
			errs.Set(f.ID, msg)
		}
	}

	for _, rule := range v.schema.LessThan {
		if errs.Has(rule.Field) || errs.Has(rule.Than) {
			continue
		}
		a, okA := fields.Float(rule.Field)
		b, okB := fields.Float(rule.Than)
		if okA && okB && a >= b {
			errs.Set(rule.Field, fmt.Sprintf("%s must be less than %s",
				v.schema.Label(rule.Field), strings.ToLower(v.schema.Label(rule.Than))))
		}
	}

	if rule := v.schema.Schedule; rule != nil {
		start, okStart := instant(fields, rule.StartDate, rule.StartTime)
		end, okEnd := instant(fields, rule.EndDate, rule.EndTime)
		// both end fields are flagged
		if okStart && okEnd && !end.After(start) {
			const msg = "End must be after start"
			errs.Set(rule.EndDate, msg)
			errs.Set(rule.EndTime, msg)
		}
	}

	return errs
}

// Derive returns a copy of r with derived fields recomputed. When both prices
// are numeric the discount is rewritten, or blanked if the offer does not
// undercut the original. Derive is idempotent.
func (v *Validator) Derive(r Record) Record {
	out := r.Clone()
	rule := v.schema.Discount
	if rule == nil {
		return out
	}

	offer, okOffer := out.Float(rule.Offer)
	original, okOriginal := out.Float(rule.Original)
	if !okOffer || !okOriginal {
		return out
	}
	if original <= 0 || offer >= original {
		if _, ok := out[rule.Target]; ok {
			out[rule.Target] = ""
		}
		return out
	}

	out[rule.Target] = int(math.Round((original - offer) / original * 100))
	return out
}

func checkFormat(f config.FieldDefinition, value string) string {
	label := labelOf(f)

	switch f.Type {
	case types.FieldTypeNumber, types.FieldTypePrice:
		n, ok := Record{f.ID: value}.Float(f.ID)
		if !ok {
			if f.Positive {
				return fmt.Sprintf("%s must be greater than 0", label)
			}
			return fmt.Sprintf("%s must be a number", label)
		}
		if f.Positive && n <= 0 {
			return fmt.Sprintf("%s must be greater than 0", label)
		}
	case types.FieldTypeEmail:
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return fmt.Sprintf("%s must be a valid email address", label)
		}
	case types.FieldTypeDate:
		if _, err := time.Parse(dateLayout, value); err != nil {
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", label)
		}
	case types.FieldTypeTime:
		if _, err := time.Parse(timeLayout, value); err != nil {
			return fmt.Sprintf("%s must be a time (HH:MM)", label)
		}
	case types.FieldTypeEnum:
		if !slices.Contains(f.Options, value) {
			return fmt.Sprintf("%s must be one of %s", label, strings.Join(f.Options, ", "))
		}
	}
	return ""
}

func instant(r Record, dateField, timeField string) (time.Time, bool) {
	ts, err := time.Parse(dateLayout+" "+timeLayout,
		strings.TrimSpace(r.String(dateField))+" "+strings.TrimSpace(r.String(timeField)))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
