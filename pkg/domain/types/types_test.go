package types_test

import (
	"testing"

	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestFieldType_IsValid(t *testing.T) {
	for _, ft := range types.AllFieldTypes() {
		t.Run(ft.String(), func(t *testing.T) {
			gt.Bool(t, ft.IsValid()).True()
		})
	}
	gt.Bool(t, types.FieldType("select").IsValid()).False()
}

func TestFieldType_IsNumeric(t *testing.T) {
	gt.Bool(t, types.FieldTypePrice.IsNumeric()).True()
	gt.Bool(t, types.FieldTypeNumber.IsNumeric()).True()
	gt.Bool(t, types.FieldTypeText.IsNumeric()).False()
}

func TestSubmitStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   types.SubmitStatus
		valid    bool
		terminal bool
	}{
		{name: "idle", status: types.SubmitStatusIdle, valid: true},
		{name: "editing", status: types.SubmitStatusEditing, valid: true},
		{name: "validating", status: types.SubmitStatusValidating, valid: true},
		{name: "submitting", status: types.SubmitStatusSubmitting, valid: true},
		{name: "succeeded", status: types.SubmitStatusSucceeded, valid: true, terminal: true},
		{name: "failed", status: types.SubmitStatusFailed, valid: true, terminal: true},
		{name: "unknown", status: types.SubmitStatus("DONE"), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.status.IsValid()).Equal(tt.valid)
			gt.Value(t, tt.status.IsTerminal()).Equal(tt.terminal)
		})
	}
}

func TestSubmitStatus_Normalize(t *testing.T) {
	gt.Value(t, types.SubmitStatus("").Normalize()).Equal(types.SubmitStatusIdle)
	gt.Value(t, types.SubmitStatusFailed.Normalize()).Equal(types.SubmitStatusFailed)
}

func TestParseSubmitStatus(t *testing.T) {
	s, err := types.ParseSubmitStatus("SUBMITTING")
	gt.NoError(t, err).Required()
	gt.Value(t, s).Equal(types.SubmitStatusSubmitting)

	_, err = types.ParseSubmitStatus("submitting")
	gt.Value(t, err).NotNil()
}

func TestResource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		res     types.Resource
		wantErr bool
	}{
		{name: "simple", res: types.ResourceDeal},
		{name: "hyphenated", res: types.ResourceHomeOffer},
		{name: "empty", res: "", wantErr: true},
		{name: "upper case", res: "Deal", wantErr: true},
		{name: "path", res: "admin/deal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if tt.wantErr {
				gt.Value(t, err).NotNil()
			} else {
				gt.NoError(t, err).Required()
			}
		})
	}
}
