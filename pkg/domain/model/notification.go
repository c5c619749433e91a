package model

import "github.com/grocerly/grocery-admin/pkg/domain/types"

// Notification is the form-level message shown after a submission attempt
type Notification struct {
	Level    types.NoticeLevel `json:"level"`
	Resource types.Resource    `json:"resource"`
	Mode     types.FormMode    `json:"mode"`
	RecordID string            `json:"record_id,omitempty"`
	Message  string            `json:"message"`
	Kind     types.FailureKind `json:"kind,omitempty"`
}
