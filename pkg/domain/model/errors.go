package model

import (
	"context"
	"errors"

	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Collaborator and form errors. Validation problems are never errors; they are
// reported through FieldErrors.
var (
	ErrNotFound       = goerr.New("record not found")
	ErrTransport      = goerr.New("transport failure")
	ErrTimeout        = goerr.New("request timed out")
	ErrSubmitInFlight = goerr.New("submission already in flight")
	ErrFormDisposed   = goerr.New("form is disposed")
	ErrUnknownField   = goerr.New("unknown field")
	ErrNotImageField  = goerr.New("field is not an image field")
	ErrSchemaNotFound = goerr.New("schema not found")
	ErrFileNotStaged  = goerr.New("file is not staged")
)

// Context keys for error values
const (
	ResourceKey   = "resource"
	FieldKey      = "field"
	RecordIDKey   = "record_id"
	FileIDKey     = "file_id"
	StatusCodeKey = "status_code"
	URLKey        = "url"
	MethodKey     = "method"
	BodyKey       = "body"
	CauseKey      = "cause"
)

// FailureKindOf classifies a collaborator error for display
func FailureKindOf(err error) types.FailureKind {
	switch {
	case err == nil:
		return types.FailureKindNone
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return types.FailureKindTimeout
	case errors.Is(err, ErrNotFound):
		return types.FailureKindNotFound
	default:
		return types.FailureKindTransport
	}
}
