package usecase

import (
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	ErrEmptyRecordID   = goerr.New("record ID is empty")
	ErrSessionNotFound = goerr.New("form session not found")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
)
