package types

import "github.com/m-mizutani/goerr/v2"

// SubmitStatus represents where a form is in its submission lifecycle
type SubmitStatus string

const (
	SubmitStatusIdle       SubmitStatus = "IDLE"
	SubmitStatusEditing    SubmitStatus = "EDITING"
	SubmitStatusValidating SubmitStatus = "VALIDATING"
	SubmitStatusSubmitting SubmitStatus = "SUBMITTING"
	SubmitStatusSucceeded  SubmitStatus = "SUCCEEDED"
	SubmitStatusFailed     SubmitStatus = "FAILED"
)

// AllSubmitStatuses returns all valid submit statuses
func AllSubmitStatuses() []SubmitStatus {
	return []SubmitStatus{
		SubmitStatusIdle,
		SubmitStatusEditing,
		SubmitStatusValidating,
		SubmitStatusSubmitting,
		SubmitStatusSucceeded,
		SubmitStatusFailed,
	}
}

// IsValid checks if the submit status is valid
func (s SubmitStatus) IsValid() bool {
	switch s {
	case SubmitStatusIdle,
		SubmitStatusEditing,
		SubmitStatusValidating,
		SubmitStatusSubmitting,
		SubmitStatusSucceeded,
		SubmitStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status ends a submission attempt
func (s SubmitStatus) IsTerminal() bool {
	return s == SubmitStatusSucceeded || s == SubmitStatusFailed
}

// Normalize returns the status, treating empty as SubmitStatusIdle
func (s SubmitStatus) Normalize() SubmitStatus {
	if s == "" {
		return SubmitStatusIdle
	}
	return s
}

// String returns the string representation of the submit status
func (s SubmitStatus) String() string {
	return string(s)
}

// ParseSubmitStatus parses a string into a SubmitStatus
func ParseSubmitStatus(s string) (SubmitStatus, error) {
	status := SubmitStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid submit status", goerr.V("status", s))
	}
	return status, nil
}
