package usecase

import (
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
)

const (
	// DefaultResetDelay is how long a succeeded form shows its confirmation
	DefaultResetDelay = 2 * time.Second
	// DefaultRequestTimeout bounds every collaborator call made by a form
	DefaultRequestTimeout = 30 * time.Second
)

type UseCases struct {
	backend    interfaces.Backend
	schemas    *model.SchemaRegistry
	notifier   interfaces.Notifier
	previews   model.PreviewIssuer
	resetDelay time.Duration
	timeout    time.Duration
}

type Option func(*UseCases)

// WithNotifier forwards form notifications to n in addition to the form itself
func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithPreviewIssuer sets the issuer of staged-file preview URLs
func WithPreviewIssuer(issuer model.PreviewIssuer) Option {
	return func(uc *UseCases) {
		uc.previews = issuer
	}
}

func WithResetDelay(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.resetDelay = d
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.timeout = d
	}
}

func New(backend interfaces.Backend, schemas *model.SchemaRegistry, opts ...Option) *UseCases {
	uc := &UseCases{
		backend:    backend,
		schemas:    schemas,
		resetDelay: DefaultResetDelay,
		timeout:    DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Schemas returns the registry of admin screens
func (uc *UseCases) Schemas() *model.SchemaRegistry {
	return uc.schemas
}
