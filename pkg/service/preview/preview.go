// Package preview issues short-lived URLs under which staged files can be
// displayed before they are uploaded.
package preview

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
)

// DefaultPathPrefix is the dashboard route serving preview bytes
const DefaultPathPrefix = "/api/previews/"

// Registry maps preview tokens to staged files. A token lives from Issue
// until Revoke.
type Registry struct {
	mu       sync.RWMutex
	prefix   string
	entries  map[string]*model.StagedFile
	newToken func() string
}

var _ model.PreviewIssuer = &Registry{}

type Option func(*Registry)

// WithPathPrefix sets the URL prefix preview tokens are appended to
func WithPathPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// WithTokenGenerator replaces the UUID token generator
func WithTokenGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newToken = gen
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		prefix:   DefaultPathPrefix,
		entries:  make(map[string]*model.StagedFile),
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Issue(f *model.StagedFile) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := r.newToken()
	r.entries[token] = f
	return r.prefix + token, nil
}

// Revoke forgets the token of url. Unknown URLs are ignored.
func (r *Registry) Revoke(url string) {
	token, ok := strings.CutPrefix(url, r.prefix)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

// Lookup returns the staged file of a live token
func (r *Registry) Lookup(token string) (*model.StagedFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.entries[token]
	return f, ok
}

// Len reports the number of live tokens
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
