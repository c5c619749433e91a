package model

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
)

// FileInput is a user-selected file before staging
type FileInput struct {
	Name     string
	MimeType string // detected from content when empty
	Data     []byte
	Size     int64 // declared size, used when Data was not read in full
}

func (in FileInput) size() int64 {
	return max(in.Size, int64(len(in.Data)))
}

// StagedFile is a file held by a form until submission. It is immutable once
// Stage returns it; revocation is tracked by the Staging that owns it.
type StagedFile struct {
	id         string
	field      string
	name       string
	mimeType   string
	previewURL string
	data       []byte
}

// NewStagedFileForTest builds a StagedFile outside of a Staging
func NewStagedFileForTest(id, field, name, mimeType string, data []byte) *StagedFile {
	return &StagedFile{id: id, field: field, name: name, mimeType: mimeType, data: data}
}

// Getters
func (f *StagedFile) ID() string         { return f.id }
func (f *StagedFile) Field() string      { return f.field }
func (f *StagedFile) Name() string       { return f.name }
func (f *StagedFile) MimeType() string   { return f.mimeType }
func (f *StagedFile) PreviewURL() string { return f.previewURL }
func (f *StagedFile) Size() int64        { return int64(len(f.data)) }
func (f *StagedFile) Bytes() []byte      { return f.data }
func (f *StagedFile) Open() io.Reader    { return bytes.NewReader(f.data) }

// PreviewIssuer hands out temporary preview URLs for staged files. Every
// issued URL must be revoked exactly once.
type PreviewIssuer interface {
	Issue(f *StagedFile) (string, error)
	Revoke(url string)
}

// Staging holds the files staged by one form, in insertion order
type Staging struct {
	mu     sync.Mutex
	issuer PreviewIssuer
	newID  func() string
	files  []*StagedFile
}

type StagingOption func(*Staging)

// WithIDGenerator replaces the UUID generator of staged file IDs
func WithIDGenerator(gen func() string) StagingOption {
	return func(s *Staging) {
		s.newID = gen
	}
}

// NewStaging creates an empty staging area. issuer may be nil, in which case
// files get no preview URL.
func NewStaging(issuer PreviewIssuer, opts ...StagingOption) *Staging {
	s := &Staging{
		issuer: issuer,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stage validates and stages inputs for an image field. Rejected files are not
// added; the returned message describes the last rejection and is empty when
// every file was accepted. Staging into a single-file field replaces what was
// staged there before.
func (s *Staging) Stage(field config.FieldDefinition, inputs []FileInput) ([]*StagedFile, string) {
	spec := field.Image
	if spec == nil {
		return nil, fmt.Sprintf("%s does not accept files", labelOf(field))
	}

	var accepted []*StagedFile
	var rejection string
	for _, in := range inputs {
		mimeType := in.MimeType
		if mimeType == "" {
			mimeType = http.DetectContentType(in.Data)
		}

		if in.size() > spec.MaxBytes {
			rejection = fmt.Sprintf("File size must be less than %s", humanSize(spec.MaxBytes))
			continue
		}
		if spec.MimePrefix != "" && !strings.HasPrefix(mimeType, spec.MimePrefix) {
			rejection = fmt.Sprintf("Only %s files are allowed", mimeLabel(spec.MimePrefix))
			continue
		}

		accepted = append(accepted, &StagedFile{
			id:       s.newID(),
			field:    field.ID,
			name:     in.Name,
			mimeType: mimeType,
			data:     in.Data,
		})
	}

	if !spec.Multiple && len(accepted) > 1 {
		accepted = accepted[len(accepted)-1:]
	}
	if len(accepted) == 0 {
		return nil, rejection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !spec.Multiple {
		s.removeFieldLocked(field.ID)
	}
	staged := accepted[:0]
	for _, f := range accepted {
		if s.issuer != nil {
			url, err := s.issuer.Issue(f)
			if err != nil {
				rejection = "Failed to prepare file preview"
				continue
			}
			f.previewURL = url
		}
		s.files = append(s.files, f)
		staged = append(staged, f)
	}

	return staged, rejection
}

// Unstage removes a staged file and releases its preview URL
func (s *Staging) Unstage(id string) (*StagedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.id == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			s.release(f)
			return f, true
		}
	}
	return nil, false
}

// RemoveField unstages every file of a field
func (s *Staging) RemoveField(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFieldLocked(field)
}

func (s *Staging) removeFieldLocked(field string) {
	kept := s.files[:0]
	for _, f := range s.files {
		if f.field == field {
			s.release(f)
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(s.files); i++ {
		s.files[i] = nil
	}
	s.files = kept
}

// Reset unstages everything
func (s *Staging) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		s.release(f)
	}
	s.files = nil
}

// Files returns all staged files in insertion order
func (s *Staging) Files() []*StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*StagedFile(nil), s.files...)
}

// FilesFor returns the staged files of one field in insertion order
func (s *Staging) FilesFor(field string) []*StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*StagedFile
	for _, f := range s.files {
		if f.field == field {
			out = append(out, f)
		}
	}
	return out
}

// Get finds a staged file by ID
func (s *Staging) Get(id string) (*StagedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// release revokes the preview of a file that has just left s.files. A file
// leaves the list only once, so its URL is revoked only once.
func (s *Staging) release(f *StagedFile) {
	if s.issuer != nil && f.previewURL != "" {
		s.issuer.Revoke(f.previewURL)
	}
}

func labelOf(f config.FieldDefinition) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	if n >= 1024 && n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}

// mimeLabel turns "image/" into "image" and "image/gif" into "GIF"
func mimeLabel(prefix string) string {
	major, minor, _ := strings.Cut(prefix, "/")
	if minor == "" {
		return major
	}
	return strings.ToUpper(minor)
}
