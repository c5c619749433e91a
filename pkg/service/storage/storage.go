// Package storage uploads staged files to Cloud Storage.
package storage

import (
	"context"
	"io"
	"net/url"
	"path"

	"cloud.google.com/go/storage"
	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// AssetStore writes each staged file as one object and returns its public URL
type AssetStore struct {
	client        *storage.Client
	bucket        string
	prefix        string
	publicBaseURL string
	clientOptions []option.ClientOption
}

var _ interfaces.AssetStore = &AssetStore{}

type Option func(*AssetStore)

// WithObjectPrefix puts every object under prefix
func WithObjectPrefix(prefix string) Option {
	return func(s *AssetStore) {
		s.prefix = prefix
	}
}

// WithPublicBaseURL replaces https://storage.googleapis.com, e.g. with a CDN host
func WithPublicBaseURL(base string) Option {
	return func(s *AssetStore) {
		s.publicBaseURL = base
	}
}

func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *AssetStore) {
		s.clientOptions = append(s.clientOptions, opts...)
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*AssetStore, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	s := &AssetStore{
		bucket:        bucket,
		publicBaseURL: defaultPublicBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	client, err := storage.NewClient(ctx, s.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client", goerr.V("bucket", bucket))
	}
	s.client = client

	return s, nil
}

func (s *AssetStore) Put(ctx context.Context, resource types.Resource, file *model.StagedFile) (string, error) {
	name := s.objectName(resource, file)

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = file.MimeType()

	if _, err := io.Copy(w, file.Open()); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", s.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", s.bucket), goerr.V("object", name))
	}

	logging.From(ctx).Debug("uploaded staged file",
		"bucket", s.bucket,
		"object", name,
		"size", file.Size())

	return s.publicURL(name), nil
}

func (s *AssetStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// objectName is <prefix>/<resource>/<file id>/<file name>
func (s *AssetStore) objectName(resource types.Resource, file *model.StagedFile) string {
	base := path.Base(file.Name())
	if base == "." || base == "/" {
		base = "file"
	}
	return path.Join(s.prefix, string(resource), file.ID(), base)
}

func (s *AssetStore) publicURL(object string) string {
	u, err := url.JoinPath(s.publicBaseURL, s.bucket, object)
	if err != nil {
		return s.publicBaseURL + "/" + s.bucket + "/" + object
	}
	return u
}
