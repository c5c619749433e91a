package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Firestore is a Backend storing one collection per resource. Staged files are
// uploaded through an AssetStore and replaced by their URLs.
type Firestore struct {
	client           *firestore.Client
	assets           interfaces.AssetStore
	collectionPrefix string
	clientOptions    []option.ClientOption
}

var _ interfaces.Backend = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

// WithAssetStore sets where staged files are uploaded. Without it, writes
// carrying files fail.
func WithAssetStore(store interfaces.AssetStore) Option {
	return func(f *Firestore) {
		f.assets = store
	}
}

// WithClientOptions passes options such as credentials to the Firestore client
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(f *Firestore) {
		f.clientOptions = append(f.clientOptions, opts...)
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	f := &Firestore{}
	for _, opt := range opts {
		opt(f)
	}

	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, f.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}
	f.client = client

	return f, nil
}

func (f *Firestore) Records(schema *config.FormSchema) interfaces.RecordAccess {
	return &recordCollection{
		client:           f.client,
		assets:           f.assets,
		schema:           schema,
		collectionPrefix: f.collectionPrefix,
	}
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
