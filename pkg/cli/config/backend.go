package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/repository/firestore"
	"github.com/grocerly/grocery-admin/pkg/repository/memory"
	"github.com/grocerly/grocery-admin/pkg/repository/rest"
	"github.com/grocerly/grocery-admin/pkg/service/storage"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	BackendMemory    = "memory"
	BackendREST      = "rest"
	BackendFirestore = "firestore"
)

// Backend holds CLI flags selecting where records live
type Backend struct {
	backend string

	restURL     string
	restToken   string
	restTimeout time.Duration

	projectID        string
	databaseID       string
	collectionPrefix string

	gcsBucket string
	gcsPrefix string
	gcsHost   string
}

func (x *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "Record backend [memory|rest|firestore]",
			Category:    "Backend",
			Value:       BackendMemory,
			Sources:     cli.EnvVars("GROCERY_ADMIN_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "rest-url",
			Usage:       "Base URL of the admin REST API (rest backend)",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_REST_URL"),
			Destination: &x.restURL,
		},
		&cli.StringFlag{
			Name:        "rest-token",
			Usage:       "Bearer token for the admin REST API",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_REST_TOKEN"),
			Destination: &x.restToken,
		},
		&cli.DurationFlag{
			Name:        "rest-timeout",
			Usage:       "HTTP client timeout of the REST backend",
			Category:    "Backend",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("GROCERY_ADMIN_REST_TIMEOUT"),
			Destination: &x.restTimeout,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID (firestore backend)",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_FIRESTORE_DATABASE_ID"),
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix of Firestore collection names",
			Category:    "Backend",
			Value:       "grocery",
			Sources:     cli.EnvVars("GROCERY_ADMIN_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &x.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket receiving uploaded images (firestore backend)",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix of uploaded images",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "gcs-public-url",
			Usage:       "Public base URL of uploaded images (default https://storage.googleapis.com)",
			Category:    "Backend",
			Sources:     cli.EnvVars("GROCERY_ADMIN_GCS_PUBLIC_URL"),
			Destination: &x.gcsHost,
		},
	}
}

func (x Backend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("rest_url", x.restURL),
		slog.Int("rest_token.len", len(x.restToken)),
		slog.String("firestore_project_id", x.projectID),
		slog.String("gcs_bucket", x.gcsBucket),
	)
}

// Configure opens the selected backend. The returned function closes it and
// any client it owns.
func (x *Backend) Configure(ctx context.Context) (interfaces.Backend, func(), error) {
	switch x.backend {
	case BackendMemory:
		logging.Default().Info("Using in-memory backend (development mode)")
		return memory.New(), func() {}, nil

	case BackendREST:
		if x.restURL == "" {
			return nil, nil, goerr.Wrap(ErrMissingBackendFlag, "rest-url is required",
				goerr.V(BackendKey, x.backend), goerr.V(FlagKey, "rest-url"))
		}
		opts := []rest.Option{rest.WithTimeout(x.restTimeout)}
		if x.restToken != "" {
			opts = append(opts, rest.WithToken(x.restToken))
		}
		client, err := rest.New(x.restURL, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize REST backend")
		}
		logging.Default().Info("Using REST backend", "url", x.restURL)
		return client, closeWith(client), nil

	case BackendFirestore:
		return x.configureFirestore(ctx)

	default:
		return nil, nil, goerr.Wrap(ErrInvalidBackend, "unknown backend", goerr.V(BackendKey, x.backend))
	}
}

func (x *Backend) configureFirestore(ctx context.Context) (interfaces.Backend, func(), error) {
	if x.projectID == "" {
		return nil, nil, goerr.Wrap(ErrMissingBackendFlag, "firestore-project-id is required",
			goerr.V(BackendKey, x.backend), goerr.V(FlagKey, "firestore-project-id"))
	}

	opts := []firestore.Option{firestore.WithCollectionPrefix(x.collectionPrefix)}
	var assets *storage.AssetStore
	if x.gcsBucket != "" {
		storeOpts := []storage.Option{storage.WithObjectPrefix(x.gcsPrefix)}
		if x.gcsHost != "" {
			storeOpts = append(storeOpts, storage.WithPublicBaseURL(x.gcsHost))
		}
		store, err := storage.New(ctx, x.gcsBucket, storeOpts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize Cloud Storage")
		}
		assets = store
		opts = append(opts, firestore.WithAssetStore(store))
	} else {
		logging.Default().Warn("No Cloud Storage bucket configured, forms with staged files will fail to submit")
	}

	fs, err := firestore.New(ctx, x.projectID, x.databaseID, opts...)
	if err != nil {
		if assets != nil {
			_ = assets.Close()
		}
		return nil, nil, goerr.Wrap(err, "failed to initialize Firestore backend")
	}

	logging.Default().Info("Using Firestore backend",
		"project_id", x.projectID,
		"database_id", x.databaseID,
		"gcs_bucket", x.gcsBucket,
	)

	closer := func() {
		if err := fs.Close(); err != nil {
			logging.Default().Error("failed to close Firestore client", "error", err.Error())
		}
		if assets != nil {
			if err := assets.Close(); err != nil {
				logging.Default().Error("failed to close Cloud Storage client", "error", err.Error())
			}
		}
	}
	return fs, closer, nil
}

func closeWith(b interfaces.Backend) func() {
	return func() {
		if err := b.Close(); err != nil {
			logging.Default().Error("failed to close backend", "error", err.Error())
		}
	}
}
