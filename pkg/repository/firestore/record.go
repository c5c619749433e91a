package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrNoAssetStore = goerr.New("no asset store configured")

const (
	createdAtField = "created_at"
	updatedAtField = "updated_at"
)

type recordCollection struct {
	client           *firestore.Client
	assets           interfaces.AssetStore
	schema           *config.FormSchema
	collectionPrefix string
}

func (r *recordCollection) collection() string {
	name := strings.ReplaceAll(r.schema.Resource.String(), "-", "_")
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_" + name
	}
	return name
}

// wrap classifies a Firestore error as a collaborator error
func (r *recordCollection) wrap(err error, msg string, id string) error {
	opts := []goerr.Option{goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.RecordIDKey, id)}

	switch {
	case status.Code(err) == codes.NotFound:
		return goerr.Wrap(model.ErrNotFound, msg, opts...)
	case status.Code(err) == codes.DeadlineExceeded, errors.Is(err, context.DeadlineExceeded):
		return goerr.Wrap(model.ErrTimeout, msg, append(opts, goerr.V(model.CauseKey, err.Error()))...)
	default:
		return goerr.Wrap(model.ErrTransport, msg, append(opts, goerr.V(model.CauseKey, err.Error()))...)
	}
}

func (r *recordCollection) upload(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error) {
	if len(files) == 0 {
		return record.Clone(), nil
	}
	if r.assets == nil {
		return nil, goerr.Wrap(model.ErrTransport, "cannot store files",
			goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.CauseKey, ErrNoAssetStore.Error()))
	}

	out, err := model.AttachUploads(r.schema, record, files, func(f *model.StagedFile) (string, error) {
		return r.assets.Put(ctx, r.schema.Resource, f)
	})
	if err != nil {
		return nil, goerr.Wrap(model.ErrTransport, "failed to upload files",
			goerr.V(model.ResourceKey, r.schema.Resource), goerr.V(model.CauseKey, err.Error()))
	}
	return out, nil
}

func (r *recordCollection) FetchByID(ctx context.Context, id string) (model.Record, error) {
	doc, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		return nil, r.wrap(err, "failed to get record", id)
	}
	return toRecord(doc.Data()), nil
}

func (r *recordCollection) FetchAll(ctx context.Context) ([]model.Record, error) {
	iter := r.client.Collection(r.collection()).OrderBy(createdAtField, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []model.Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, r.wrap(err, "failed to iterate records", "")
		}
		records = append(records, toRecord(doc.Data()))
	}
	return records, nil
}

func (r *recordCollection) Create(ctx context.Context, record model.Record, files []*model.StagedFile) (model.Record, error) {
	data, err := r.upload(ctx, record, files)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	data[r.schema.IDKey()] = id
	data[createdAtField] = now
	data[updatedAtField] = now

	if _, err := r.client.Collection(r.collection()).Doc(id).Create(ctx, map[string]any(data)); err != nil {
		return nil, r.wrap(err, "failed to create record", id)
	}
	return toRecord(data), nil
}

func (r *recordCollection) Update(ctx context.Context, id string, record model.Record, files []*model.StagedFile) (model.Record, error) {
	docRef := r.client.Collection(r.collection()).Doc(id)
	if _, err := docRef.Get(ctx); err != nil {
		return nil, r.wrap(err, "failed to get record", id)
	}

	data, err := r.upload(ctx, record, files)
	if err != nil {
		return nil, err
	}
	data[r.schema.IDKey()] = id
	data[updatedAtField] = time.Now().UTC()
	delete(data, createdAtField)

	if _, err := docRef.Set(ctx, map[string]any(data), firestore.MergeAll); err != nil {
		return nil, r.wrap(err, "failed to update record", id)
	}

	return r.FetchByID(ctx, id)
}

func (r *recordCollection) Delete(ctx context.Context, id string) error {
	docRef := r.client.Collection(r.collection()).Doc(id)
	if _, err := docRef.Get(ctx); err != nil {
		return r.wrap(err, "failed to get record", id)
	}
	if _, err := docRef.Delete(ctx); err != nil {
		return r.wrap(err, "failed to delete record", id)
	}
	return nil
}

// toRecord converts Firestore values to the scalar shapes Record expects
func toRecord(data map[string]any) model.Record {
	out := make(model.Record, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case time.Time:
			out[k] = val.UTC().Format(time.RFC3339Nano)
		case int64:
			out[k] = float64(val)
		case []any:
			var ss []string
			for _, item := range val {
				if s, ok := item.(string); ok {
					ss = append(ss, s)
				}
			}
			out[k] = ss
		default:
			out[k] = v
		}
	}
	return out
}
