package storage

import (
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

// NewForTest builds an AssetStore without a client for naming tests
func NewForTest(bucket string, opts ...Option) *AssetStore {
	s := &AssetStore{bucket: bucket, publicBaseURL: defaultPublicBaseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AssetStore) ObjectName(resource types.Resource, file *model.StagedFile) string {
	return s.objectName(resource, file)
}

func (s *AssetStore) PublicURL(object string) string {
	return s.publicURL(object)
}
