package interfaces

import (
	"context"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
)

// AssetStore uploads staged files and returns the public URL of each
type AssetStore interface {
	Put(ctx context.Context, resource types.Resource, file *model.StagedFile) (string, error)
}
