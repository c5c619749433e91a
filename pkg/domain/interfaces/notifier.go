package interfaces

import (
	"context"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
)

// Notifier delivers form-level notifications outside the form itself
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}
