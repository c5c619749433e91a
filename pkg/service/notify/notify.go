// Package notify delivers form-level notifications outside the form itself.
package notify

import (
	"context"
	"errors"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
)

// Multi fans a notification out to every notifier. All notifiers are called;
// their errors are joined.
type Multi []interfaces.Notifier

var _ interfaces.Notifier = Multi{}

func (m Multi) Notify(ctx context.Context, n *model.Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
