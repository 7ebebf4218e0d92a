package interfaces

import (
	"context"

	"github.com/m-mizutani/releasor/pkg/domain/model"
)

// Notifier announces a finished release
type Notifier interface {
	Notify(ctx context.Context, n *model.ReleaseNotification) error
}
