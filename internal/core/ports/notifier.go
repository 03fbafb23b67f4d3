package ports

import (
	"context"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"
)

// Notifier sends fire and forget notification requests. Errors are
// reported to the caller for logging only; order state is never rolled back
// because of them.
type Notifier interface {
	Notify(ctx context.Context, request order.NotificationRequest) error
}
