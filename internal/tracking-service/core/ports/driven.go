package ports

import (
	"context"
	"time"

	"bus-track/internal/tracking-service/core/domain/models"
)

type ITrackingRepo interface {
	// GetAssignedBus resolves the bus currently assigned to a driver user.
	// Returns myerrors.ErrNoBusAssigned when the driver has none.
	GetAssignedBus(ctx context.Context, driverUserID string) (string, error)
	CreateBusLocation(ctx context.Context, loc models.BusLocation) error
	LatestBusLocation(ctx context.Context, busID string) (*models.BusLocation, error)
	ListStudentsByBus(ctx context.Context, busID string) ([]models.Student, error)
	ListStudentsByParent(ctx context.Context, parentUserID string) ([]models.Student, error)
	GetStudentOnBus(ctx context.Context, studentID, busID string) (models.Student, error)
	CreateNotificationEvent(ctx context.Context, ev models.NotificationEvent) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.NotificationEvent, error)
	CreateAttendanceEvent(ctx context.Context, ev models.AttendanceEvent) error
}

// IBusBroker publishes telemetry to the message broker. Best-effort: callers
// log failures and move on.
type IBusBroker interface {
	PublishJSON(ctx context.Context, routingKey string, msg any) error
}

// IRoomHub is the group-scoped broadcast capability. Delivery is
// fire-and-forget with no acknowledgment.
type IRoomHub interface {
	Broadcast(room, event string, payload any)
}

// CooldownStore tracks the last emission per dedupe key. TryClaim stamps the
// key and reports true when the window has elapsed since the previous claim,
// atomically, so concurrent dispatches cannot both pass.
type CooldownStore interface {
	TryClaim(key string, now time.Time, window time.Duration) bool
}
