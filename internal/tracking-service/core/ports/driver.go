package ports

import (
	"context"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/models"
)

type ITrackingService interface {
	UpdateLocation(ctx context.Context, driverUserID string, req dto.LocationUpdate) (dto.LocationAck, error)
	RecordAttendance(ctx context.Context, driverUserID string, req dto.AttendanceRequest) (models.AttendanceEvent, error)
	StudentsOfParent(ctx context.Context, parentUserID string) ([]models.Student, error)
	LatestLocation(ctx context.Context, busID string) (*models.BusLocation, error)
	Notifications(ctx context.Context, userID string) ([]models.NotificationEvent, error)
}

type INotifier interface {
	// Dispatch creates and emits a notification. A nil event with nil error
	// means the cooldown suppressed it.
	Dispatch(ctx context.Context, userID, kind, title, body string, meta map[string]any, dedupeKey string) (*models.NotificationEvent, error)
}
