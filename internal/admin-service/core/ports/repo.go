package ports

import (
	"context"

	"bus-track/internal/admin-service/core/domain/models"
)

type IFleetRepo interface {
	CreateRoute(ctx context.Context, route models.Route) (string, error)
	CreatePickupPoint(ctx context.Context, point models.PickupPoint) (string, error)
	CreateBus(ctx context.Context, bus models.Bus) (string, error)
	AssignDriver(ctx context.Context, driverUserID, busID string) error
	CreateStudent(ctx context.Context, student models.Student) (string, error)
	Overview(ctx context.Context) ([]models.BusOverview, error)
}
