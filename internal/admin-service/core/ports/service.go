package ports

import (
	"context"

	"bus-track/internal/admin-service/core/domain/dto"
	"bus-track/internal/admin-service/core/domain/models"
)

type IFleetService interface {
	CreateRoute(ctx context.Context, req dto.CreateRouteRequest) (models.Route, error)
	CreatePickupPoint(ctx context.Context, req dto.CreatePickupPointRequest) (models.PickupPoint, error)
	CreateBus(ctx context.Context, req dto.CreateBusRequest) (models.Bus, error)
	AssignDriver(ctx context.Context, req dto.AssignDriverRequest) error
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error)
	Overview(ctx context.Context) ([]models.BusOverview, error)
}
