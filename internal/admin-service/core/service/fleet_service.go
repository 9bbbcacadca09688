package service

import (
	"context"
	"errors"
	"fmt"

	"bus-track/internal/admin-service/core/domain/dto"
	"bus-track/internal/admin-service/core/domain/models"
	"bus-track/internal/admin-service/core/myerrors"
	"bus-track/internal/admin-service/core/ports"
	"bus-track/internal/mylogger"
)

type FleetService struct {
	fleetRepo ports.IFleetRepo
	mylog     mylogger.Logger
}

func NewFleetService(fleetRepo ports.IFleetRepo, mylog mylogger.Logger) *FleetService {
	return &FleetService{
		fleetRepo: fleetRepo,
		mylog:     mylog,
	}
}

func (fs *FleetService) CreateRoute(ctx context.Context, req dto.CreateRouteRequest) (models.Route, error) {
	route := models.Route{Name: req.Name}

	id, err := fs.fleetRepo.CreateRoute(ctx, route)
	if err != nil {
		fs.mylog.Action("CreateRoute").Error("Failed to save route in db", err)
		return models.Route{}, fmt.Errorf("cannot save route in db: %w", err)
	}

	route.ID = id
	return route, nil
}

func (fs *FleetService) CreatePickupPoint(ctx context.Context, req dto.CreatePickupPointRequest) (models.PickupPoint, error) {
	mylog := fs.mylog.Action("CreatePickupPoint")

	point := models.PickupPoint{
		RouteID: req.RouteID,
		Name:    req.Name,
		Lat:     *req.Lat,
		Lng:     *req.Lng,
		Order:   *req.Order,
	}

	id, err := fs.fleetRepo.CreatePickupPoint(ctx, point)
	if err != nil {
		if errors.Is(err, myerrors.ErrRouteNotFound) {
			mylog.Warn("Failed to create pickup point, unknown route", "route_id", req.RouteID)
			return models.PickupPoint{}, err
		}
		mylog.Error("Failed to save pickup point in db", err)
		return models.PickupPoint{}, fmt.Errorf("cannot save pickup point in db: %w", err)
	}

	point.ID = id
	return point, nil
}

func (fs *FleetService) CreateBus(ctx context.Context, req dto.CreateBusRequest) (models.Bus, error) {
	mylog := fs.mylog.Action("CreateBus")

	bus := models.Bus{Code: req.Code, RouteID: req.RouteID}

	id, err := fs.fleetRepo.CreateBus(ctx, bus)
	if err != nil {
		if errors.Is(err, myerrors.ErrRouteNotFound) {
			mylog.Warn("Failed to create bus, unknown route", "route_id", req.RouteID)
			return models.Bus{}, err
		}
		mylog.Error("Failed to save bus in db", err)
		return models.Bus{}, fmt.Errorf("cannot save bus in db: %w", err)
	}

	bus.ID = id
	return bus, nil
}

func (fs *FleetService) AssignDriver(ctx context.Context, req dto.AssignDriverRequest) error {
	mylog := fs.mylog.Action("AssignDriver")

	if err := fs.fleetRepo.AssignDriver(ctx, req.DriverUserID, req.BusID); err != nil {
		if errors.Is(err, myerrors.ErrDriverNotFound) {
			mylog.Warn("Failed to assign driver, unknown driver", "driver_user_id", req.DriverUserID)
			return err
		}
		mylog.Error("Failed to assign driver", err)
		return fmt.Errorf("cannot assign driver: %w", err)
	}

	mylog.Info("Driver assigned", "driver_user_id", req.DriverUserID, "bus_id", req.BusID)
	return nil
}

func (fs *FleetService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (models.Student, error) {
	mylog := fs.mylog.Action("CreateStudent")

	student := models.Student{
		Name:          req.Name,
		ParentUserID:  req.ParentUserID,
		BusID:         req.BusID,
		PickupPointID: req.PickupPointID,
	}

	id, err := fs.fleetRepo.CreateStudent(ctx, student)
	if err != nil {
		if errors.Is(err, myerrors.ErrParentNotFound) {
			mylog.Warn("Failed to create student, unknown parent", "parent_user_id", req.ParentUserID)
			return models.Student{}, err
		}
		mylog.Error("Failed to save student in db", err)
		return models.Student{}, fmt.Errorf("cannot save student in db: %w", err)
	}

	student.ID = id
	return student, nil
}

func (fs *FleetService) Overview(ctx context.Context) ([]models.BusOverview, error) {
	overview, err := fs.fleetRepo.Overview(ctx)
	if err != nil {
		fs.mylog.Action("Overview").Error("Failed to load fleet overview", err)
		return nil, fmt.Errorf("cannot load fleet overview: %w", err)
	}
	return overview, nil
}
