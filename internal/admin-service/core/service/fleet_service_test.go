package service

import (
	"context"
	"errors"
	"testing"

	"bus-track/internal/admin-service/core/domain/dto"
	"bus-track/internal/admin-service/core/domain/models"
	"bus-track/internal/admin-service/core/myerrors"
	"bus-track/internal/mylogger"
)

type mockFleetRepo struct {
	createRouteFn       func(ctx context.Context, route models.Route) (string, error)
	createPickupPointFn func(ctx context.Context, point models.PickupPoint) (string, error)
	createBusFn         func(ctx context.Context, bus models.Bus) (string, error)
	assignDriverFn      func(ctx context.Context, driverUserID, busID string) error
	createStudentFn     func(ctx context.Context, student models.Student) (string, error)
	overviewFn          func(ctx context.Context) ([]models.BusOverview, error)
}

func (m *mockFleetRepo) CreateRoute(ctx context.Context, route models.Route) (string, error) {
	return m.createRouteFn(ctx, route)
}

func (m *mockFleetRepo) CreatePickupPoint(ctx context.Context, point models.PickupPoint) (string, error) {
	return m.createPickupPointFn(ctx, point)
}

func (m *mockFleetRepo) CreateBus(ctx context.Context, bus models.Bus) (string, error) {
	return m.createBusFn(ctx, bus)
}

func (m *mockFleetRepo) AssignDriver(ctx context.Context, driverUserID, busID string) error {
	return m.assignDriverFn(ctx, driverUserID, busID)
}

func (m *mockFleetRepo) CreateStudent(ctx context.Context, student models.Student) (string, error) {
	return m.createStudentFn(ctx, student)
}

func (m *mockFleetRepo) Overview(ctx context.Context) ([]models.BusOverview, error) {
	return m.overviewFn(ctx)
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }

func TestCreatePickupPointCarriesFields(t *testing.T) {
	var got models.PickupPoint
	repo := &mockFleetRepo{
		createPickupPointFn: func(_ context.Context, point models.PickupPoint) (string, error) {
			got = point
			return "pp-1", nil
		},
	}
	svc := NewFleetService(repo, mylogger.New("test", mylogger.LevelError))

	point, err := svc.CreatePickupPoint(context.Background(), dto.CreatePickupPointRequest{
		RouteID: "route-1",
		Name:    "Main St",
		Lat:     fptr(43.25),
		Lng:     fptr(76.95),
		Order:   iptr(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.ID != "pp-1" {
		t.Errorf("expected assigned id pp-1, got %s", point.ID)
	}
	if got.RouteID != "route-1" || got.Name != "Main St" || got.Lat != 43.25 || got.Lng != 76.95 || got.Order != 2 {
		t.Errorf("pickup point fields not carried through: %+v", got)
	}
}

func TestCreatePickupPointUnknownRoute(t *testing.T) {
	repo := &mockFleetRepo{
		createPickupPointFn: func(_ context.Context, _ models.PickupPoint) (string, error) {
			return "", myerrors.ErrRouteNotFound
		},
	}
	svc := NewFleetService(repo, mylogger.New("test", mylogger.LevelError))

	_, err := svc.CreatePickupPoint(context.Background(), dto.CreatePickupPointRequest{
		RouteID: "missing",
		Name:    "Main St",
		Lat:     fptr(0),
		Lng:     fptr(0),
		Order:   iptr(0),
	})
	if !errors.Is(err, myerrors.ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestAssignDriverUnknownDriver(t *testing.T) {
	repo := &mockFleetRepo{
		assignDriverFn: func(_ context.Context, _, _ string) error {
			return myerrors.ErrDriverNotFound
		},
	}
	svc := NewFleetService(repo, mylogger.New("test", mylogger.LevelError))

	err := svc.AssignDriver(context.Background(), dto.AssignDriverRequest{
		DriverUserID: "driver-1",
		BusID:        "bus-1",
	})
	if !errors.Is(err, myerrors.ErrDriverNotFound) {
		t.Fatalf("expected ErrDriverNotFound, got %v", err)
	}
}

func TestCreateStudentUnknownParent(t *testing.T) {
	repo := &mockFleetRepo{
		createStudentFn: func(_ context.Context, _ models.Student) (string, error) {
			return "", myerrors.ErrParentNotFound
		},
	}
	svc := NewFleetService(repo, mylogger.New("test", mylogger.LevelError))

	_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
		Name:          "Aruzhan",
		ParentUserID:  "parent-1",
		BusID:         "bus-1",
		PickupPointID: "pp-1",
	})
	if !errors.Is(err, myerrors.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}
