package db

import (
	"context"
	"errors"
	"fmt"

	"bus-track/internal/admin-service/core/domain/models"
	"bus-track/internal/admin-service/core/myerrors"
	"bus-track/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type FleetRepo struct {
	db *database.DataBase
}

func NewFleetRepo(db *database.DataBase) *FleetRepo {
	return &FleetRepo{
		db: db,
	}
}

func (fr *FleetRepo) CreateRoute(ctx context.Context, route models.Route) (string, error) {
	id := uuid.NewString()
	q := `INSERT INTO routes (id, name) VALUES ($1, $2)`
	if _, err := fr.db.Pool().Exec(ctx, q, id, route.Name); err != nil {
		return "", fmt.Errorf("failed to insert route: %v", err)
	}
	return id, nil
}

func (fr *FleetRepo) CreatePickupPoint(ctx context.Context, point models.PickupPoint) (string, error) {
	id := uuid.NewString()
	q := `
		INSERT INTO pickup_points (id, route_id, name, lat, lng, stop_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := fr.db.Pool().Exec(ctx, q, id, point.RouteID, point.Name, point.Lat, point.Lng, point.Order); err != nil {
		if isForeignKeyViolation(err) {
			return "", myerrors.ErrRouteNotFound
		}
		return "", fmt.Errorf("failed to insert pickup point: %v", err)
	}
	return id, nil
}

func (fr *FleetRepo) CreateBus(ctx context.Context, bus models.Bus) (string, error) {
	id := uuid.NewString()

	var routeID any
	if bus.RouteID != "" {
		routeID = bus.RouteID
	}

	q := `INSERT INTO buses (id, code, route_id) VALUES ($1, $2, $3)`
	if _, err := fr.db.Pool().Exec(ctx, q, id, bus.Code, routeID); err != nil {
		if isForeignKeyViolation(err) {
			return "", myerrors.ErrRouteNotFound
		}
		return "", fmt.Errorf("failed to insert bus: %v", err)
	}
	return id, nil
}

// AssignDriver points the driver profile at the bus. A driver holds at most
// one bus, so assignment is an update, not an insert.
func (fr *FleetRepo) AssignDriver(ctx context.Context, driverUserID, busID string) error {
	q := `UPDATE driver_profiles SET bus_id = $1 WHERE user_id = $2`
	tag, err := fr.db.Pool().Exec(ctx, q, busID, driverUserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return myerrors.ErrBusNotFound
		}
		return fmt.Errorf("failed to assign driver: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverNotFound
	}
	return nil
}

// CreateStudent resolves the parent profile by user id first so an unknown
// parent surfaces as a not-found error rather than a constraint violation.
func (fr *FleetRepo) CreateStudent(ctx context.Context, student models.Student) (string, error) {
	var parentID string
	err := fr.db.Pool().QueryRow(ctx,
		`SELECT id FROM parent_profiles WHERE user_id = $1`, student.ParentUserID).Scan(&parentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", myerrors.ErrParentNotFound
		}
		return "", fmt.Errorf("failed to load parent profile: %v", err)
	}

	id := uuid.NewString()
	q := `
		INSERT INTO students (id, name, parent_id, bus_id, pickup_point_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := fr.db.Pool().Exec(ctx, q, id, student.Name, parentID, student.BusID, student.PickupPointID); err != nil {
		if isForeignKeyViolation(err) {
			return "", myerrors.ErrPickupPointNotFound
		}
		return "", fmt.Errorf("failed to insert student: %v", err)
	}
	return id, nil
}

func (fr *FleetRepo) Overview(ctx context.Context) ([]models.BusOverview, error) {
	q := `
		SELECT b.id, b.code, COALESCE(r.name, ''), COALESCE(u.email, '')
		FROM buses b
		LEFT JOIN routes r ON r.id = b.route_id
		LEFT JOIN driver_profiles dp ON dp.bus_id = b.id
		LEFT JOIN users u ON u.id = dp.user_id
		ORDER BY b.code
	`

	rows, err := fr.db.Pool().Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query fleet overview: %v", err)
	}
	defer rows.Close()

	overview := make([]models.BusOverview, 0)
	for rows.Next() {
		var row models.BusOverview
		if err := rows.Scan(&row.BusID, &row.Code, &row.RouteName, &row.DriverEmail); err != nil {
			return nil, fmt.Errorf("failed to scan fleet overview row: %v", err)
		}
		overview = append(overview, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overview, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // foreign_key_violation
}
