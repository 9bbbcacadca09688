package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bus-track/internal/database"
	"bus-track/internal/tracking-service/core/domain/models"
	"bus-track/internal/tracking-service/core/myerrors"

	"github.com/jackc/pgx/v5"
)

type TrackingRepo struct {
	db *database.DataBase
}

func NewTrackingRepo(db *database.DataBase) *TrackingRepo {
	return &TrackingRepo{
		db: db,
	}
}

func (tr *TrackingRepo) GetAssignedBus(ctx context.Context, driverUserID string) (string, error) {
	q := `SELECT bus_id FROM driver_profiles WHERE user_id = $1`

	var busID *string
	err := tr.db.Pool().QueryRow(ctx, q, driverUserID).Scan(&busID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", myerrors.ErrNoBusAssigned
		}
		return "", fmt.Errorf("query driver assignment: %w", err)
	}
	if busID == nil || *busID == "" {
		return "", myerrors.ErrNoBusAssigned
	}
	return *busID, nil
}

func (tr *TrackingRepo) CreateBusLocation(ctx context.Context, loc models.BusLocation) error {
	q := `
		INSERT INTO bus_locations (id, bus_id, lat, lng, speed_kph, heading, accuracy_m, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tr.db.Pool().Exec(ctx, q,
		loc.ID, loc.BusID, loc.Lat, loc.Lng, loc.SpeedKph, loc.Heading, loc.AccuracyM, loc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert bus location: %w", err)
	}
	return nil
}

func (tr *TrackingRepo) LatestBusLocation(ctx context.Context, busID string) (*models.BusLocation, error) {
	q := `
		SELECT id, bus_id, lat, lng, speed_kph, heading, accuracy_m, created_at
		FROM bus_locations
		WHERE bus_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var loc models.BusLocation
	err := tr.db.Pool().QueryRow(ctx, q, busID).Scan(
		&loc.ID, &loc.BusID, &loc.Lat, &loc.Lng, &loc.SpeedKph, &loc.Heading, &loc.AccuracyM, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest bus location: %w", err)
	}
	return &loc, nil
}

const studentColumns = `
	s.id, s.name, s.bus_id, b.code, par.user_id,
	p.id, p.route_id, p.name, p.lat, p.lng, p.stop_order
`

func (tr *TrackingRepo) ListStudentsByBus(ctx context.Context, busID string) ([]models.Student, error) {
	q := `
		SELECT ` + studentColumns + `
		FROM students s
		JOIN pickup_points p ON p.id = s.pickup_point_id
		JOIN parent_profiles par ON par.id = s.parent_id
		JOIN buses b ON b.id = s.bus_id
		WHERE s.bus_id = $1
	`

	rows, err := tr.db.Pool().Query(ctx, q, busID)
	if err != nil {
		return nil, fmt.Errorf("query students by bus: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (tr *TrackingRepo) ListStudentsByParent(ctx context.Context, parentUserID string) ([]models.Student, error) {
	var parentID string
	err := tr.db.Pool().QueryRow(ctx,
		`SELECT id FROM parent_profiles WHERE user_id = $1`, parentUserID).Scan(&parentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, myerrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("query parent profile: %w", err)
	}

	q := `
		SELECT ` + studentColumns + `
		FROM students s
		JOIN pickup_points p ON p.id = s.pickup_point_id
		JOIN parent_profiles par ON par.id = s.parent_id
		JOIN buses b ON b.id = s.bus_id
		WHERE s.parent_id = $1
	`

	rows, err := tr.db.Pool().Query(ctx, q, parentID)
	if err != nil {
		return nil, fmt.Errorf("query students by parent: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

func (tr *TrackingRepo) GetStudentOnBus(ctx context.Context, studentID, busID string) (models.Student, error) {
	q := `
		SELECT ` + studentColumns + `
		FROM students s
		JOIN pickup_points p ON p.id = s.pickup_point_id
		JOIN parent_profiles par ON par.id = s.parent_id
		JOIN buses b ON b.id = s.bus_id
		WHERE s.id = $1 AND s.bus_id = $2
	`

	var s models.Student
	err := tr.db.Pool().QueryRow(ctx, q, studentID, busID).Scan(
		&s.ID, &s.Name, &s.BusID, &s.BusCode, &s.ParentUserID,
		&s.PickupPoint.ID, &s.PickupPoint.RouteID, &s.PickupPoint.Name,
		&s.PickupPoint.Lat, &s.PickupPoint.Lng, &s.PickupPoint.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Student{}, myerrors.ErrStudentNotOnBus
		}
		return models.Student{}, fmt.Errorf("query student on bus: %w", err)
	}
	return s, nil
}

func (tr *TrackingRepo) CreateNotificationEvent(ctx context.Context, ev models.NotificationEvent) error {
	meta, err := json.Marshal(ev.Meta)
	if err != nil {
		return fmt.Errorf("marshal notification meta: %w", err)
	}

	q := `
		INSERT INTO notification_events (id, user_id, kind, title, body, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tr.db.Pool().Exec(ctx, q, ev.ID, ev.UserID, ev.Kind, ev.Title, ev.Body, meta, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification event: %w", err)
	}
	return nil
}

func (tr *TrackingRepo) ListNotifications(ctx context.Context, userID string, limit int) ([]models.NotificationEvent, error) {
	q := `
		SELECT id, user_id, kind, title, body, meta, created_at
		FROM notification_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := tr.db.Pool().Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var events []models.NotificationEvent
	for rows.Next() {
		var ev models.NotificationEvent
		var meta []byte
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Kind, &ev.Title, &ev.Body, &meta, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification event: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &ev.Meta); err != nil {
				return nil, fmt.Errorf("unmarshal notification meta: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (tr *TrackingRepo) CreateAttendanceEvent(ctx context.Context, ev models.AttendanceEvent) error {
	q := `
		INSERT INTO attendance_events (id, student_id, bus_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tr.db.Pool().Exec(ctx, q, ev.ID, ev.StudentID, ev.BusID, ev.Type, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attendance event: %w", err)
	}
	return nil
}

func scanStudents(rows pgx.Rows) ([]models.Student, error) {
	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(
			&s.ID, &s.Name, &s.BusID, &s.BusCode, &s.ParentUserID,
			&s.PickupPoint.ID, &s.PickupPoint.RouteID, &s.PickupPoint.Name,
			&s.PickupPoint.Lat, &s.PickupPoint.Lng, &s.PickupPoint.Order,
		); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
