package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/models"
	"bus-track/internal/tracking-service/core/domain/websocketdto"
	"bus-track/internal/tracking-service/core/ports"

	"github.com/google/uuid"
)

// Proximity thresholds in meters, boundaries inclusive. Arrived wins over
// approaching by being checked first.
const (
	ArrivedRadiusMeters     = 200
	ApproachingRadiusMeters = 1000
)

const notificationsPageSize = 50

type TrackingService struct {
	repo     ports.ITrackingRepo
	hub      ports.IRoomHub
	broker   ports.IBusBroker
	notifier ports.INotifier
	log      mylogger.Logger
	now      func() time.Time
}

func NewTrackingService(repo ports.ITrackingRepo, hub ports.IRoomHub, broker ports.IBusBroker, notifier ports.INotifier, log mylogger.Logger) *TrackingService {
	return &TrackingService{
		repo:     repo,
		hub:      hub,
		broker:   broker,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// UpdateLocation persists and fans out a driver's position report, then
// evaluates every student on the bus against their pickup point. The request
// succeeds once the sample is stored and broadcast; student evaluation is
// best-effort enrichment.
func (ts *TrackingService) UpdateLocation(ctx context.Context, driverUserID string, req dto.LocationUpdate) (dto.LocationAck, error) {
	log := ts.log.Action("UpdateLocation")

	busID, err := ts.repo.GetAssignedBus(ctx, driverUserID)
	if err != nil {
		return dto.LocationAck{}, err
	}

	createdAt := ts.now()
	if req.Timestamp != nil {
		createdAt = *req.Timestamp
	}

	loc := models.BusLocation{
		ID:        uuid.NewString(),
		BusID:     busID,
		Lat:       *req.Lat,
		Lng:       *req.Lng,
		SpeedKph:  req.SpeedKph,
		Heading:   req.Heading,
		AccuracyM: req.AccuracyM,
		CreatedAt: createdAt,
	}

	if err := ts.repo.CreateBusLocation(ctx, loc); err != nil {
		return dto.LocationAck{}, fmt.Errorf("cannot save bus location: %w", err)
	}

	message := websocketdto.BusLocationMessage{
		BusID:     loc.BusID,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		SpeedKph:  loc.SpeedKph,
		Heading:   loc.Heading,
		AccuracyM: loc.AccuracyM,
		CreatedAt: loc.CreatedAt,
	}
	ts.hub.Broadcast(websocketdto.BusRoom(busID), websocketdto.TypeBusLocation, message)

	if err := ts.broker.PublishJSON(ctx, "bus.location."+busID, message); err != nil {
		log.Error("cannot publish location to broker", err, "bus_id", busID)
	}

	ts.evaluateStudents(ctx, busID, loc)

	return dto.LocationAck{
		Ok:         true,
		LocationID: loc.ID,
		CreatedAt:  loc.CreatedAt,
	}, nil
}

// evaluateStudents dispatches proximity notifications per student. One
// student's failure never blocks the next.
func (ts *TrackingService) evaluateStudents(ctx context.Context, busID string, loc models.BusLocation) {
	log := ts.log.Action("evaluateStudents")

	students, err := ts.repo.ListStudentsByBus(ctx, busID)
	if err != nil {
		log.Error("cannot load students for bus", err, "bus_id", busID)
		return
	}

	for _, s := range students {
		dist := Haversine(loc.Coordinate(), s.PickupPoint.Coordinate())
		distM := int(math.Round(dist))

		meta := map[string]any{
			"busId":         busID,
			"studentId":     s.ID,
			"pickupPointId": s.PickupPoint.ID,
			"distanceM":     distM,
		}

		var dispatchErr error
		switch classifyProximity(dist) {
		case models.KindBusArrived:
			_, dispatchErr = ts.notifier.Dispatch(ctx, s.ParentUserID, models.KindBusArrived,
				"Bus arrived",
				fmt.Sprintf("%s's bus has arrived near %s.", s.Name, s.PickupPoint.Name),
				meta,
				"arrived:"+s.PickupPoint.ID,
			)
		case models.KindBusNearPickup:
			_, dispatchErr = ts.notifier.Dispatch(ctx, s.ParentUserID, models.KindBusNearPickup,
				"Bus is near pickup",
				fmt.Sprintf("%s's bus is about %dm from %s.", s.Name, distM, s.PickupPoint.Name),
				meta,
				"near:"+s.PickupPoint.ID,
			)
		}
		if dispatchErr != nil {
			log.Error("cannot dispatch proximity notification", dispatchErr, "student_id", s.ID)
		}
	}
}

// classifyProximity maps a distance in meters to a notification kind, or ""
// when the bus is too far to matter. Arrived is checked first; a sample is
// never both.
func classifyProximity(dist float64) string {
	switch {
	case dist <= ArrivedRadiusMeters:
		return models.KindBusArrived
	case dist <= ApproachingRadiusMeters:
		return models.KindBusNearPickup
	default:
		return ""
	}
}

// RecordAttendance stores a boarding/drop-off event for a student on the
// driver's bus, notifies the guardian on boarding, and fans the event out to
// the bus room.
func (ts *TrackingService) RecordAttendance(ctx context.Context, driverUserID string, req dto.AttendanceRequest) (models.AttendanceEvent, error) {
	log := ts.log.Action("RecordAttendance")

	busID, err := ts.repo.GetAssignedBus(ctx, driverUserID)
	if err != nil {
		return models.AttendanceEvent{}, err
	}

	student, err := ts.repo.GetStudentOnBus(ctx, req.StudentID, busID)
	if err != nil {
		return models.AttendanceEvent{}, err
	}

	ev := models.AttendanceEvent{
		ID:        uuid.NewString(),
		StudentID: student.ID,
		BusID:     busID,
		Type:      req.Type,
		CreatedAt: ts.now(),
	}

	if err := ts.repo.CreateAttendanceEvent(ctx, ev); err != nil {
		return models.AttendanceEvent{}, fmt.Errorf("cannot save attendance event: %w", err)
	}

	if req.Type == models.AttendanceBoarded {
		_, err := ts.notifier.Dispatch(ctx, student.ParentUserID, models.KindStudentBoarded,
			"Student boarded",
			fmt.Sprintf("%s boarded the bus.", student.Name),
			map[string]any{
				"studentId":    student.ID,
				"busId":        busID,
				"attendanceId": ev.ID,
			},
			"boarded:"+student.ID,
		)
		if err != nil {
			log.Error("cannot dispatch boarding notification", err, "student_id", student.ID)
		}
	}

	message := websocketdto.AttendanceMessage{
		ID:        ev.ID,
		BusID:     ev.BusID,
		StudentID: ev.StudentID,
		Type:      ev.Type,
		CreatedAt: ev.CreatedAt,
	}
	ts.hub.Broadcast(websocketdto.BusRoom(busID), websocketdto.TypeAttendance, message)

	if err := ts.broker.PublishJSON(ctx, "bus.attendance."+busID, message); err != nil {
		log.Error("cannot publish attendance to broker", err, "bus_id", busID)
	}

	return ev, nil
}

func (ts *TrackingService) StudentsOfParent(ctx context.Context, parentUserID string) ([]models.Student, error) {
	return ts.repo.ListStudentsByParent(ctx, parentUserID)
}

func (ts *TrackingService) LatestLocation(ctx context.Context, busID string) (*models.BusLocation, error) {
	return ts.repo.LatestBusLocation(ctx, busID)
}

func (ts *TrackingService) Notifications(ctx context.Context, userID string) ([]models.NotificationEvent, error) {
	return ts.repo.ListNotifications(ctx, userID, notificationsPageSize)
}
