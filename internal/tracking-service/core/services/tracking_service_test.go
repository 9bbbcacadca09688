package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/models"
	"bus-track/internal/tracking-service/core/myerrors"
)

type brokerCall struct {
	routingKey string
	msg        any
}

type mockBroker struct {
	calls []brokerCall
	err   error
}

func (m *mockBroker) PublishJSON(_ context.Context, routingKey string, msg any) error {
	m.calls = append(m.calls, brokerCall{routingKey: routingKey, msg: msg})
	return m.err
}

type dispatchCall struct {
	userID    string
	kind      string
	dedupeKey string
	meta      map[string]any
}

type mockNotifier struct {
	calls      []dispatchCall
	dispatchFn func(call dispatchCall) error
}

func (m *mockNotifier) Dispatch(_ context.Context, userID, kind, _, _ string, meta map[string]any, dedupeKey string) (*models.NotificationEvent, error) {
	call := dispatchCall{userID: userID, kind: kind, dedupeKey: dedupeKey, meta: meta}
	m.calls = append(m.calls, call)
	if m.dispatchFn != nil {
		if err := m.dispatchFn(call); err != nil {
			return nil, err
		}
	}
	return &models.NotificationEvent{}, nil
}

func fptr(v float64) *float64 { return &v }

// degrees of latitude for a given distance in meters on the 6,371 km sphere
func latOffset(meters float64) float64 {
	return meters / 111194.9266
}

func newTestService(repo *mockRepo, hub *mockHub, broker *mockBroker, notifier *mockNotifier) *TrackingService {
	return NewTrackingService(repo, hub, broker, notifier, testLogger())
}

func student(id, parentUserID string, pickupLat, pickupLng float64) models.Student {
	return models.Student{
		ID:           id,
		Name:         "Student " + id,
		BusID:        "bus-1",
		ParentUserID: parentUserID,
		PickupPoint: models.PickupPoint{
			ID:   "pp-" + id,
			Name: "Stop " + id,
			Lat:  pickupLat,
			Lng:  pickupLng,
		},
	}
}

func TestUpdateLocationArrived(t *testing.T) {
	s := student("stu-1", "parent-1", latOffset(150), 0)
	repo := &mockRepo{assignedBus: "bus-1", students: []models.Student{s}}
	hub := &mockHub{}
	broker := &mockBroker{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, hub, broker, notifier)

	ack, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ack.Ok || ack.LocationID == "" {
		t.Fatalf("expected positive ack, got %+v", ack)
	}

	if len(repo.locations) != 1 {
		t.Fatalf("expected 1 persisted location, got %d", len(repo.locations))
	}
	if len(hub.calls) != 1 || hub.calls[0].room != "bus:bus-1" || hub.calls[0].event != "busLocation" {
		t.Fatalf("expected busLocation broadcast to bus room, got %+v", hub.calls)
	}
	if len(broker.calls) != 1 || broker.calls[0].routingKey != "bus.location.bus-1" {
		t.Fatalf("expected broker publish, got %+v", broker.calls)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(notifier.calls))
	}
	call := notifier.calls[0]
	if call.kind != models.KindBusArrived {
		t.Errorf("expected BUS_ARRIVED, got %s", call.kind)
	}
	if call.userID != "parent-1" {
		t.Errorf("expected parent-1, got %s", call.userID)
	}
	if call.dedupeKey != "arrived:pp-stu-1" {
		t.Errorf("expected arrived dedupe key, got %s", call.dedupeKey)
	}
}

func TestUpdateLocationApproaching(t *testing.T) {
	s := student("stu-1", "parent-1", latOffset(600), 0)
	repo := &mockRepo{assignedBus: "bus-1", students: []models.Student{s}}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, notifier)

	if _, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 dispatch, got %d", len(notifier.calls))
	}
	if notifier.calls[0].kind != models.KindBusNearPickup {
		t.Errorf("expected BUS_NEAR_PICKUP, got %s", notifier.calls[0].kind)
	}
	if notifier.calls[0].dedupeKey != "near:pp-stu-1" {
		t.Errorf("expected near dedupe key, got %s", notifier.calls[0].dedupeKey)
	}
}

func TestUpdateLocationFarAway(t *testing.T) {
	s := student("stu-1", "parent-1", latOffset(1500), 0)
	repo := &mockRepo{assignedBus: "bus-1", students: []models.Student{s}}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, notifier)

	if _, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected 0 dispatches, got %d", len(notifier.calls))
	}
}

func TestClassifyProximityBoundaries(t *testing.T) {
	cases := []struct {
		dist float64
		want string
	}{
		{150, models.KindBusArrived},
		{200, models.KindBusArrived},
		{200.01, models.KindBusNearPickup},
		{1000, models.KindBusNearPickup},
		{1000.01, ""},
		{1500, ""},
	}
	for _, c := range cases {
		if got := classifyProximity(c.dist); got != c.want {
			t.Errorf("classifyProximity(%v) = %q, want %q", c.dist, got, c.want)
		}
	}
}

func TestUpdateLocationNoAssignedBus(t *testing.T) {
	repo := &mockRepo{}
	hub := &mockHub{}
	broker := &mockBroker{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, hub, broker, notifier)

	_, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)})
	if !errors.Is(err, myerrors.ErrNoBusAssigned) {
		t.Fatalf("expected ErrNoBusAssigned, got %v", err)
	}
	if len(repo.locations) != 0 {
		t.Fatalf("expected no persisted locations, got %d", len(repo.locations))
	}
	if len(hub.calls) != 0 || len(broker.calls) != 0 || len(notifier.calls) != 0 {
		t.Fatal("expected no side effects for rejected request")
	}
}

func TestUpdateLocationSharedPickupIndependentGuardians(t *testing.T) {
	s1 := student("stu-1", "parent-1", latOffset(100), 0)
	s2 := student("stu-2", "parent-2", latOffset(100), 0)
	// same physical stop
	s2.PickupPoint = s1.PickupPoint

	repo := &mockRepo{assignedBus: "bus-1", students: []models.Student{s1, s2}}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, notifier)

	if _, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.calls) != 2 {
		t.Fatalf("expected 2 dispatches, got %d", len(notifier.calls))
	}
	if notifier.calls[0].userID == notifier.calls[1].userID {
		t.Error("expected distinct guardians")
	}
	for _, call := range notifier.calls {
		if call.dedupeKey != "arrived:"+s1.PickupPoint.ID {
			t.Errorf("expected shared pickup dedupe subject, got %s", call.dedupeKey)
		}
	}
}

func TestUpdateLocationStudentLoadFailureStillAcks(t *testing.T) {
	repo := &mockRepo{assignedBus: "bus-1", studentsErr: errors.New("db down")}
	hub := &mockHub{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, hub, &mockBroker{}, notifier)

	ack, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ack.Ok {
		t.Fatal("expected positive ack despite enrichment failure")
	}
	if len(hub.calls) != 1 {
		t.Fatalf("expected position broadcast to survive, got %d calls", len(hub.calls))
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no dispatches, got %d", len(notifier.calls))
	}
}

func TestUpdateLocationOneDispatchFailureDoesNotBlockNext(t *testing.T) {
	s1 := student("stu-1", "parent-1", latOffset(100), 0)
	s2 := student("stu-2", "parent-2", latOffset(100), 0)
	repo := &mockRepo{assignedBus: "bus-1", students: []models.Student{s1, s2}}
	notifier := &mockNotifier{
		dispatchFn: func(call dispatchCall) error {
			if call.userID == "parent-1" {
				return errors.New("push failed")
			}
			return nil
		},
	}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, notifier)

	if _, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.calls) != 2 {
		t.Fatalf("expected both students evaluated, got %d", len(notifier.calls))
	}
}

func TestUpdateLocationBrokerFailureIsBestEffort(t *testing.T) {
	repo := &mockRepo{assignedBus: "bus-1"}
	broker := &mockBroker{err: errors.New("amqp down")}
	svc := newTestService(repo, &mockHub{}, broker, &mockNotifier{})

	ack, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{Lat: fptr(0), Lng: fptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ack.Ok {
		t.Fatal("expected positive ack despite broker failure")
	}
}

func TestUpdateLocationTimestampPassthrough(t *testing.T) {
	repo := &mockRepo{assignedBus: "bus-1"}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, &mockNotifier{})

	captured := time.Date(2026, 8, 28, 7, 15, 0, 0, time.UTC)
	ack, err := svc.UpdateLocation(context.Background(), "driver-1", dto.LocationUpdate{
		Lat:       fptr(10),
		Lng:       fptr(20),
		Timestamp: &captured,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ack.CreatedAt.Equal(captured) {
		t.Errorf("expected captured timestamp %v, got %v", captured, ack.CreatedAt)
	}
}

func TestRecordAttendanceBoarded(t *testing.T) {
	s := student("stu-1", "parent-1", 0, 0)
	repo := &mockRepo{
		assignedBus: "bus-1",
		studentOnBusFn: func(studentID, busID string) (models.Student, error) {
			if studentID == "stu-1" && busID == "bus-1" {
				return s, nil
			}
			return models.Student{}, myerrors.ErrStudentNotOnBus
		},
	}
	hub := &mockHub{}
	broker := &mockBroker{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, hub, broker, notifier)

	ev, err := svc.RecordAttendance(context.Background(), "driver-1", dto.AttendanceRequest{
		StudentID: "stu-1",
		Type:      models.AttendanceBoarded,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != models.AttendanceBoarded {
		t.Errorf("expected BOARDED, got %s", ev.Type)
	}

	if len(repo.attendance) != 1 {
		t.Fatalf("expected 1 stored attendance event, got %d", len(repo.attendance))
	}
	if len(notifier.calls) != 1 || notifier.calls[0].kind != models.KindStudentBoarded {
		t.Fatalf("expected STUDENT_BOARDED dispatch, got %+v", notifier.calls)
	}
	if notifier.calls[0].dedupeKey != "boarded:stu-1" {
		t.Errorf("expected boarded dedupe key, got %s", notifier.calls[0].dedupeKey)
	}
	if len(hub.calls) != 1 || hub.calls[0].room != "bus:bus-1" || hub.calls[0].event != "attendance" {
		t.Fatalf("expected attendance broadcast to bus room, got %+v", hub.calls)
	}
	if len(broker.calls) != 1 || broker.calls[0].routingKey != "bus.attendance.bus-1" {
		t.Fatalf("expected broker publish, got %+v", broker.calls)
	}
}

func TestRecordAttendanceDroppedOffNoNotification(t *testing.T) {
	s := student("stu-1", "parent-1", 0, 0)
	repo := &mockRepo{
		assignedBus: "bus-1",
		studentOnBusFn: func(_, _ string) (models.Student, error) {
			return s, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, notifier)

	if _, err := svc.RecordAttendance(context.Background(), "driver-1", dto.AttendanceRequest{
		StudentID: "stu-1",
		Type:      models.AttendanceDroppedOff,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("expected no dispatches, got %d", len(notifier.calls))
	}
}

func TestRecordAttendanceStudentNotOnBus(t *testing.T) {
	repo := &mockRepo{assignedBus: "bus-1"}
	svc := newTestService(repo, &mockHub{}, &mockBroker{}, &mockNotifier{})

	_, err := svc.RecordAttendance(context.Background(), "driver-1", dto.AttendanceRequest{
		StudentID: "stu-9",
		Type:      models.AttendanceBoarded,
	})
	if !errors.Is(err, myerrors.ErrStudentNotOnBus) {
		t.Fatalf("expected ErrStudentNotOnBus, got %v", err)
	}
	if len(repo.attendance) != 0 {
		t.Fatal("expected no stored attendance event")
	}
}
