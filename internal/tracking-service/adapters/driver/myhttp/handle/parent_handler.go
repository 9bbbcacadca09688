package handle

import (
	"errors"
	"net/http"

	"bus-track/internal/middleware"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/domain/models"
	"bus-track/internal/tracking-service/core/myerrors"
	"bus-track/internal/tracking-service/core/ports"
)

type ParentHandler struct {
	trackingService ports.ITrackingService
	log             mylogger.Logger
}

func NewParentHandler(trackingService ports.ITrackingService, log mylogger.Logger) *ParentHandler {
	return &ParentHandler{
		trackingService: trackingService,
		log:             log,
	}
}

func (ph *ParentHandler) Students(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	students, err := ph.trackingService.StudentsOfParent(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, myerrors.ErrParentNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		ph.log.Action("Students").Error("cannot list students", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	views := make([]dto.StudentView, 0, len(students))
	for _, s := range students {
		views = append(views, dto.StudentView{
			ID:              s.ID,
			Name:            s.Name,
			BusID:           s.BusID,
			BusCode:         s.BusCode,
			PickupPointID:   s.PickupPoint.ID,
			PickupPointName: s.PickupPoint.Name,
			PickupLat:       s.PickupPoint.Lat,
			PickupLng:       s.PickupPoint.Lng,
		})
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"students": views})
}

func (ph *ParentHandler) LatestLocation(w http.ResponseWriter, r *http.Request) {
	busID := r.PathValue("bus_id")
	if busID == "" {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	loc, err := ph.trackingService.LatestLocation(r.Context(), busID)
	if err != nil {
		ph.log.Action("LatestLocation").Error("cannot load latest location", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	var view *dto.LocationView
	if loc != nil {
		view = &dto.LocationView{
			BusID:     loc.BusID,
			Lat:       loc.Lat,
			Lng:       loc.Lng,
			SpeedKph:  loc.SpeedKph,
			Heading:   loc.Heading,
			AccuracyM: loc.AccuracyM,
			CreatedAt: loc.CreatedAt,
		}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"location": view})
}

func (ph *ParentHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	events, err := ph.trackingService.Notifications(r.Context(), id.UserID)
	if err != nil {
		ph.log.Action("Notifications").Error("cannot list notifications", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	views := make([]dto.NotificationView, 0, len(events))
	for _, ev := range events {
		views = append(views, notificationView(ev))
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"notifications": views})
}

func notificationView(ev models.NotificationEvent) dto.NotificationView {
	return dto.NotificationView{
		ID:        ev.ID,
		Kind:      ev.Kind,
		Title:     ev.Title,
		Body:      ev.Body,
		Meta:      ev.Meta,
		CreatedAt: ev.CreatedAt,
	}
}
