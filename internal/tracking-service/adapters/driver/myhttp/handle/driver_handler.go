package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-track/internal/middleware"
	"bus-track/internal/mylogger"
	"bus-track/internal/tracking-service/core/domain/dto"
	"bus-track/internal/tracking-service/core/myerrors"
	"bus-track/internal/tracking-service/core/ports"
)

type DriverHandler struct {
	trackingService ports.ITrackingService
	log             mylogger.Logger
}

func NewDriverHandler(trackingService ports.ITrackingService, log mylogger.Logger) *DriverHandler {
	return &DriverHandler{
		trackingService: trackingService,
		log:             log,
	}
}

func (dh *DriverHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	req := dto.LocationUpdate{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	ack, err := dh.trackingService.UpdateLocation(r.Context(), id.UserID, req)
	if err != nil {
		if errors.Is(err, myerrors.ErrNoBusAssigned) {
			jsonError(w, http.StatusBadRequest, err)
			return
		}
		dh.log.Action("UpdateLocation").Error("cannot process location report", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, ack)
}

func (dh *DriverHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	req := dto.AttendanceRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	ev, err := dh.trackingService.RecordAttendance(r.Context(), id.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, myerrors.ErrNoBusAssigned):
			jsonError(w, http.StatusBadRequest, err)
		case errors.Is(err, myerrors.ErrStudentNotOnBus):
			jsonError(w, http.StatusNotFound, err)
		default:
			dh.log.Action("RecordAttendance").Error("cannot record attendance", err)
			jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		}
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"event": dto.AttendanceResponse{
			ID:        ev.ID,
			StudentID: ev.StudentID,
			BusID:     ev.BusID,
			Type:      ev.Type,
			CreatedAt: ev.CreatedAt,
		},
	})
}
