package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-track/internal/admin-service/core/domain/dto"
	"bus-track/internal/admin-service/core/myerrors"
	"bus-track/internal/admin-service/core/ports"
	"bus-track/internal/mylogger"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type FleetHandler struct {
	fleetService ports.IFleetService
	log          mylogger.Logger
}

func NewFleetHandler(fleetService ports.IFleetService, log mylogger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
		log:          log,
	}
}

func (fh *FleetHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	req := dto.CreateRouteRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	route, err := fh.fleetService.CreateRoute(r.Context(), req)
	if err != nil {
		fh.log.Action("CreateRoute").Error("cannot create route", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]interface{}{"route": route})
}

func (fh *FleetHandler) CreatePickupPoint(w http.ResponseWriter, r *http.Request) {
	req := dto.CreatePickupPointRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	point, err := fh.fleetService.CreatePickupPoint(r.Context(), req)
	if err != nil {
		if errors.Is(err, myerrors.ErrRouteNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		fh.log.Action("CreatePickupPoint").Error("cannot create pickup point", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]interface{}{"pickupPoint": point})
}

func (fh *FleetHandler) CreateBus(w http.ResponseWriter, r *http.Request) {
	req := dto.CreateBusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	bus, err := fh.fleetService.CreateBus(r.Context(), req)
	if err != nil {
		if errors.Is(err, myerrors.ErrRouteNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		fh.log.Action("CreateBus").Error("cannot create bus", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]interface{}{"bus": bus})
}

func (fh *FleetHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	req := dto.AssignDriverRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	if err := fh.fleetService.AssignDriver(r.Context(), req); err != nil {
		if errors.Is(err, myerrors.ErrDriverNotFound) || errors.Is(err, myerrors.ErrBusNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		fh.log.Action("AssignDriver").Error("cannot assign driver", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (fh *FleetHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	req := dto.CreateStudentRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	student, err := fh.fleetService.CreateStudent(r.Context(), req)
	if err != nil {
		if errors.Is(err, myerrors.ErrParentNotFound) || errors.Is(err, myerrors.ErrPickupPointNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		fh.log.Action("CreateStudent").Error("cannot create student", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]interface{}{"student": student})
}

func (fh *FleetHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := fh.fleetService.Overview(r.Context())
	if err != nil {
		fh.log.Action("Overview").Error("cannot load fleet overview", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"buses": overview})
}
