package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"bus-track/internal/auth-service/core/domain/dto"
	"bus-track/internal/auth-service/core/myerrors"
	"bus-track/internal/auth-service/core/ports"
	"bus-track/internal/middleware"
	"bus-track/internal/mylogger"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type AuthHandler struct {
	authService ports.IAuthService
	log         mylogger.Logger
}

func NewAuthHandler(authService ports.IAuthService, log mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

func (ah *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req := dto.RegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	res, err := ah.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			jsonError(w, http.StatusConflict, err)
			return
		}
		ah.log.Action("Register").Error("cannot register user", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, res)
}

func (ah *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req := dto.LoginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	res, err := ah.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownEmail) || errors.Is(err, myerrors.ErrPasswordMismatch) {
			jsonError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
			return
		}
		ah.log.Action("Login").Error("cannot login user", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, res)
}

func (ah *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		jsonError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	user, err := ah.authService.Me(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, myerrors.ErrUserNotFound) {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		ah.log.Action("Me").Error("cannot load user", err)
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{"user": user})
}
