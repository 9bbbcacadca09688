package service

import (
	"context"
	"errors"
	"fmt"

	"bus-track/internal/auth-service/core/domain/dto"
	"bus-track/internal/auth-service/core/domain/models"
	"bus-track/internal/auth-service/core/myerrors"
	"bus-track/internal/auth-service/core/ports"
	"bus-track/internal/mylogger"
	"bus-track/internal/token"
)

type AuthService struct {
	authRepo ports.IAuthRepo
	tokens   *token.Manager
	mylog    mylogger.Logger
}

func NewAuthService(authRepo ports.IAuthRepo, tokens *token.Manager, mylog mylogger.Logger) *AuthService {
	return &AuthService{
		authRepo: authRepo,
		tokens:   tokens,
		mylog:    mylog,
	}
}

func (as *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("Register")

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}

	id, err := as.authRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, myerrors.ErrEmailRegistered) {
			mylog.Warn("Failed to register, email already registered")
			return dto.AuthResponse{}, err
		}
		mylog.Error("Failed to save user in db", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot save user in db: %w", err)
	}

	accessToken, err := as.tokens.Sign(id, req.Email, req.Role)
	if err != nil {
		mylog.Error("cannot create jwt token", err)
		return dto.AuthResponse{}, err
	}

	mylog.Info("User registered successfully", "user_id", id, "role", req.Role)
	return dto.AuthResponse{
		Token: accessToken,
		User: dto.UserView{
			ID:    id,
			Email: req.Email,
			Role:  req.Role,
		},
	}, nil
}

func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	mylog := as.mylog.Action("Login")

	user, err := as.authRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, myerrors.ErrUnknownEmail) {
			mylog.Warn("Failed to login, unknown email")
			return dto.AuthResponse{}, err
		}
		mylog.Error("Failed to load user from db", err)
		return dto.AuthResponse{}, fmt.Errorf("cannot load user from db: %w", err)
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		mylog.Debug("Failed to login, wrong password")
		return dto.AuthResponse{}, myerrors.ErrPasswordMismatch
	}

	accessToken, err := as.tokens.Sign(user.UserID, user.Email, user.Role)
	if err != nil {
		mylog.Error("cannot create jwt token", err)
		return dto.AuthResponse{}, err
	}

	mylog.Info("User login successfully", "user_id", user.UserID)
	return dto.AuthResponse{
		Token: accessToken,
		User: dto.UserView{
			ID:    user.UserID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

func (as *AuthService) Me(ctx context.Context, userID string) (dto.UserView, error) {
	user, err := as.authRepo.GetByID(ctx, userID)
	if err != nil {
		return dto.UserView{}, err
	}
	return dto.UserView{
		ID:    user.UserID,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}
