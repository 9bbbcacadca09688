package ports

import (
	"context"

	"bus-track/internal/auth-service/core/domain/dto"
)

type IAuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (dto.UserView, error)
}
