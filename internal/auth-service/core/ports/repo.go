package ports

import (
	"context"

	"bus-track/internal/auth-service/core/domain/models"
)

type IAuthRepo interface {
	// Create stores the user and, depending on role, its driver or parent
	// profile in one transaction. Returns myerrors.ErrEmailRegistered on a
	// duplicate email.
	Create(ctx context.Context, user models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}
