package db

import (
	"context"
	"errors"
	"fmt"

	"bus-track/internal/auth-service/core/domain/models"
	"bus-track/internal/auth-service/core/myerrors"
	"bus-track/internal/database"
	"bus-track/internal/token"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepo struct {
	db *database.DataBase
}

func NewUserRepo(db *database.DataBase) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// Create inserts the user and its role profile in one transaction so a failed
// profile insert never leaves an orphaned account.
func (ur *UserRepo) Create(ctx context.Context, user models.User) (string, error) {
	tx, err := ur.db.Pool().Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	id := uuid.NewString()
	q := `INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4)`
	if _, err = tx.Exec(ctx, q, id, user.Email, user.PasswordHash, user.Role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return "", myerrors.ErrEmailRegistered
		}
		return "", fmt.Errorf("failed to insert user: %v", err)
	}

	switch user.Role {
	case token.RoleDriver:
		if _, err = tx.Exec(ctx,
			`INSERT INTO driver_profiles (id, user_id) VALUES ($1, $2)`, uuid.NewString(), id); err != nil {
			return "", fmt.Errorf("failed to insert driver profile: %v", err)
		}
	case token.RoleParent:
		if _, err = tx.Exec(ctx,
			`INSERT INTO parent_profiles (id, user_id) VALUES ($1, $2)`, uuid.NewString(), id); err != nil {
			return "", fmt.Errorf("failed to insert parent profile: %v", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %v", err)
	}

	return id, nil
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	q := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var u models.User
	err := ur.db.Pool().QueryRow(ctx, q, email).Scan(
		&u.UserID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, myerrors.ErrUnknownEmail
		}
		return models.User{}, err
	}

	return u, nil
}

func (ur *UserRepo) GetByID(ctx context.Context, userID string) (models.User, error) {
	q := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var u models.User
	err := ur.db.Pool().QueryRow(ctx, q, userID).Scan(
		&u.UserID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, myerrors.ErrUserNotFound
		}
		return models.User{}, err
	}

	return u, nil
}
