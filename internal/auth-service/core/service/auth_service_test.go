package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bus-track/internal/auth-service/core/domain/dto"
	"bus-track/internal/auth-service/core/domain/models"
	"bus-track/internal/auth-service/core/myerrors"
	"bus-track/internal/mylogger"
	"bus-track/internal/token"
)

type mockAuthRepo struct {
	users map[string]models.User
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: make(map[string]models.User)}
}

func (m *mockAuthRepo) Create(_ context.Context, user models.User) (string, error) {
	if _, exists := m.users[user.Email]; exists {
		return "", myerrors.ErrEmailRegistered
	}
	user.UserID = "user-" + user.Email
	m.users[user.Email] = user
	return user.UserID, nil
}

func (m *mockAuthRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return models.User{}, myerrors.ErrUnknownEmail
	}
	return user, nil
}

func (m *mockAuthRepo) GetByID(_ context.Context, userID string) (models.User, error) {
	for _, user := range m.users {
		if user.UserID == userID {
			return user, nil
		}
	}
	return models.User{}, myerrors.ErrUserNotFound
}

func newTestAuthService() (*AuthService, *token.Manager) {
	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthService(newMockAuthRepo(), tokens, mylogger.New("test", mylogger.LevelError)), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newTestAuthService()

	reg, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "parent@example.com",
		Password: "secret1",
		Role:     token.RoleParent,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Token == "" {
		t.Fatal("expected a token")
	}

	id, err := tokens.Verify(reg.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id.Role != token.RoleParent {
		t.Errorf("expected PARENT role in token, got %s", id.Role)
	}

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "parent@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("expected same user id, got %s and %s", login.User.ID, reg.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	req := dto.RegisterRequest{Email: "a@example.com", Password: "secret1", Role: token.RoleDriver}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, myerrors.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret1",
		Role:     token.RoleDriver,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "a@example.com",
		Password: "wrong",
	}); !errors.Is(err, myerrors.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService()

	if _, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret1",
	}); !errors.Is(err, myerrors.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checkPassword(hash, "secret1") {
		t.Error("expected matching password to verify")
	}
	if checkPassword(hash, "secret2") {
		t.Error("expected mismatching password to fail")
	}
}
