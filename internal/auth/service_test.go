package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/internal/shared/identity"
	"busbenin/internal/users"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byID map[string]*users.Profile
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]*users.Profile{}} }

func (r *fakeRepo) CreateProfile(_ context.Context, p *users.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.byID[p.ID.String()] = p
	return nil
}

func (r *fakeRepo) GetProfileByEmail(_ context.Context, email string) (*users.Profile, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) GetProfileByID(_ context.Context, id string) (*users.Profile, error) {
	if p, ok := r.byID[id]; ok {
		return p, nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) UpdatePassword(_ context.Context, id, hashed string) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	p.Password = hashed
	return nil
}

func (r *fakeRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetProfileByEmail(ctx, email)
	return err == nil, nil
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	}}
}

func TestRegisterLoginAndClaims(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, nil, testConfig(), logger.NewNop())

	resp, err := svc.Register(ctx, &RegisterRequest{Email: " Awa@Mail.BJ ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "awa@mail.bj" || resp.User.Username != "awa" || resp.User.Role != identity.RoleUser {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	if _, err := svc.Register(ctx, &RegisterRequest{Email: "awa@mail.bj", Password: "secret1"}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "awa@mail.bj", Password: "wrong!!"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// promote to company staff, the next login carries the new role
	cid := uuid.New()
	repo.byID[resp.User.ID].CompagnieID = &cid

	login, err := svc.Login(ctx, &LoginRequest{Email: "awa@mail.bj", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.ValidateToken(login.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Role != identity.RoleCompany || claims.CompagnieID != cid.String() || claims.Type != tokenTypeAccess {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), cache.NewMemory(), testConfig(), logger.NewNop())

	resp, err := svc.Register(ctx, &RegisterRequest{Email: "kofi@mail.bj", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.RefreshToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := svc.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("reused refresh token: %v", err)
	}

	if err := svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.RefreshToken(ctx, pair.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("refresh after logout: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), nil, testConfig(), logger.NewNop())

	resp, _ := svc.Register(ctx, &RegisterRequest{Email: "sena@mail.bj", Password: "secret1"})

	err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret2"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "sena@mail.bj", Password: "secret2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
