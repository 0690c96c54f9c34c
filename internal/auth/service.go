package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/internal/shared/constants"
	"busbenin/internal/users"
	"busbenin/pkg/cache"
	"busbenin/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	Me(ctx context.Context, userID string) (*users.ProfileResponse, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo   Repository
	cache  cache.Service
	config *config.Config
	log    *logger.Logger
	now    func() time.Time
}

// NewService builds the auth service. A nil cache disables refresh token revocation.
func NewService(repo Repository, cacheSvc cache.Service, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		cache:  cacheSvc,
		config: cfg,
		log:    log,
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	profile := &users.Profile{
		Email:    email,
		Password: string(hashedPassword),
		Username: username,
		FullName: strings.TrimSpace(req.FullName),
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, profile.ID.String(), "register")
	return s.authResponse(profile)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	profile, err := s.repo.GetProfileByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.LogAuthFailure(ctx, "unknown email", req.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)); err != nil {
		s.log.LogAuthFailure(ctx, "wrong password", profile.Email)
		return nil, ErrInvalidCredentials
	}

	s.log.LogAuthSuccess(ctx, profile.ID.String(), "password")
	return s.authResponse(profile)
}

// RefreshToken issues a new pair from the current profile, so role changes apply on refresh
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != tokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}

	profile, err := s.repo.GetProfileByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// rotate: the presented refresh token cannot be used twice
	s.revoke(ctx, claims)
	return s.generateTokenPair(profile)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil
	}
	s.revoke(ctx, claims)
	return nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashedPassword))
}

func (s *service) Me(ctx context.Context, userID string) (*users.ProfileResponse, error) {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := profile.ToResponse()
	return &resp, nil
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) authResponse(profile *users.Profile) (*AuthResponse, error) {
	tokenPair, err := s.generateTokenPair(profile)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:         profile.ToResponse(),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) generateTokenPair(profile *users.Profile) (*TokenPair, error) {
	now := s.now()

	accessToken, err := s.sign(profile, tokenTypeAccess, now, s.config.JWT.JWTExpiresIn)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.sign(profile, tokenTypeRefresh, now, s.config.JWT.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) sign(profile *users.Profile, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		UserID: profile.ID.String(),
		Email:  profile.Email,
		Role:   profile.Role(),
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
			Subject:   profile.ID.String(),
		},
	}
	if profile.CompagnieID != nil {
		claims.CompagnieID = profile.CompagnieID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *service) revoke(ctx context.Context, claims *JWTClaims) {
	if s.cache == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, constants.BuildRevokedTokenKey(claims.ID), true, ttl); err != nil {
		s.log.Warn("failed to revoke refresh token", "error", err)
	}
}

func (s *service) isRevoked(ctx context.Context, jti string) bool {
	if s.cache == nil || jti == "" {
		return false
	}
	return s.cache.Exists(ctx, constants.BuildRevokedTokenKey(jti))
}
