package auth

import (
	"errors"
	"net/http"

	"busbenin/internal/shared/middleware"
	"busbenin/internal/shared/utils/response"
	"busbenin/internal/shared/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validation.New(),
	}
}

// authError maps auth sentinels to a status and a client-facing message
func authError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict, "An account with this email already exists"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenRevoked):
		return http.StatusUnauthorized, "Invalid or expired refresh token"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "Profile not found"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// bind decodes and validates the JSON body, writing the 400 response itself
func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, validation.Messages(err))
		return false
	}
	return true
}

// Register godoc
// @Summary Create a traveller account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "account"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Router /auth/register [post]
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		code, msg := authError(err, "Failed to register")
		response.RespondJSON(ctx, "error", code, msg, nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Account created", resp, nil)
}

// Login godoc
// @Summary Exchange email and password for a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} response.StandardApiResponse
// @Failure 401 {object} response.StandardApiResponse
// @Router /auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		code, msg := authError(err, "Failed to login")
		response.RespondJSON(ctx, "error", code, msg, nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	pair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		code, msg := authError(err, "Failed to refresh token")
		if code == http.StatusNotFound {
			code = http.StatusUnauthorized
		}
		response.RespondJSON(ctx, "error", code, msg, nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Token refreshed", pair, nil)
}

// Logout revokes the refresh token when one is sent; it always succeeds
func (c *Controller) Logout(ctx *gin.Context) {
	var req LogoutRequest
	_ = ctx.ShouldBindJSON(&req)

	_ = c.service.Logout(ctx.Request.Context(), req.RefreshToken)
	response.RespondJSON(ctx, "success", http.StatusOK, "Logged out", nil, nil)
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), actor.UserID.String(), &req); err != nil {
		code, msg := authError(err, "Failed to change password")
		if errors.Is(err, ErrInvalidCredentials) {
			msg = "Current password is incorrect"
		}
		response.RespondJSON(ctx, "error", code, msg, nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Password changed", nil, nil)
}

func (c *Controller) GetMe(ctx *gin.Context) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	profile, err := c.service.Me(ctx.Request.Context(), actor.UserID.String())
	if err != nil {
		code, msg := authError(err, "Failed to load profile")
		response.RespondJSON(ctx, "error", code, msg, nil, nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Profile retrieved", profile, nil)
}
