package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/config"
	"github.com/messbari/mess-booking/internal/model"
	"github.com/messbari/mess-booking/internal/repository"
	"github.com/messbari/mess-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,min=6"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location" validate:"omitempty"`
}
type loginReq struct {
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Role     string `json:"role"`
	Location string `json:"location,omitempty"`
}
type authResp struct {
	User           userPart  `json:"user"`
	Token          string    `json:"token"`
	TokenExpires   time.Time `json:"token_expires"`
	RefreshToken   string    `json:"refresh_token"`
	RefreshExpires time.Time `json:"refresh_expires"`
}

// issuePair signs a fresh access token and stores a new refresh token
// for the user.
func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (*authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &authResp{
		User: userPart{
			ID: u.ID, Name: u.Name, Email: u.Email,
			Mobile: u.Mobile, Role: u.Role, Location: u.Location,
		},
		Token:          access.Token,
		TokenExpires:   access.Exp,
		RefreshToken:   refresh.Raw, // raw back to client; DB holds only the hash
		RefreshExpires: refresh.Exp,
	}, nil
}

// Register creates an owner account and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Mobile, req.Password, req.Location, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "user with this email already exists"})
		case repository.ErrMobileExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "user with this mobile already exists"})
		}
		return serverError(c, h.Cfg.Dev(), "failed to register user", err)
	}

	resp, err := h.issuePair(ctx, model.User{
		ID: uid, Name: req.Name, Email: req.Email,
		Mobile: req.Mobile, Role: "owner", Location: req.Location,
	})
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to issue tokens", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials by email or mobile and returns a new
// token pair. Deactivated accounts cannot log in.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Mobile = strings.TrimSpace(req.Mobile)
	if (req.Email == "" && req.Mobile == "") || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email or mobile, and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		u   model.User
		err error
	)
	if req.Email != "" {
		u, err = h.Users.GetByEmail(ctx, req.Email)
	} else {
		u, err = h.Users.GetByMobile(ctx, req.Mobile)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return serverError(c, h.Cfg.Dev(), "query failed", err)
	}
	if !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to issue tokens", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates a refresh token by hash, revokes it, and issues a
// new pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "load user failed", err)
	}
	if !u.IsActive {
		// A deactivated account keeps no live sessions.
		_ = h.Tokens.RevokeAllForUser(ctx, userID)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is deactivated"})
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		return serverError(c, h.Cfg.Dev(), "failed to issue tokens", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the presented refresh token, ending that session.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return serverError(c, h.Cfg.Dev(), "logout failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me echoes the authenticated user's claims.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"email":   c.Get("email"),
		"role":    c.Get("role"),
	})
}
