package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Salaheddine-dev01/factory/internal/config"
	"github.com/Salaheddine-dev01/factory/internal/model"
	"github.com/Salaheddine-dev01/factory/internal/utils"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// AuthHandler bundles dependencies for the login and verify endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userPart is the sanitized user summary returned by login and verify.
// It never includes credential material.
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// Login verifies a username/password pair and issues a session token.
// Unknown user and wrong password produce the same response on purpose.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Username and password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed", "details": err.Error()})
	}
	if !utils.VerifyCredential(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Login failed", "details": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   tok.Token,
		"user": userPart{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
			FullName: u.FullName,
		},
	})
}

// Verify checks the bearer token from the Authorization header and echoes
// the decoded identity.  It performs the same verification as the JWT
// middleware but lives outside it so the route needs no middleware.
func (h *AuthHandler) Verify(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	ident, err := utils.ParseSessionToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"user": userPart{
			ID:       ident.ID,
			Username: ident.Username,
			Role:     ident.Role,
			FullName: ident.FullName,
		},
	})
}
