package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauravsahdz/ecommerce-api/internal/http/middleware"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/services"
)

// AuthHandlers serves registration, login, and the current-user endpoint.
type AuthHandlers struct {
	Svc *services.AuthService
}

// NewAuthHandlers constructs the auth endpoint group.
func NewAuthHandlers(svc *services.AuthService) *AuthHandlers {
	return &AuthHandlers{Svc: svc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register. New accounts start as Viewer.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.Error(respond.BadRequest("User already exists"))
			return
		}
		c.Error(err)
		return
	}
	respond.Created(c, "User registered successfully",
		gin.H{"user": u}, respond.Meta{"id": u.ID})
}

// Login handles POST /auth/login. Unknown email and wrong password are
// reported with distinct messages but the same 401 status.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}
	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			c.Error(respond.Unauthorized("Email not found"))
		case errors.Is(err, services.ErrInvalidCredentials):
			c.Error(respond.Unauthorized("Invalid credentials"))
		default:
			c.Error(err)
		}
		return
	}
	respond.OK(c, "Login successful",
		gin.H{"user": u, "token": token}, respond.Meta{"id": u.ID})
}

// Me handles GET /auth/me for the authenticated subject.
func (h *AuthHandlers) Me(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		c.Error(respond.Unauthorized("Authentication required"))
		return
	}
	u, err := h.Svc.CurrentUser(c.Request.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.Error(respond.NotFound("User not found"))
			return
		}
		c.Error(err)
		return
	}
	respond.OK(c, "Success", gin.H{"user": u}, nil)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this is an
// acknowledgement for clients that want a definite end-of-session signal.
func (h *AuthHandlers) Logout(c *gin.Context) {
	respond.Success(c, http.StatusOK, "Logged out successfully", nil, nil)
}
