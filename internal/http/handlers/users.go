package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// UsersHandler serves the operator-account endpoints. Listing, reading,
// updating, and deleting follow the generic adapter; creation is bespoke
// because it accepts a plaintext password and stores only the hash.
type UsersHandler struct {
	*Resource[domain.User]
}

// NewUsersHandler wires the user endpoints.
func NewUsersHandler(db *gorm.DB, opt query.Options) *UsersHandler {
	return &UsersHandler{Resource: &Resource[domain.User]{
		Label:    "User",
		Singular: "user",
		Plural:   "users",
		Store:    store.NewCollection[domain.User](db),
		Fields: []query.FieldSpec{
			{Name: "name", Match: query.MatchContains},
			{Name: "email", Match: query.MatchExact},
			{Name: "role", Match: query.MatchExact},
			{Name: "isActive", Match: query.MatchBool},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"name":      "name",
			"email":     "email",
			"lastLogin": "last_login",
		}),
		EntityID:      func(e *domain.User) string { return e.ID },
		SetID:         func(e *domain.User, id string) { e.ID = id },
		PrepareUpdate: prepareUserUpdate,
	}}
}

type createUserRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

// Create handles POST /users (Admin only). The password is hashed with
// bcrypt; the role defaults to Viewer when omitted.
func (h *UsersHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	role := domain.RoleViewer
	if req.Role != "" {
		r, ok := domain.ParseRole(req.Role)
		if !ok {
			c.Error(respond.BadRequest("Invalid role"))
			return
		}
		role = r
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(err)
		return
	}

	u := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		AvatarURL:    req.AvatarURL,
		IsActive:     true,
	}
	h.SetID(u, uuid.NewString())
	if err := h.Store.Insert(c.Request.Context(), u); err != nil {
		c.Error(err)
		return
	}
	respond.Created(c, "User created successfully",
		gin.H{"user": u}, respond.Meta{"id": u.ID})
}

func prepareUserUpdate(_ *gin.Context, e *domain.User) error {
	if !e.Role.Valid() {
		return respond.BadRequest("Invalid role")
	}
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	return nil
}
