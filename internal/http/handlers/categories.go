package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
	"github.com/gauravsahdz/ecommerce-api/internal/utils"
)

// NewCategoryResource wires the category endpoints. Slugs are generated from
// the name when the client omits them; slug uniqueness is enforced by the
// database and surfaces as a 409.
func NewCategoryResource(db *gorm.DB, opt query.Options) *Resource[domain.Category] {
	return &Resource[domain.Category]{
		Label:    "Category",
		Singular: "category",
		Plural:   "categories",
		Store:    store.NewCollection[domain.Category](db),
		Fields: []query.FieldSpec{
			{Name: "name", Match: query.MatchContains},
			{Name: "slug", Match: query.MatchExact},
			{Name: "parentId", Match: query.MatchID},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"name":      "name",
		}),
		EntityID:      func(e *domain.Category) string { return e.ID },
		SetID:         func(e *domain.Category, id string) { e.ID = id },
		PrepareCreate: prepareCategory,
		PrepareUpdate: prepareCategory,
	}
}

func prepareCategory(_ *gin.Context, e *domain.Category) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return respond.BadRequest("Category name is required")
	}
	if e.ParentID != nil && *e.ParentID != "" {
		if _, err := uuid.Parse(*e.ParentID); err != nil {
			return respond.BadRequest("Invalid parentId")
		}
	}
	if strings.TrimSpace(e.Slug) == "" {
		e.Slug = utils.Slugify(e.Name)
	}
	return nil
}
