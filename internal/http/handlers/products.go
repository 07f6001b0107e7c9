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
)

// NewProductResource wires the product endpoints. The catalog is the most
// heavily filtered resource: substring search on name, category scoping,
// price range, and stock state.
func NewProductResource(db *gorm.DB, opt query.Options) *Resource[domain.Product] {
	return &Resource[domain.Product]{
		Label:    "Product",
		Singular: "product",
		Plural:   "products",
		Store:    store.NewCollection[domain.Product](db),
		Fields: []query.FieldSpec{
			{Name: "name", Match: query.MatchContains},
			{Name: "sku", Match: query.MatchExact},
			{Name: "categoryId", Match: query.MatchID},
			{Name: "price", Match: query.MatchNumberRange},
			{Name: "inStock", Match: query.MatchBool},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"name":      "name",
			"price":     "price",
			"stock":     "stock",
		}),
		EntityID:      func(e *domain.Product) string { return e.ID },
		SetID:         func(e *domain.Product, id string) { e.ID = id },
		PrepareCreate: prepareProduct,
		PrepareUpdate: prepareProduct,
	}
}

func prepareProduct(_ *gin.Context, e *domain.Product) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return respond.BadRequest("Product name is required")
	}
	if e.Price < 0 {
		return respond.BadRequest("Price must not be negative")
	}
	if e.Stock < 0 {
		return respond.BadRequest("Stock must not be negative")
	}
	if e.CategoryID != nil && *e.CategoryID != "" {
		if _, err := uuid.Parse(*e.CategoryID); err != nil {
			return respond.BadRequest("Invalid categoryId")
		}
	}
	e.InStock = e.Stock > 0
	return nil
}
