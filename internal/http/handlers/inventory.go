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

// NewInventoryResource wires the inventory endpoints, tracking stock per
// product and location.
func NewInventoryResource(db *gorm.DB, opt query.Options) *Resource[domain.InventoryItem] {
	return &Resource[domain.InventoryItem]{
		Label:    "Inventory item",
		Singular: "inventoryItem",
		Plural:   "inventoryItems",
		Store:    store.NewCollection[domain.InventoryItem](db),
		Fields: []query.FieldSpec{
			{Name: "productId", Match: query.MatchID},
			{Name: "location", Match: query.MatchExact},
			{Name: "quantity", Match: query.MatchNumberRange},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"quantity":  "quantity",
			"location":  "location",
		}),
		EntityID:      func(e *domain.InventoryItem) string { return e.ID },
		SetID:         func(e *domain.InventoryItem, id string) { e.ID = id },
		PrepareCreate: prepareInventoryItem,
		PrepareUpdate: prepareInventoryItem,
	}
}

func prepareInventoryItem(_ *gin.Context, e *domain.InventoryItem) error {
	if _, err := uuid.Parse(e.ProductID); err != nil {
		return respond.BadRequest("Invalid productId")
	}
	e.Location = strings.TrimSpace(e.Location)
	if e.Location == "" {
		return respond.BadRequest("Inventory location is required")
	}
	if e.Quantity < 0 || e.Reserved < 0 {
		return respond.BadRequest("Quantities must not be negative")
	}
	if e.Reserved > e.Quantity {
		return respond.BadRequest("Reserved stock cannot exceed quantity")
	}
	return nil
}
