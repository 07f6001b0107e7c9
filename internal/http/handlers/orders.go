package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// NewOrderResource wires the order endpoints. Orders carry their item lines
// on every read; item foreign keys are validated before any write so a typo
// in a product id is rejected as a 400 rather than persisted.
func NewOrderResource(db *gorm.DB, opt query.Options) *Resource[domain.Order] {
	return &Resource[domain.Order]{
		Label:    "Order",
		Singular: "order",
		Plural:   "orders",
		Store:    store.NewCollection[domain.Order](db).WithPreloads("Items"),
		Fields: []query.FieldSpec{
			{Name: "customerId", Match: query.MatchID},
			{Name: "status", Match: query.MatchIn},
			{Name: "discountCodeId", Match: query.MatchID},
			{Name: "total", Match: query.MatchNumberRange},
			{Name: "date", Column: "created_at", Match: query.MatchDateRange},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"total":     "total",
			"status":    "status",
		}),
		EntityID:      func(e *domain.Order) string { return e.ID },
		SetID:         func(e *domain.Order, id string) { e.ID = id },
		PrepareCreate: prepareOrder,
		PrepareUpdate: prepareOrder,
	}
}

func prepareOrder(_ *gin.Context, e *domain.Order) error {
	if _, err := uuid.Parse(e.CustomerID); err != nil {
		return respond.BadRequest("Invalid customerId")
	}
	if e.DiscountCodeID != nil && *e.DiscountCodeID != "" {
		if _, err := uuid.Parse(*e.DiscountCodeID); err != nil {
			return respond.BadRequest("Invalid discountCodeId")
		}
	}
	if len(e.Items) == 0 {
		return respond.BadRequest("Order must contain at least one item")
	}

	var total float64
	for i := range e.Items {
		it := &e.Items[i]
		if _, err := uuid.Parse(it.ProductID); err != nil {
			return respond.BadRequest("Invalid productId")
		}
		if it.Quantity <= 0 {
			return respond.BadRequest("Item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return respond.BadRequest("Item unitPrice must not be negative")
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = e.ID
		total += float64(it.Quantity) * it.UnitPrice
	}

	// The stored total is derived from the lines unless the client priced the
	// order explicitly (discounts applied upstream).
	if e.Total == 0 {
		e.Total = total
	}
	if e.Status == "" {
		e.Status = "pending"
	}
	return nil
}
