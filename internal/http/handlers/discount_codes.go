package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/query"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
	"github.com/gauravsahdz/ecommerce-api/internal/store"
)

// NewDiscountCodeResource wires the discount-code endpoints. Codes are
// normalized to upper case; uniqueness is enforced by the database and a
// duplicate surfaces as a 409 naming the code column.
func NewDiscountCodeResource(db *gorm.DB, opt query.Options) *Resource[domain.DiscountCode] {
	return &Resource[domain.DiscountCode]{
		Label:    "Discount code",
		Singular: "discountCode",
		Plural:   "discountCodes",
		Store:    store.NewCollection[domain.DiscountCode](db),
		Fields: []query.FieldSpec{
			{Name: "code", Match: query.MatchExact},
			{Name: "isActive", Match: query.MatchBool},
			{Name: "percent", Match: query.MatchNumberRange},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"code":      "code",
			"percent":   "percent",
		}),
		EntityID:      func(e *domain.DiscountCode) string { return e.ID },
		SetID:         func(e *domain.DiscountCode, id string) { e.ID = id },
		PrepareCreate: prepareDiscountCode,
		PrepareUpdate: prepareDiscountCode,
	}
}

func prepareDiscountCode(_ *gin.Context, e *domain.DiscountCode) error {
	e.Code = strings.ToUpper(strings.TrimSpace(e.Code))
	if e.Code == "" {
		return respond.BadRequest("Discount code is required")
	}
	if e.Percent <= 0 || e.Percent > 100 {
		return respond.BadRequest("Percent must be between 0 and 100")
	}
	if e.ValidFrom != nil && e.ValidUntil != nil && e.ValidUntil.Before(*e.ValidFrom) {
		return respond.BadRequest("validUntil must not precede validFrom")
	}
	return nil
}
