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

// NewCustomerResource wires the customer endpoints.
func NewCustomerResource(db *gorm.DB, opt query.Options) *Resource[domain.Customer] {
	return &Resource[domain.Customer]{
		Label:    "Customer",
		Singular: "customer",
		Plural:   "customers",
		Store:    store.NewCollection[domain.Customer](db),
		Fields: []query.FieldSpec{
			{Name: "name", Match: query.MatchContains},
			{Name: "email", Match: query.MatchExact},
			{Name: "phone", Match: query.MatchExact},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"name":      "name",
			"email":     "email",
		}),
		EntityID:      func(e *domain.Customer) string { return e.ID },
		SetID:         func(e *domain.Customer, id string) { e.ID = id },
		PrepareCreate: prepareCustomer,
		PrepareUpdate: prepareCustomer,
	}
}

func prepareCustomer(_ *gin.Context, e *domain.Customer) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	if e.Name == "" {
		return respond.BadRequest("Customer name is required")
	}
	if e.Email == "" {
		return respond.BadRequest("Customer email is required")
	}
	return nil
}
