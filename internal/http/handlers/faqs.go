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

// NewFaqResource wires the FAQ endpoints.
func NewFaqResource(db *gorm.DB, opt query.Options) *Resource[domain.Faq] {
	return &Resource[domain.Faq]{
		Label:    "FAQ",
		Singular: "faq",
		Plural:   "faqs",
		Store:    store.NewCollection[domain.Faq](db),
		Fields: []query.FieldSpec{
			{Name: "question", Match: query.MatchContains},
			{Name: "category", Match: query.MatchExact},
			{Name: "isActive", Match: query.MatchBool},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
			"order":     "\"order\"",
		}),
		EntityID:      func(e *domain.Faq) string { return e.ID },
		SetID:         func(e *domain.Faq, id string) { e.ID = id },
		PrepareCreate: prepareFaq,
		PrepareUpdate: prepareFaq,
	}
}

func prepareFaq(_ *gin.Context, e *domain.Faq) error {
	e.Question = strings.TrimSpace(e.Question)
	e.Answer = strings.TrimSpace(e.Answer)
	if e.Question == "" {
		return respond.BadRequest("FAQ question is required")
	}
	if e.Answer == "" {
		return respond.BadRequest("FAQ answer is required")
	}
	return nil
}
