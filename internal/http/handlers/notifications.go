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

// NewNotificationResource wires the notification endpoints.
func NewNotificationResource(db *gorm.DB, opt query.Options) *Resource[domain.Notification] {
	return &Resource[domain.Notification]{
		Label:    "Notification",
		Singular: "notification",
		Plural:   "notifications",
		Store:    store.NewCollection[domain.Notification](db),
		Fields: []query.FieldSpec{
			{Name: "userId", Match: query.MatchID},
			{Name: "kind", Match: query.MatchIn},
			{Name: "isRead", Match: query.MatchBool},
			{Name: "date", Column: "created_at", Match: query.MatchDateRange},
		},
		Options: withSort(opt, map[string]string{
			"createdAt": "created_at",
			"updatedAt": "updated_at",
		}),
		EntityID:      func(e *domain.Notification) string { return e.ID },
		SetID:         func(e *domain.Notification, id string) { e.ID = id },
		PrepareCreate: prepareNotification,
		PrepareUpdate: prepareNotification,
	}
}

func prepareNotification(_ *gin.Context, e *domain.Notification) error {
	if _, err := uuid.Parse(e.UserID); err != nil {
		return respond.BadRequest("Invalid userId")
	}
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return respond.BadRequest("Notification title is required")
	}
	if e.Kind == "" {
		e.Kind = "info"
	}
	return nil
}
