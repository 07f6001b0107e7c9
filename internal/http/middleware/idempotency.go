// Replay protection for order submission.
//
// Clients may send an Idempotency-Key header on POST /orders. The key is
// claimed with an insert before the mutation runs, so the unique index on
// (scope, key) decides races: of two concurrent requests with the same key,
// exactly one claim succeeds and the other is rejected with 409. A claim
// whose mutation fails is released so the client can retry with the same
// key. Requests without the header are unaffected.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gauravsahdz/ecommerce-api/internal/domain"
	"github.com/gauravsahdz/ecommerce-api/internal/respond"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 200

// Idempotency returns a middleware guarding one mutation scope (e.g.
// "orders") with persisted idempotency keys valid for ttl.
func Idempotency(db *gorm.DB, scope string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			c.Error(respond.BadRequest("Idempotency-Key too long"))
			c.Abort()
			return
		}

		now := time.Now().UTC()
		claimed, err := claimKey(c.Request.Context(), db, scope, key, now, ttl)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if !claimed {
			c.Error(respond.Conflict("Duplicate request"))
			c.Abort()
			return
		}

		c.Next()

		// Release the claim when the guarded mutation did not succeed, so a
		// failed attempt can be retried with the same key.
		if s := c.Writer.Status(); s < http.StatusOK || s >= http.StatusMultipleChoices {
			err := db.Where("scope = ? AND key = ?", scope, key).
				Delete(&domain.IdempotencyKey{}).Error
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency key not released")
			}
		}
	}
}

// claimKey records (scope, key) and reports whether this request now owns
// it. The insert races against concurrent claimants on the unique index; on
// conflict the existing row is taken over only when its TTL has lapsed,
// again atomically via the conditioned update.
func claimKey(ctx context.Context, db *gorm.DB, scope, key string, now time.Time, ttl time.Duration) (bool, error) {
	rec := domain.IdempotencyKey{
		ID:        uuid.NewString(),
		Key:       key,
		Scope:     scope,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	err := db.WithContext(ctx).Create(&rec).Error
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return false, err
	}

	res := db.WithContext(ctx).Model(&domain.IdempotencyKey{}).
		Where("scope = ? AND key = ? AND expires_at <= ?", scope, key, now).
		Updates(map[string]any{"created_at": now, "expires_at": now.Add(ttl)})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
