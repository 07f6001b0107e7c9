package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/gauravsahdz/ecommerce-api/internal/respond"
)

// ErrorHandler is the single terminal error-to-response mapping. Handlers
// and downstream middleware record failures with c.Error(err) and abort;
// this wrapper converts the last recorded error into the standard error
// envelope. No handler writes its own ad hoc error JSON, which keeps every
// resource byte-for-byte consistent in error shape.
//
// dev controls whether unanticipated (500) errors carry diagnostic detail.
func ErrorHandler(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respond.WriteError(c, c.Errors.Last().Err, dev)
	}
}
