package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/moneydesk/ledger_backend/utils"
)

// RequestContextMiddleware attaches the calling user and a correlation
// id to the request context. User identity comes from the X-User-Id
// header; there is no session layer in front of this service.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		ctx = utils.SetCorrelationIdInContext(ctx, cid)

		if header := c.GetHeader("X-User-Id"); header != "" {
			userId, err := strconv.Atoi(header)
			if err != nil || userId <= 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "invalid X-User-Id header",
				})
				return
			}
			ctx = utils.SetUserIdInContext(ctx, userId)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
