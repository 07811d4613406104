package middleware

import (
	"net/http"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/logger"
	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyHeader carries a client-chosen key for a write request
	IdempotencyHeader = "Idempotency-Key"

	maxIdempotencyKeyLength = 128
)

// Idempotency rejects a repeated write carrying the same Idempotency-Key
// with 409. Keys are scoped to the caller and the route. A request that
// ends in an error gives its key back so the client can retry it. Requests
// without the header, and reads, pass through.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || store == nil || !isWrite(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		ctx := c.Request.Context()
		scoped := GetJWTTenantID(c) + ":" + GetJWTUserID(c) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			logger.FromContext(ctx).Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			abortWithError(c, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, scoped); err != nil {
				logger.FromContext(ctx).Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
