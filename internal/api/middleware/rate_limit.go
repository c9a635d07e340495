package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/pkg/redis"
	"github.com/RS76448/attendencesystem/pkg/response"
)

// RateRule is one fixed-window limit.
type RateRule struct {
	// Name scopes the counters, e.g. "auth" or "submit".
	Name    string
	Limit   int
	Window  time.Duration
	Message string
	// By picks the client identity a hit is counted against.
	By func(c *gin.Context) string
}

// ByClientIP counts hits per remote address, for public routes.
func ByClientIP(c *gin.Context) string { return "ip:" + c.ClientIP() }

// ByUser counts hits per signed-in user and falls back to the address.
// It must run after JWTAuth.
func ByUser(c *gin.Context) string {
	if uid := c.GetString(CtxUserID); uid != "" {
		return "user:" + uid
	}
	return ByClientIP(c)
}

// RateLimit enforces rule. With rdb nil, or when Redis errors, requests pass.
func RateLimit(rdb *redis.Client, rule RateRule, logger *zap.Logger) gin.HandlerFunc {
	if rule.By == nil {
		rule.By = ByClientIP
	}
	if rule.Message == "" {
		rule.Message = "too many requests, slow down"
	}

	return func(c *gin.Context) {
		if rdb == nil || rule.Limit <= 0 {
			c.Next()
			return
		}

		who := rule.By(c)
		key := fmt.Sprintf("rate_limit:%s:%s", rule.Name, who)
		allowed, retryAfter, err := rdb.CheckRateLimit(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			logger.Warn("rate limited",
				zap.String("rule", rule.Name),
				zap.String("client", who),
				zap.String("path", c.FullPath()),
			)
			response.TooManyRequests(c, rule.Message, retryAfter)
			c.Abort()
			return
		}

		c.Next()
	}
}
