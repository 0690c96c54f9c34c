package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"busbenin/internal/shared/utils/response"
	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the per-route-class limit to every request.
// Redis failures let the request through.
func Middleware(rateLimiter *RateLimiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			if log != nil {
				log.Warn("rate limit check failed", "error", err, "ip", clientIP, "type", string(limitType))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			if log != nil {
				log.LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			}
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"):
		return RateLimitTypeHealth

	// aggregator callbacks arrive in bursts from a few IPs
	case strings.Contains(path, "/payments/webhook"):
		return RateLimitTypeWebhook

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/analytics"):
		return RateLimitTypeAnalytics

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/reservations/") &&
		(strings.HasSuffix(path, "/pay") || strings.HasSuffix(path, "/verify")):
		return RateLimitTypePayment

	case strings.Contains(path, "/reservations"):
		return RateLimitTypeReservation

	case strings.Contains(path, "/trajets"),
		strings.Contains(path, "/compagnies"),
		strings.Contains(path, "/destinations"),
		strings.Contains(path, "/avis"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := c.GetHeader("X-Real-IP"); net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
