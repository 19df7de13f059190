package middleware

import (
	"github.com/gin-gonic/gin"
)

const ctxRealIP = "real_ip"

// TrustProxies limits forwarding headers to the given proxies. With no
// proxies only the socket address counts. Cloudflare makes gin read
// CF-Connecting-IP first.
func TrustProxies(r *gin.Engine, proxies []string, cloudflare bool) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return err
	}
	if cloudflare {
		r.TrustedPlatform = gin.PlatformCloudflare
	}
	return nil
}

// RealIP sets the client IP into the Gin context (key: "real_ip").
// Forwarding headers only count when the engine trusts the sender.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxRealIP, c.ClientIP())
		c.Next()
	}
}

// ClientIP returns the address chosen by RealIP, or "unknown".
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ctxRealIP); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
