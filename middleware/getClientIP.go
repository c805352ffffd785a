package middleware

import (
	"github.com/gin-gonic/gin"
)

// TrustProxies restricts which peers may supply the client address through
// X-Forwarded-For or X-Real-IP. With no proxies, c.ClientIP() is always the
// TCP peer.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}
	return r.SetTrustedProxies(proxies)
}
