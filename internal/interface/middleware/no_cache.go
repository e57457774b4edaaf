package middleware

import "github.com/gin-gonic/gin"

// NoCache forbids caching on every response. Feeds, profiles, and like
// states change per request and must never be served stale.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
