package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/response"
)

// CSRFHeader carries the signed token on state-changing requests. Form posts
// may send it as the csrf_token field instead.
const (
	CSRFHeader = "X-CSRF-Token"
	CSRFField  = "csrf_token"
)

// CSRF verifies the signed token on every state-changing request. The token
// is bound to the session id set by RequireAuth, so a token stolen from one
// session is useless in another. Must run after RequireAuth.
func CSRF(mgr *helpers.CSRFManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFField)
		}
		sid := c.GetString("sessionID")
		if token == "" || sid == "" || mgr.Verify(token, sid) != nil {
			response.Error[any](c, http.StatusForbidden, "invalid csrf token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
