package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/response"
)

// UnauthorizedMsg is the single body used for every authentication failure,
// so callers cannot probe which check tripped.
const UnauthorizedMsg = "Access unauthorized"

// RequireAuth resolves the session cookie against the session store and sets
// userID and sessionID in the Gin context. Requests without a live session
// are rejected uniformly.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(helpers.SessionCookie)
		if err != nil || sid == "" {
			abortUnauthorized(c)
			return
		}
		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set("userID", sess.UserID)
		c.Set("sessionID", sess.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	response.Error[any](c, http.StatusUnauthorized, UnauthorizedMsg, nil)
	c.Abort()
}
