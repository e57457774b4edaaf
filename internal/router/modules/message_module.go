package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/internal/container"
	handlers "github.com/warblerhq/warbler/internal/interface/http"
	"github.com/warblerhq/warbler/internal/interface/middleware"
)

// MessageModule registers message CRUD and the like toggle. Reading a
// single message is public; everything else requires a live session.
type MessageModule struct {
	Handler *handlers.MessageHandler
}

func NewMessageModule(h *handlers.MessageHandler) *MessageModule {
	return &MessageModule{Handler: h}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	browse := rg.Group("/")
	browse.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		browse.GET("/messages/:id", m.Handler.Show)
	}

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	csrf := auth.Group("/")
	csrf.Use(middleware.CSRF(container.GetCSRF()))
	{
		// Posting gets its own tighter limit on top of the group limit.
		postLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)
		csrf.POST("/messages/new", postLimiter, m.Handler.Create)
		csrf.POST("/messages/:id/delete", m.Handler.Delete)
		csrf.POST("/messages/:id/like", m.Handler.ToggleLike)
	}
}
