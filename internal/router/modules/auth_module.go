package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/internal/container"
	handlers "github.com/warblerhq/warbler/internal/interface/http"
	"github.com/warblerhq/warbler/internal/interface/middleware"
)

// AuthModule registers signup, login, and logout.
// Public: POST /api/signup, POST /api/login
// Protected (session + CSRF): POST /api/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Tight per-IP limits; these endpoints take credentials.
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	auth.Use(middleware.CSRF(container.GetCSRF()))
	{
		auth.POST("/logout", m.Handler.Logout)
	}
}
