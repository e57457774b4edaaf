package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warblerhq/warbler/internal/container"
	handlers "github.com/warblerhq/warbler/internal/interface/http"
	"github.com/warblerhq/warbler/internal/interface/middleware"
)

// UserModule registers user browsing, profile management, and the follow
// graph. Browsing (list/search, profiles) is public; the follow-graph
// listings and own-profile routes require a live session, and state-changing
// routes also require the CSRF token.
type UserModule struct {
	Users  *handlers.UserHandler
	Social *handlers.SocialHandler
}

func NewUserModule(u *handlers.UserHandler, s *handlers.SocialHandler) *UserModule {
	return &UserModule{Users: u, Social: s}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	browse := rg.Group("/")
	browse.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		browse.GET("/users", m.Users.List)
		browse.GET("/users/:id", m.Users.Show)
	}

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(container.GetSessions()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/users/:id/following", m.Social.Following)
		auth.GET("/users/:id/followers", m.Social.Followers)
		auth.GET("/users/:id/likes", m.Users.Likes)
		auth.GET("/users/profile", m.Users.Me)
	}

	// State-changing routes carry the CSRF check on top of auth.
	csrf := auth.Group("/")
	csrf.Use(middleware.CSRF(container.GetCSRF()))
	{
		csrf.POST("/users/follow/:id", m.Social.Follow)
		csrf.POST("/users/stop-following/:id", m.Social.Unfollow)
		csrf.POST("/users/profile", m.Users.UpdateProfile)
		csrf.POST("/users/profile/image", m.Users.UploadImage)
		csrf.POST("/users/delete", m.Users.Delete)
	}
}
