package router

import (
	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/internal/container"
	"github.com/warblerhq/warbler/internal/infrastructure/postgres"
	handlers "github.com/warblerhq/warbler/internal/interface/http"
	"github.com/warblerhq/warbler/internal/router/modules"
)

// InitModules wires repositories, services, and handlers, and registers all
// feature modules. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := postgres.NewUserRepository(pool)
	messages := postgres.NewMessageRepository(pool)
	follows := postgres.NewFollowRepository(pool)
	likes := postgres.NewLikeRepository(pool)

	var esUsersIndex string
	if cfg.ESEnabled {
		esUsersIndex = cfg.ESUsersIndex
	}

	userSvc := &application.UserService{
		Users:        users,
		Messages:     messages,
		Follows:      follows,
		Likes:        likes,
		Logger:       logger,
		ES:           container.GetES(),
		ESUsersIndex: esUsersIndex,
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
		Pub:          container.GetRabbitPub(),
		MailEnabled:  cfg.MailSendEnabled,
	}
	messageSvc := &application.MessageService{Messages: messages, Logger: logger}
	socialSvc := &application.SocialService{
		Users:       users,
		Follows:     follows,
		Logger:      logger,
		Pub:         container.GetRabbitPub(),
		MailEnabled: cfg.MailSendEnabled,
	}
	engagementSvc := &application.EngagementService{Likes: likes, Messages: messages, Logger: logger}

	authHandler := &handlers.AuthHandler{
		Users:      userSvc,
		Sessions:   container.GetSessions(),
		CSRF:       container.GetCSRF(),
		Cookies:    container.GetCookies(),
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	userHandler := &handlers.UserHandler{
		Users:      userSvc,
		Engagement: engagementSvc,
		Sessions:   container.GetSessions(),
		Cookies:    container.GetCookies(),
		Logger:     logger,
	}
	socialHandler := &handlers.SocialHandler{Social: socialSvc, Logger: logger}
	messageHandler := &handlers.MessageHandler{
		Messages:   messageSvc,
		Engagement: engagementSvc,
		Sessions:   container.GetSessions(),
		Logger:     logger,
	}

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler, socialHandler))
	r.Add(modules.NewMessageModule(messageHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	// Home serves the feed for signed-in users and the landing payload for
	// everyone else, on the bare root rather than under /api.
	r.Engine.GET("/", messageHandler.Home)
}
