package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/pkg/response"
)

// SocialHandler serves the follow graph endpoints.
type SocialHandler struct {
	Social *application.SocialService
	Logger *logrus.Logger
}

// Follow makes the authenticated user follow the target. Repeating the call
// is a no-op that still succeeds.
func (h *SocialHandler) Follow(c *gin.Context) {
	actorID := c.GetString("userID")
	targetID := c.Param("id")
	if err := h.Social.Follow(c.Request.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, application.ErrSelfFollow):
			response.Error[any](c, http.StatusBadRequest, "cannot follow yourself", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to follow", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": true}, "following", nil)
}

// Unfollow removes the follow edge if present; removing a missing edge still
// succeeds.
func (h *SocialHandler) Unfollow(c *gin.Context) {
	actorID := c.GetString("userID")
	targetID := c.Param("id")
	if err := h.Social.Unfollow(c.Request.Context(), actorID, targetID); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to unfollow", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"following": false}, "stopped following", nil)
}

func (h *SocialHandler) Following(c *gin.Context) {
	users, err := h.Social.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderListError(c, err)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "following", gin.H{"count": len(users)})
}

func (h *SocialHandler) Followers(c *gin.Context) {
	users, err := h.Social.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderListError(c, err)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "followers", gin.H{"count": len(users)})
}

func (h *SocialHandler) renderListError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Error[any](c, http.StatusInternalServerError, "failed to load users", nil)
}
