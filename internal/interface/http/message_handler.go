package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/internal/interface/middleware"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/response"
	"github.com/warblerhq/warbler/pkg/validation"
)

// MessageHandler serves posting, reading, deleting, and liking messages,
// plus the home feed.
type MessageHandler struct {
	Messages   *application.MessageService
	Engagement *application.EngagementService
	Sessions   session.Store
	Logger     *logrus.Logger
}

type newMessageRequest struct {
	Text string `json:"text" binding:"required,msgtext"`
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req newMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Messages.Create(c.Request.Context(), c.GetString("userID"), req.Text)
	if err != nil {
		if errors.Is(err, application.ErrInvalidText) {
			response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to post message", nil)
		return
	}
	response.Success(c, http.StatusCreated, messageJSON(m), "message posted", nil)
}

func (h *MessageHandler) Show(c *gin.Context) {
	m, err := h.Messages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrMessageNotFound) {
			response.Error[any](c, http.StatusNotFound, "message not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load message", nil)
		return
	}
	response.Success(c, http.StatusOK, messageJSON(m), "message", nil)
}

// Delete removes a message. Only the author may delete; anyone else gets the
// uniform unauthorized body.
func (h *MessageHandler) Delete(c *gin.Context) {
	err := h.Messages.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMessageNotFound):
			response.Error[any](c, http.StatusNotFound, "message not found", nil)
		case errors.Is(err, application.ErrNotOwner):
			response.Error[any](c, http.StatusForbidden, middleware.UnauthorizedMsg, nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to delete message", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "message deleted", nil)
}

// ToggleLike flips the like state and reports the result, so the client
// never needs to know the prior state.
func (h *MessageHandler) ToggleLike(c *gin.Context) {
	liked, err := h.Engagement.ToggleLike(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMessageNotFound):
			response.Error[any](c, http.StatusNotFound, "message not found", nil)
		case errors.Is(err, application.ErrSelfLike):
			response.Error[any](c, http.StatusForbidden, "cannot like your own message", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to toggle like", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"liked": liked}, "like toggled", nil)
}

// Home serves the root. Logged-in users get their feed, the newest messages
// from themselves and everyone they follow; anonymous visitors get the
// landing payload.
func (h *MessageHandler) Home(c *gin.Context) {
	sid, err := c.Cookie(helpers.SessionCookie)
	if err == nil && sid != "" {
		if sess, serr := h.Sessions.Get(c.Request.Context(), sid); serr == nil {
			msgs, ferr := h.Messages.Feed(c.Request.Context(), sess.UserID)
			if ferr != nil {
				response.Error[any](c, http.StatusInternalServerError, "failed to load feed", nil)
				return
			}
			response.Success(c, http.StatusOK, messagesJSON(msgs), "feed", gin.H{"count": len(msgs)})
			return
		}
	}
	response.Success[any](c, http.StatusOK, gin.H{"signed_in": false}, "welcome to warbler", nil)
}
