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

// UserHandler serves user listing, profiles, profile editing, and account
// deletion.
type UserHandler struct {
	Users      *application.UserService
	Engagement *application.EngagementService
	Sessions   session.Store
	Cookies    *helpers.Manager
	Logger     *logrus.Logger
}

type updateProfileRequest struct {
	Username       string `json:"username" binding:"required,max=30"`
	Email          string `json:"email" binding:"required,email"`
	ImageURL       string `json:"image_url" binding:"omitempty,url"`
	HeaderImageURL string `json:"header_image_url" binding:"omitempty,url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	Password       string `json:"password" binding:"required"`
}

// List returns all users, or a username search when the q parameter is set.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.Success(c, http.StatusOK, usersJSON(users), "users", gin.H{"count": len(users)})
}

// Show returns any user's profile with their messages and counts.
func (h *UserHandler) Show(c *gin.Context) {
	h.renderProfile(c, c.Param("id"))
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	h.renderProfile(c, c.GetString("userID"))
}

func (h *UserHandler) renderProfile(c *gin.Context, userID string) {
	p, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, profileJSON(p), "profile", nil)
}

// UpdateProfile edits the authenticated user's profile. The current password
// must be submitted with the change; a wrong password is refused without
// revealing which field failed.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error[any](c, http.StatusUnauthorized, middleware.UnauthorizedMsg, nil)
		case errors.Is(err, application.ErrUsernameTaken):
			response.Error[any](c, http.StatusBadRequest, "username or email already taken", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, userJSON(u), "profile updated", nil)
}

// UploadImage accepts a multipart file and stores it as the avatar, or as the
// header image when kind=header.
func (h *UserHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing file", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Users.UploadProfileImage(
		c.Request.Context(),
		c.GetString("userID"),
		c.PostForm("kind"),
		f,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "image uploaded", nil)
}

// Delete removes the authenticated user's account and ends the session.
func (h *UserHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Users.DeleteAccount(c.Request.Context(), uid); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to delete account", nil)
		return
	}
	if sid := c.GetString("sessionID"); sid != "" {
		if err := h.Sessions.Delete(c.Request.Context(), sid); err != nil && h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to delete session")
		}
	}
	h.Cookies.ClearSession(c)
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "account deleted", nil)
}

// Likes lists the messages a user has liked.
func (h *UserHandler) Likes(c *gin.Context) {
	userID := c.Param("id")
	if _, err := h.Users.GetProfile(c.Request.Context(), userID); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to load likes", nil)
		return
	}
	msgs, err := h.Engagement.LikedMessages(c.Request.Context(), userID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load likes", nil)
		return
	}
	response.Success(c, http.StatusOK, messagesJSON(msgs), "liked messages", gin.H{"count": len(msgs)})
}
