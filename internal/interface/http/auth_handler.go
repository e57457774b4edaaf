package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/response"
	"github.com/warblerhq/warbler/pkg/validation"
)

// AuthHandler owns signup, login, and logout. Login state is an opaque
// session id in a cookie; the CSRF token returned alongside must accompany
// every state-changing request.
type AuthHandler struct {
	Users      *application.UserService
	Sessions   session.Store
	CSRF       *helpers.CSRFManager
	Cookies    *helpers.Manager
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

type signupRequest struct {
	Username string `json:"username" binding:"required,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Signup(c.Request.Context(), application.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, application.ErrUsernameTaken) {
			response.Error[any](c, http.StatusBadRequest, "username or email already taken", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "signup failed", nil)
		return
	}
	h.startSession(c, u.ID, http.StatusCreated, userJSON(u), "account created")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.startSession(c, u.ID, http.StatusOK, userJSON(u), "login successful")
}

// Logout destroys the server-side session and clears the cookie. Runs behind
// RequireAuth, so the session id in the context is always live.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString("sessionID")
	if err := h.Sessions.Delete(c.Request.Context(), sid); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("failed to delete session")
	}
	h.Cookies.ClearSession(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) startSession(c *gin.Context, userID string, status int, data gin.H, msg string) {
	sess, err := h.Sessions.Create(c.Request.Context(), userID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create session", nil)
		return
	}
	token, err := h.CSRF.Issue(sess.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to issue csrf token", nil)
		return
	}
	h.Cookies.SetSession(c, sess.ID, h.SessionTTL)
	response.Success(c, status, data, msg, gin.H{"csrf_token": token})
}
