package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/warblerhq/warbler/internal/application"
	"github.com/warblerhq/warbler/internal/interface/middleware"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// testApp wires the full route surface over the in-memory repositories and
// the in-memory session store, mirroring the production module layout:
// browse routes public, follow-graph reads behind a session, mutations
// behind session + CSRF.
type testApp struct {
	engine   *gin.Engine
	sessions *session.MemoryStore
	db       *memDB
}

func newTestApp() *testApp {
	db := newMemDB()
	users := &memUserRepo{db: db}
	msgs := &memMessageRepo{db: db}
	follows := &memFollowRepo{db: db}
	likes := &memLikeRepo{db: db}

	userSvc := &application.UserService{Users: users, Messages: msgs, Follows: follows, Likes: likes}
	messageSvc := &application.MessageService{Messages: msgs}
	socialSvc := &application.SocialService{Users: users, Follows: follows}
	engageSvc := &application.EngagementService{Likes: likes, Messages: msgs}

	store := session.NewMemoryStore()
	cookies := helpers.NewCookie("", false)
	csrfMgr := helpers.NewCSRFManager("testsecret", time.Hour)

	authH := &AuthHandler{Users: userSvc, Sessions: store, CSRF: csrfMgr, Cookies: cookies, SessionTTL: time.Hour}
	userH := &UserHandler{Users: userSvc, Engagement: engageSvc, Sessions: store, Cookies: cookies}
	socialH := &SocialHandler{Social: socialSvc}
	messageH := &MessageHandler{Messages: messageSvc, Engagement: engageSvc, Sessions: store}

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.NoCache())
	r.GET("/", messageH.Home)

	api := r.Group("/api")
	api.POST("/signup", authH.Signup)
	api.POST("/login", authH.Login)
	api.GET("/users", userH.List)
	api.GET("/users/:id", userH.Show)
	api.GET("/messages/:id", messageH.Show)

	auth := api.Group("/")
	auth.Use(middleware.RequireAuth(store))
	{
		auth.GET("/users/:id/following", socialH.Following)
		auth.GET("/users/:id/followers", socialH.Followers)
		auth.GET("/users/:id/likes", userH.Likes)
		auth.GET("/users/profile", userH.Me)
	}
	csrf := auth.Group("/")
	csrf.Use(middleware.CSRF(csrfMgr))
	{
		csrf.POST("/logout", authH.Logout)
		csrf.POST("/users/follow/:id", socialH.Follow)
		csrf.POST("/users/stop-following/:id", socialH.Unfollow)
		csrf.POST("/users/profile", userH.UpdateProfile)
		csrf.POST("/users/delete", userH.Delete)
		csrf.POST("/messages/new", messageH.Create)
		csrf.POST("/messages/:id/delete", messageH.Delete)
		csrf.POST("/messages/:id/like", messageH.ToggleLike)
	}

	return &testApp{engine: r, sessions: store, db: db}
}

// creds carries the session cookie and CSRF token of a signed-in user.
type creds struct {
	cookie *http.Cookie
	csrf   string
	userID string
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func (a *testApp) do(t *testing.T, method, path string, body any, c *creds) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c != nil {
		req.AddCookie(c.cookie)
		if c.csrf != "" {
			req.Header.Set(middleware.CSRFHeader, c.csrf)
		}
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testApp) signup(t *testing.T, username string) *creds {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/signup", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == helpers.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "session cookie not set")
	token, _ := env.Meta["csrf_token"].(string)
	require.NotEmpty(t, token)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	userID, _ := data["id"].(string)
	require.NotEmpty(t, userID)

	return &creds{cookie: cookie, csrf: token, userID: userID}
}
