package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/mailer"
)

// UserService owns signup, authentication, profile, and account lifecycle.
type UserService struct {
	Users    repository.UserRepository
	Messages repository.MessageRepository
	Follows  repository.FollowRepository
	Likes    repository.LikeRepository
	Logger   *logrus.Logger

	ES           *elasticsearch.Client
	ESUsersIndex string

	GCS       *storage.Client
	GCSBucket string

	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

type UpdateProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	// Password re-authenticates the actor; the profile change is refused
	// without it.
	Password string
}

// Profile is a user together with the aggregates the profile page shows.
type Profile struct {
	User            *entity.User
	Messages        []*entity.Message
	LikesGivenCount int
	FollowingCount  int
	FollowersCount  int
}

// Signup hashes the password and inserts the user. The unique constraints on
// username/email are the source of truth for collisions; a violation surfaces
// as ErrUsernameTaken, never as a partial row.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       hash,
		ImageURL:       in.ImageURL,
		HeaderImageURL: entity.DefaultHeaderImageURL,
	}
	if u.ImageURL == "" {
		u.ImageURL = entity.DefaultImageURL
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	s.notify(ctx, mailer.NotifyJob{
		Type: mailer.TypeWelcome,
		To:   u.Email,
		Data: map[string]string{"Username": u.Username},
	})
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user signed up")
	}
	return u, nil
}

// Authenticate validates username/password and returns the user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetProfile loads a user with their messages and the counts the profile
// shows. LikesGivenCount counts likes the user has given, not received.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	msgs, err := s.Messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	likesGiven, err := s.Likes.CountGiven(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, followers, err := s.Follows.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:            u,
		Messages:        msgs,
		LikesGivenCount: likesGiven,
		FollowingCount:  following,
		FollowersCount:  followers,
	}, nil
}

// ListUsers returns all users, or a substring match on username when q is
// set. Elasticsearch serves the search when configured; the SQL fallback
// keeps the endpoint working without it.
func (s *UserService) ListUsers(ctx context.Context, q string) ([]*entity.User, error) {
	if q == "" {
		return s.Users.List(ctx)
	}
	if s.ES != nil && s.ESUsersIndex != "" {
		users, err := s.searchES(ctx, q)
		if err == nil {
			return users, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		}
	}
	return s.Users.SearchByUsername(ctx, q)
}

// UpdateProfile re-authenticates with the submitted password before applying
// any change. Empty image fields fall back to the defaults.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}

	u.Username = in.Username
	u.Email = in.Email
	u.ImageURL = in.ImageURL
	u.HeaderImageURL = in.HeaderImageURL
	u.Bio = in.Bio
	u.Location = in.Location
	if u.ImageURL == "" {
		u.ImageURL = entity.DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = entity.DefaultHeaderImageURL
	}

	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadProfileImage stores an avatar ("image") or header ("header") in GCS
// and saves the public URL on the user row.
func (s *UserService) UploadProfileImage(ctx context.Context, userID, kind string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := "profiles/" + userID + "/" + uuid.NewString() + ext
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	if kind == "header" {
		u.HeaderImageURL = url
	} else {
		u.ImageURL = url
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// DeleteAccount removes the user; their messages, follow edges, and like rows
// cascade away with the row.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.deindexUser(ctx, userID)
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("account deleted")
	}
	return nil
}

func (s *UserService) notify(ctx context.Context, job mailer.NotifyJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("type", job.Type).Warn("failed to enqueue notification")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"bio":       u.Bio,
		"location":  u.Location,
		"image_url": u.ImageURL,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: u.ID,
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) deindexUser(ctx context.Context, userID string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if res, err := req.Do(c, s.ES); err == nil {
		_ = res.Body.Close()
	}
}

// searchES performs a multi_match over username and bio, then hydrates the
// hits from the primary store so the response shape matches the SQL path.
func (s *UserService) searchES(ctx context.Context, q string) ([]*entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "bio"},
			},
		},
		"size": 50,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		u, err := s.Users.GetByID(ctx, h.ID)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}
