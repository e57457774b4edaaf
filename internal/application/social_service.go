package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
	"github.com/warblerhq/warbler/pkg/helpers"
	"github.com/warblerhq/warbler/pkg/mailer"
)

// SocialService owns the follow graph.
type SocialService struct {
	Users   repository.UserRepository
	Follows repository.FollowRepository
	Logger  *logrus.Logger

	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

// Follow creates a follow edge from actor to target. Following an already
// followed user is a no-op; following yourself is refused. The new-follower
// notification fires only when a new edge was actually created.
func (s *SocialService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfFollow
	}
	target, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	created, err := s.Follows.Add(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if s.Pub != nil && s.MailEnabled {
		actor, aerr := s.Users.GetByID(ctx, actorID)
		if aerr == nil {
			job := mailer.NotifyJob{
				Type: mailer.TypeNewFollower,
				To:   target.Email,
				Data: map[string]string{
					"Username":         target.Username,
					"FollowerUsername": actor.Username,
				},
			}
			if perr := s.Pub.PublishJSON(ctx, job); perr != nil && s.Logger != nil {
				s.Logger.WithError(perr).Warn("failed to enqueue follower notification")
			}
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"follower_id": actorID, "followed_id": targetID}).Info("follow created")
	}
	return nil
}

// Unfollow removes the edge if present. Removing a missing edge is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID string) error {
	return s.Follows.Remove(ctx, actorID, targetID)
}

func (s *SocialService) Following(ctx context.Context, userID string) ([]*entity.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.Follows.ListFollowing(ctx, userID)
}

func (s *SocialService) Followers(ctx context.Context, userID string) ([]*entity.User, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.Follows.ListFollowers(ctx, userID)
}

// IsFollowing reports whether follower currently follows followed.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.Follows.Exists(ctx, followerID, followedID)
}

func (s *SocialService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
