package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

// EngagementService owns the like relationship between users and messages.
type EngagementService struct {
	Likes    repository.LikeRepository
	Messages repository.MessageRepository
	Logger   *logrus.Logger
}

// ToggleLike flips the actor's like on a message and reports the resulting
// state. Liking your own message is refused. The flip runs in a single
// transaction, so two concurrent toggles settle on one of the two valid
// states rather than erroring.
func (s *EngagementService) ToggleLike(ctx context.Context, actorID, messageID string) (bool, error) {
	m, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrMessageNotFound
		}
		return false, err
	}
	if m.UserID == actorID {
		return false, ErrSelfLike
	}
	liked, err := s.Likes.Toggle(ctx, messageID, actorID)
	if err != nil {
		return false, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"message_id": messageID,
			"user_id":    actorID,
			"liked":      liked,
		}).Info("like toggled")
	}
	return liked, nil
}

// LikedMessages lists the messages a user has liked, newest like first.
func (s *EngagementService) LikedMessages(ctx context.Context, userID string) ([]*entity.Message, error) {
	return s.Likes.ListLikedMessages(ctx, userID)
}

// HasLiked reports whether the user currently likes the message.
func (s *EngagementService) HasLiked(ctx context.Context, userID, messageID string) (bool, error) {
	return s.Likes.Exists(ctx, messageID, userID)
}
