package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/domain/entity"
	"github.com/warblerhq/warbler/internal/domain/repository"
)

// feedLimit caps the home feed at the newest hundred messages.
const feedLimit = 100

// MessageService owns posting, reading, and deleting messages plus the home
// feed query.
type MessageService struct {
	Messages repository.MessageRepository
	Logger   *logrus.Logger
}

// Create posts a message for the author. Text must be non-empty and at most
// entity.MaxMessageLen characters.
func (s *MessageService) Create(ctx context.Context, authorID, text string) (*entity.Message, error) {
	if len(text) == 0 || len([]rune(text)) > entity.MaxMessageLen {
		return nil, ErrInvalidText
	}
	m := &entity.Message{UserID: authorID, Text: text}
	if err := s.Messages.Create(ctx, m); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"message_id": m.ID, "user_id": authorID}).Info("message posted")
	}
	return m, nil
}

func (s *MessageService) Get(ctx context.Context, id string) (*entity.Message, error) {
	m, err := s.Messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes a message. Only the author may delete it.
func (s *MessageService) Delete(ctx context.Context, actorID, id string) error {
	m, err := s.Messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if m.UserID != actorID {
		return ErrNotOwner
	}
	return s.Messages.Delete(ctx, id)
}

// Feed returns the newest messages from the user and everyone they follow,
// most recent first.
func (s *MessageService) Feed(ctx context.Context, userID string) ([]*entity.Message, error) {
	return s.Messages.Feed(ctx, userID, feedLimit)
}
