package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

var ErrEmptyMessage = errors.New("message text is required")

// --- Service Interface ---
type MessageService interface {
	PostMessage(ctx context.Context, userID, planID string, senderRole domain.Role, text string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID string) ([]domain.Message, error)
}

type messageService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewMessageService(tables *repository.Tables) MessageService {
	return &messageService{tables: tables, now: time.Now}
}

// PostMessage appends to the user's thread. Messages may reference a plan
// but the thread itself is per user.
func (s *messageService) PostMessage(ctx context.Context, userID, planID string, senderRole domain.Role, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	message := domain.Message{
		MessageID:  repository.NewID("msg"),
		UserID:     userID,
		PlanID:     planID,
		SenderRole: senderRole,
		Text:       text,
		CreatedAt:  s.now(),
	}
	if err := s.tables.AppendMessage(ctx, message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID string) ([]domain.Message, error) {
	messages, err := s.tables.Messages(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Message
	for _, m := range messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
