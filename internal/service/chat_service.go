package service

import (
	"context"
	"errors"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEmptyMessage  = errors.New("message text cannot be empty")
	ErrInvalidSender = errors.New("sender must be trainer or student")
)

type ChatService interface {
	// SendMessage appends one message to the athlete's log; the creation
	// timestamp is stamped server-side.
	SendMessage(ctx context.Context, athleteID primitive.ObjectID, sender domain.Role, text string) (*domain.Message, error)
	// History returns the newest messages (capped) in ascending order.
	History(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Message, error)
}

// chatService implements the ChatService interface.
type chatService struct {
	messageRepo repository.MessageRepository
	athleteRepo repository.AthleteRepository
}

// NewChatService creates a new instance of chatService.
func NewChatService(messageRepo repository.MessageRepository, athleteRepo repository.AthleteRepository) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		athleteRepo: athleteRepo,
	}
}

// SendMessage validates and appends a chat message.
func (s *chatService) SendMessage(ctx context.Context, athleteID primitive.ObjectID, sender domain.Role, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if sender != domain.RoleTrainer && sender != domain.RoleStudent {
		return nil, ErrInvalidSender
	}
	if _, err := s.athleteRepo.GetByID(ctx, athleteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}

	message := &domain.Message{
		AthleteID: athleteID,
		Sender:    sender,
		Text:      text,
	}

	messageID, err := s.messageRepo.Append(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = messageID
	return message, nil
}

// History returns the conversation, oldest first, capped to the most recent
// domain.ChatHistoryLimit messages.
func (s *chatService) History(ctx context.Context, athleteID primitive.ObjectID) ([]domain.Message, error) {
	return s.messageRepo.ListByAthlete(ctx, athleteID, domain.ChatHistoryLimit)
}
