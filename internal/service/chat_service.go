package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jinzhu/copier"
	"github.com/lshigami/mbti-compass/internal/dto"
	"github.com/lshigami/mbti-compass/internal/model"
	"github.com/lshigami/mbti-compass/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	greetingReply = "Hello! I'm here to help you explore your personality and guide you on a journey of self-discovery. How are you feeling today?"
	resultsReply  = "Based on your test results, you have an %s personality type. This means you tend to be..."
	defaultReply  = "That's interesting. Tell me more about how that makes you feel. Understanding yourself better is a continuous journey."
)

var (
	greetingWords = map[string]struct{}{"hello": {}, "hi": {}, "hey": {}}
	resultWords   = map[string]struct{}{"personality": {}, "type": {}, "types": {}, "result": {}, "results": {}}
)

// ChatService is a rule-based companion. Every exchange is stored.
type ChatService interface {
	PostMessage(ctx context.Context, req dto.ChatMessageRequest) (*dto.ChatMessageResponse, error)
	History(ctx context.Context, userID uint) ([]dto.ChatMessageResponse, error)
}

type chatService struct {
	users    repository.UserRepository
	results  repository.TestResultRepository
	messages repository.ChatMessageRepository
	now      func() time.Time
}

func NewChatService(
	users repository.UserRepository,
	results repository.TestResultRepository,
	messages repository.ChatMessageRepository,
) ChatService {
	return &chatService{
		users:    users,
		results:  results,
		messages: messages,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) PostMessage(ctx context.Context, req dto.ChatMessageRequest) (*dto.ChatMessageResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if err := ensureUser(ctx, s.users, req.UserID); err != nil {
		return nil, err
	}

	incoming := model.ChatMessage{UserID: req.UserID, Message: req.Message, IsUser: true, Timestamp: s.now()}
	if err := s.messages.Create(ctx, &incoming); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("Failed to store chat message")
		return nil, fmt.Errorf("store chat message: %w", err)
	}

	personality := ""
	latest, err := s.results.FindLatestByUser(ctx, req.UserID)
	switch {
	case err == nil:
		personality = latest.PersonalityType
	case !errors.Is(err, repository.ErrRecordNotFound):
		log.Warn().Err(err).Uint("userID", req.UserID).Msg("Replying without personality type")
	}

	reply := model.ChatMessage{UserID: req.UserID, Message: Reply(text, personality), IsUser: false, Timestamp: s.now()}
	if err := s.messages.Create(ctx, &reply); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("Failed to store chat reply")
		return nil, fmt.Errorf("store chat reply: %w", err)
	}

	var resp dto.ChatMessageResponse
	if err := copier.Copy(&resp, &reply); err != nil {
		return nil, fmt.Errorf("error preparing chat response: %w", err)
	}
	return &resp, nil
}

func (s *chatService) History(ctx context.Context, userID uint) ([]dto.ChatMessageResponse, error) {
	if err := ensureUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	messages, err := s.messages.FindAllByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load chat history")
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	resp := make([]dto.ChatMessageResponse, 0, len(messages))
	if len(messages) == 0 {
		return resp, nil
	}
	if err := copier.Copy(&resp, &messages); err != nil {
		return nil, fmt.Errorf("error preparing chat history: %w", err)
	}
	return resp, nil
}

// Reply picks the canned answer for text. Keywords match whole words only.
// Greetings win over result questions, which need a known personality type.
func Reply(text, personalityType string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if containsAny(words, greetingWords) {
		return greetingReply
	}
	if personalityType != "" && containsAny(words, resultWords) {
		return fmt.Sprintf(resultsReply, personalityType)
	}
	return defaultReply
}

func containsAny(words []string, set map[string]struct{}) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
