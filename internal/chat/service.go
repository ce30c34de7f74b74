package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/models"
)

var (
	ErrThreadNotFound = errors.New("chat thread not found")
	ErrNotOwner       = errors.New("chat thread belongs to another user")
)

// Keyword replies, checked in order; the last entry is the fallback.
var botReplies = []struct {
	keyword  string
	response string
}{
	{"help", "How can I assist you with Scryptex today?"},
	{"airdrop", "Our airdrop analyzer helps you identify legitimate airdrops and avoid scams."},
	{"farming", "Scryptex can help you identify the best farming opportunities across different chains."},
	{"price", "I can't provide real-time price data, but our analysis tools can help with tokenomics research."},
}

const defaultReply = "Thanks for your message! Our team will review and get back to you soon."

// Store is the persistence interface the chat service needs.
type Store interface {
	CreateThread(ctx context.Context, t *models.ChatThread) error
	GetThread(ctx context.Context, id string) (*models.ChatThread, error)
	ListThreads(ctx context.Context, userID string) ([]models.ChatThread, error)
	AppendMessages(ctx context.Context, threadID string, msgs []models.ChatMessage) error
}

type Service interface {
	Send(ctx context.Context, userID *string, threadID *string, content string) (string, *models.ChatMessage, error)
	Threads(ctx context.Context, userID string) ([]models.ChatThread, error)
	Thread(ctx context.Context, userID, threadID string) (*models.ChatThread, error)
}

type service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) Service {
	return &service{store: store, now: time.Now}
}

var _ Service = (*service)(nil)

// Send records the user message plus the bot reply on the thread,
// creating a fresh thread when none was given.
func (s *service) Send(ctx context.Context, userID *string, threadID *string, content string) (string, *models.ChatMessage, error) {
	var id string
	if threadID != nil && *threadID != "" {
		thread, err := s.store.GetThread(ctx, *threadID)
		if err != nil {
			return "", nil, err
		}
		if thread == nil {
			return "", nil, ErrThreadNotFound
		}
		id = thread.ID
	} else {
		id = ids.New("chat_")
		if err := s.store.CreateThread(ctx, &models.ChatThread{
			ID:       id,
			UserID:   userID,
			Messages: []models.ChatMessage{},
		}); err != nil {
			return "", nil, err
		}
	}

	now := s.now().UTC()
	userMsg := models.ChatMessage{Content: content, Sender: "user", Timestamp: now}
	botMsg := models.ChatMessage{Content: replyFor(content), Sender: "bot", Timestamp: now}
	if err := s.store.AppendMessages(ctx, id, []models.ChatMessage{userMsg, botMsg}); err != nil {
		return "", nil, err
	}
	return id, &botMsg, nil
}

func (s *service) Threads(ctx context.Context, userID string) ([]models.ChatThread, error) {
	return s.store.ListThreads(ctx, userID)
}

func (s *service) Thread(ctx context.Context, userID, threadID string) (*models.ChatThread, error) {
	thread, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	if thread.UserID != nil && *thread.UserID != userID {
		return nil, ErrNotOwner
	}
	return thread, nil
}

func replyFor(content string) string {
	lower := strings.ToLower(content)
	for _, r := range botReplies {
		if strings.Contains(lower, r.keyword) {
			return r.response
		}
	}
	return defaultReply
}
