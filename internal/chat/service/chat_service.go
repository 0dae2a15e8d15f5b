package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pingchat/internal/chat/repository"
	"pingchat/internal/dbmongo"
)

// ChatService defines the interface exposed to the handler layer. It is
// a thin pass-through over the conversation repository, with the
// addition of subscription-handle bookkeeping for shutdown cleanup.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, recipientID, text string) (*dbmongo.Message, error)
	GetMessages(ctx context.Context, userID, recipientID string) ([]*dbmongo.Message, error)
	SubscribeToMessages(ctx context.Context, userID, recipientID string) (*repository.Subscription, error)
	DeleteMessage(ctx context.Context, userID, messageID string) error
	Shutdown()
}

type chatService struct {
	repo repository.ConversationRepository

	mu   sync.Mutex
	subs map[*repository.Subscription]string // handle -> "userID-recipientID"
}

func NewChatService(repo repository.ConversationRepository) ChatService {
	return &chatService{
		repo: repo,
		subs: make(map[*repository.Subscription]string),
	}
}

func (s *chatService) SendMessage(ctx context.Context, senderID, recipientID, text string) (*dbmongo.Message, error) {
	if senderID == "" {
		return nil, errors.New("sender ID cannot be empty")
	}
	if recipientID == "" {
		return nil, errors.New("recipient ID cannot be empty")
	}

	return s.repo.Append(ctx, senderID, recipientID, strings.TrimSpace(text))
}

func (s *chatService) GetMessages(ctx context.Context, userID, recipientID string) ([]*dbmongo.Message, error) {
	if userID == "" || recipientID == "" {
		return nil, errors.New("user and recipient IDs are required")
	}

	return s.repo.List(ctx, userID, recipientID)
}

// SubscribeToMessages establishes a live query over the userID-owned
// copy of the conversation. Multiple independent subscriptions for the
// same pair may be active concurrently; each has its own handle. The
// handle is tracked until it is cancelled so Shutdown can release any
// that remain.
func (s *chatService) SubscribeToMessages(ctx context.Context, userID, recipientID string) (*repository.Subscription, error) {
	if userID == "" || recipientID == "" {
		return nil, errors.New("user and recipient IDs are required")
	}

	sub, err := s.repo.Subscribe(ctx, userID, recipientID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.subs[sub] = userID + "-" + recipientID
	s.mu.Unlock()

	go func() {
		<-sub.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	}()

	return sub, nil
}

// DeleteMessage removes the caller's own copy only; ids belonging to
// another user's subtree are never reachable through it.
func (s *chatService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	if messageID == "" {
		return errors.New("message ID is required")
	}

	return s.repo.Delete(ctx, userID, messageID)
}

// Shutdown cancels every live subscription still registered.
func (s *chatService) Shutdown() {
	s.mu.Lock()
	handles := make([]*repository.Subscription, 0, len(s.subs))
	for sub := range s.subs {
		handles = append(handles, sub)
	}
	s.mu.Unlock()

	for _, sub := range handles {
		sub.Cancel()
	}
}
