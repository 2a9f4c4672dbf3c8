package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

// InMemoryQueuedMessageRepository is a mutex-guarded map store for queued
// messages. Claim implements an atomic "claim and set PROCESSING"
// compare-and-swap so two drain workers never double-dispatch the same
// message, modeled on a Redis sorted-set FetchDue/claim contract but kept
// in-process since no durable queue backend is wired for this domain.
type InMemoryQueuedMessageRepository struct {
	mu       sync.Mutex
	messages map[string]*entities.QueuedMessage
}

// NewInMemoryQueuedMessageRepository constructs an empty store.
func NewInMemoryQueuedMessageRepository() domainrepos.QueuedMessageRepository {
	return &InMemoryQueuedMessageRepository{
		messages: make(map[string]*entities.QueuedMessage),
	}
}

func (s *InMemoryQueuedMessageRepository) Enqueue(ctx context.Context, msg *entities.QueuedMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	msg.Status = entities.MessageStatusQueued
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *InMemoryQueuedMessageRepository) ListDueByTopic(ctx context.Context, topic string, limit int) ([]*entities.QueuedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var due []*entities.QueuedMessage
	for _, m := range s.messages {
		if m.Topic != topic || m.Status != entities.MessageStatusQueued {
			continue
		}
		if m.NextAttemptAt != nil && m.NextAttemptAt.After(now) {
			continue
		}
		cp := *m
		due = append(due, &cp)
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Claim atomically transitions a QUEUED message to PROCESSING. It returns
// (msg, false, nil) when the message is missing or was already claimed by
// another worker.
func (s *InMemoryQueuedMessageRepository) Claim(ctx context.Context, id string) (*entities.QueuedMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, false, nil
	}
	if m.Status != entities.MessageStatusQueued {
		return nil, false, nil
	}

	m.Status = entities.MessageStatusProcessing
	m.Attempts++
	m.UpdatedAt = time.Now()
	cp := *m
	return &cp, true, nil
}

func (s *InMemoryQueuedMessageRepository) MarkDelivered(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	m.Status = entities.MessageStatusDelivered
	m.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryQueuedMessageRepository) MarkFailed(ctx context.Context, id string, reason string, nextAttemptDelaySeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return domainerrors.ErrNotFound
	}

	m.LastError = reason
	m.UpdatedAt = time.Now()
	if m.IsExhausted() {
		m.Status = entities.MessageStatusDeadLetter
		return nil
	}

	m.Status = entities.MessageStatusQueued
	next := time.Now().Add(time.Duration(nextAttemptDelaySeconds) * time.Second)
	m.NextAttemptAt = &next
	return nil
}
