package repositories

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// QueuedMessageRepository persists messages awaiting delivery or
// redelivery. Claim implements the atomic "claim and set PROCESSING"
// compare-and-swap so concurrent drain workers never double-dispatch.
type QueuedMessageRepository interface {
	Enqueue(ctx context.Context, msg *entities.QueuedMessage) error
	ListDueByTopic(ctx context.Context, topic string, limit int) ([]*entities.QueuedMessage, error)
	Claim(ctx context.Context, id string) (*entities.QueuedMessage, bool, error)
	MarkDelivered(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string, nextAttemptDelaySeconds int) error
}
