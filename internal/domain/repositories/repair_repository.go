package repositories

import (
	"context"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// RepairRepository persists transaction repairs. Update must enforce the
// optimistic version check: a mismatched expected version returns
// errors.ErrOptimisticLock.
type RepairRepository interface {
	Create(ctx context.Context, repair *entities.TransactionRepair) error
	GetByID(ctx context.Context, id string) (*entities.TransactionRepair, error)
	GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.TransactionRepair, error)
	List(ctx context.Context, filter entities.RepairFilter) ([]*entities.TransactionRepair, error)
	ListDueForRetry(ctx context.Context, now time.Time) ([]*entities.TransactionRepair, error)
	ListTimedOut(ctx context.Context, now time.Time) ([]*entities.TransactionRepair, error)
	Update(ctx context.Context, repair *entities.TransactionRepair, expectedVersion int) error
	Statistics(ctx context.Context, tenantID string) (*entities.RepairStatistics, error)
}
