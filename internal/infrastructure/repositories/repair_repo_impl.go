package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	domainrepos "github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
)

type repairRepo struct {
	db *gorm.DB
}

// NewRepairRepository constructs a GORM-backed RepairRepository.
func NewRepairRepository(db *gorm.DB) domainrepos.RepairRepository {
	return &repairRepo{db: db}
}

func (r *repairRepo) Create(ctx context.Context, repair *entities.TransactionRepair) error {
	now := time.Now()
	repair.CreatedAt = now
	repair.UpdatedAt = now
	repair.Version = 1
	return r.db.WithContext(ctx).Create(repair).Error
}

func (r *repairRepo) GetByID(ctx context.Context, id string) (*entities.TransactionRepair, error) {
	var row entities.TransactionRepair
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRepairNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *repairRepo) GetByTransactionReference(ctx context.Context, transactionReference string) (*entities.TransactionRepair, error) {
	var row entities.TransactionRepair
	err := r.db.WithContext(ctx).Where("transaction_reference = ?", transactionReference).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrRepairNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *repairRepo) List(ctx context.Context, filter entities.RepairFilter) ([]*entities.TransactionRepair, error) {
	query := r.db.WithContext(ctx).Model(&entities.TransactionRepair{})
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.RepairStatus != "" {
		query = query.Where("repair_status = ?", filter.RepairStatus)
	}
	if filter.RepairType != "" {
		query = query.Where("repair_type = ?", filter.RepairType)
	}
	if filter.HighPriority {
		query = query.Where("priority >= ?", 8)
	}

	var rows []*entities.TransactionRepair
	if err := query.Order("priority DESC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repairRepo) ListDueForRetry(ctx context.Context, now time.Time) ([]*entities.TransactionRepair, error) {
	var rows []*entities.TransactionRepair
	if err := r.db.WithContext(ctx).
		Where("repair_status IN ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			[]entities.RepairStatus{entities.RepairStatusPending, entities.RepairStatusAssigned}, now).
		Order("priority DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repairRepo) ListTimedOut(ctx context.Context, now time.Time) ([]*entities.TransactionRepair, error) {
	var rows []*entities.TransactionRepair
	if err := r.db.WithContext(ctx).
		Where("repair_status NOT IN ? AND timeout_at IS NOT NULL AND timeout_at <= ?",
			[]entities.RepairStatus{entities.RepairStatusResolved, entities.RepairStatusFailed, entities.RepairStatusCancelled}, now).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies an optimistic-concurrency write: the row is only modified
// when its current version matches expectedVersion, and the stored version
// is incremented by one.
func (r *repairRepo) Update(ctx context.Context, repair *entities.TransactionRepair, expectedVersion int) error {
	repair.UpdatedAt = time.Now()
	newVersion := expectedVersion + 1

	result := r.db.WithContext(ctx).Model(&entities.TransactionRepair{}).
		Where("id = ? AND version = ?", repair.ID, expectedVersion).
		Updates(map[string]interface{}{
			"repair_status":         repair.RepairStatus,
			"debit_status":          repair.DebitStatus,
			"credit_status":         repair.CreditStatus,
			"retry_count":           repair.RetryCount,
			"next_retry_at":         repair.NextRetryAt,
			"timeout_at":            repair.TimeoutAt,
			"priority":              repair.Priority,
			"assigned_to":           repair.AssignedTo,
			"corrective_action":     repair.CorrectiveAction,
			"awaiting_verification": repair.AwaitingVerification,
			"resolution_notes":      repair.ResolutionNotes,
			"resolved_by":           repair.ResolvedBy,
			"resolved_at":           repair.ResolvedAt,
			"updated_at":            repair.UpdatedAt,
			"version":               newVersion,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOptimisticLock
	}
	repair.Version = newVersion
	return nil
}

func (r *repairRepo) Statistics(ctx context.Context, tenantID string) (*entities.RepairStatistics, error) {
	base := r.db.WithContext(ctx).Model(&entities.TransactionRepair{}).Where("tenant_id = ?", tenantID)

	stats := &entities.RepairStatistics{}
	var total, pending, inProgress, resolved, failed, highPriority int64
	base.Session(&gorm.Session{}).Count(&total)
	base.Session(&gorm.Session{}).Where("repair_status = ?", entities.RepairStatusPending).Count(&pending)
	base.Session(&gorm.Session{}).Where("repair_status = ?", entities.RepairStatusInProgress).Count(&inProgress)
	base.Session(&gorm.Session{}).Where("repair_status = ?", entities.RepairStatusResolved).Count(&resolved)
	base.Session(&gorm.Session{}).Where("repair_status = ?", entities.RepairStatusFailed).Count(&failed)
	base.Session(&gorm.Session{}).Where("priority >= ?", 8).Count(&highPriority)

	stats.Total = int(total)
	stats.Pending = int(pending)
	stats.InProgress = int(inProgress)
	stats.Resolved = int(resolved)
	stats.Failed = int(failed)
	stats.HighPriority = int(highPriority)
	return stats, nil
}
