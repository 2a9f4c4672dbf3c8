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

type tenantRepo struct {
	db *gorm.DB
}

// NewTenantRepository constructs a GORM-backed TenantRepository.
func NewTenantRepository(db *gorm.DB) domainrepos.TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *entities.Tenant) error {
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepo) GetByCode(ctx context.Context, code string) (*entities.Tenant, error) {
	var row entities.Tenant
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*entities.Tenant, error) {
	var row entities.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *tenantRepo) List(ctx context.Context) ([]*entities.Tenant, error) {
	var rows []*entities.Tenant
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenant *entities.Tenant) error {
	tenant.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&entities.Tenant{}).Where("id = ?", tenant.ID).Updates(map[string]interface{}{
		"name":       tenant.Name,
		"status":     tenant.Status,
		"updated_at": tenant.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

type apiKeyRepo struct {
	db *gorm.DB
}

// NewApiKeyRepository constructs a GORM-backed ApiKeyRepository.
func NewApiKeyRepository(db *gorm.DB) domainrepos.ApiKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *entities.ApiKey) error {
	key.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(key).Error
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var row entities.ApiKey
	err := r.db.WithContext(ctx).Where("key_hash = ? AND is_active = ?", keyHash, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *apiKeyRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entities.ApiKey, error) {
	var rows []*entities.ApiKey
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *apiKeyRepo) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&entities.ApiKey{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

type idempotencyRepo struct {
	db *gorm.DB
}

// NewIdempotencyRepository constructs a GORM-backed IdempotencyRepository.
func NewIdempotencyRepository(db *gorm.DB) domainrepos.IdempotencyRepository {
	return &idempotencyRepo{db: db}
}

func (r *idempotencyRepo) Get(ctx context.Context, tenantID, transactionReference string) (*entities.IdempotencyRecord, error) {
	var row entities.IdempotencyRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_reference = ?", tenantID, transactionReference).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *idempotencyRepo) Save(ctx context.Context, record *entities.IdempotencyRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *idempotencyRepo) Delete(ctx context.Context, tenantID, transactionReference string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_reference = ?", tenantID, transactionReference).
		Delete(&entities.IdempotencyRecord{}).Error
}
