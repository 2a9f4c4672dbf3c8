package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

func TestTenantRepo_CreateGetUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	ctx := context.Background()

	tenant := &entities.Tenant{
		ID:     uuid.NewString(),
		Code:   "demo-bank",
		Name:   "Demo Bank",
		Status: entities.TenantStatusActive,
	}
	require.NoError(t, repo.Create(ctx, tenant))

	got, err := repo.GetByCode(ctx, "demo-bank")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, got.ID)

	gotByID, err := repo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "demo-bank", gotByID.Code)

	tenant.Status = entities.TenantStatusSuspended
	require.NoError(t, repo.Update(ctx, tenant))

	updated, err := repo.GetByCode(ctx, "demo-bank")
	require.NoError(t, err)
	require.Equal(t, entities.TenantStatusSuspended, updated.Status)

	_, err = repo.GetByCode(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTenantRepo_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewTenantRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.Tenant{ID: uuid.NewString(), Code: "bank-a", Name: "A", Status: entities.TenantStatusActive}))
	require.NoError(t, repo.Create(ctx, &entities.Tenant{ID: uuid.NewString(), Code: "bank-b", Name: "B", Status: entities.TenantStatusActive}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestApiKeyRepo_CreateGetByHashRevoke(t *testing.T) {
	db := newTestDB(t)
	repo := NewApiKeyRepository(db)
	ctx := context.Background()

	key := &entities.ApiKey{
		ID:        uuid.NewString(),
		TenantID:  "tenant-1",
		KeyPrefix: "pk_live",
		KeyHash:   "hash123",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(ctx, key))

	got, err := repo.GetByHash(ctx, "hash123")
	require.NoError(t, err)
	require.Equal(t, key.ID, got.ID)

	list, err := repo.ListByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Revoke(ctx, key.ID))
	_, err = repo.GetByHash(ctx, "hash123")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
