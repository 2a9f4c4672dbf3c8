package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// newTestDB opens a fresh in-memory sqlite database migrated with every
// entity the usecases package's repositories operate on. Mirrors the
// infrastructure/repositories package's own test helper since usecases
// exercises repositories through their real GORM implementations rather
// than hand-written fakes.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	require.NoError(t, db.AutoMigrate(
		&entities.Tenant{},
		&entities.ApiKey{},
		&entities.IdempotencyRecord{},
		&entities.TrackingRecord{},
		&entities.CoreBankingConfig{},
		&entities.ClearingSystemConfig{},
		&entities.EndpointConfig{},
		&entities.PaymentRoutingRule{},
		&entities.PayloadSchemaMapping{},
		&entities.FraudRiskConfiguration{},
		&entities.FraudRiskAssessment{},
		&entities.TransactionRepair{},
		&entities.ResiliencyConfiguration{},
	))
	return db
}
