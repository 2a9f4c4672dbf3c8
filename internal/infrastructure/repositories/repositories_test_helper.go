package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

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
