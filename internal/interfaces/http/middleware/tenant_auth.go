package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/pkg/logger"
)

const (
	// ApiKeyHeader carries the tenant's service credential.
	ApiKeyHeader = "X-API-Key"
	// TenantIDHeader names the tenant header. TenantAuthMiddleware does not
	// read it; the tenant always comes from the API key.
	TenantIDHeader = "X-Tenant-ID"
	// TenantIDKey is the context key the rest of the request pipeline reads.
	TenantIDKey = "tenant_id"
)

// TenantAuthMiddleware resolves the caller's tenant from an X-API-Key
// header, grounded on the teacher's AuthMiddleware header-extraction and
// context-setting shape but swapping JWT bearer tokens for a hashed
// service-credential lookup, since this API has no end-user login.
func TenantAuthMiddleware(apiKeyRepo repositories.ApiKeyRepository, tenantRepo repositories.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := strings.TrimSpace(c.GetHeader(ApiKeyHeader))
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": domainerrors.CodeUnauthorized, "message": "missing X-API-Key"})
			return
		}

		sum := sha256.Sum256([]byte(rawKey))
		keyHash := hex.EncodeToString(sum[:])

		ctx := c.Request.Context()
		key, err := apiKeyRepo.GetByHash(ctx, keyHash)
		if err != nil || !key.IsActive {
			logger.Warn(ctx, "tenant auth rejected: invalid or inactive api key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": domainerrors.CodeUnauthorized, "message": "invalid api key"})
			return
		}

		tenant, err := tenantRepo.GetByID(ctx, key.TenantID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": domainerrors.CodeUnauthorized, "message": "unknown tenant"})
			return
		}
		if tenant.Status != entities.TenantStatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": domainerrors.CodeForbidden, "message": "tenant not active"})
			return
		}

		c.Set(TenantIDKey, tenant.ID)

		logger.Debug(ctx, "tenant authenticated", zap.String("tenant_id", tenant.ID))
		c.Next()
	}
}

// GetTenantID reads the tenant id set by TenantAuthMiddleware.
func GetTenantID(c *gin.Context) (string, bool) {
	tenantID, exists := c.Get(TenantIDKey)
	if !exists {
		return "", false
	}
	id, ok := tenantID.(string)
	return id, ok && id != ""
}
