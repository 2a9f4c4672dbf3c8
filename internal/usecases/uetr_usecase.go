package usecases

import (
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"time"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/domain/repositories"
	"github.com/paynet/iso20022-orchestrator/pkg/crypto"
)

var uetrPattern = regexp.MustCompile(`^[0-9]{14}[A-Z0-9]{4}[A-Z0-9]{8}[A-Z0-9]{10}$`)

const uetrRandomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// UETRUsecase generates and tracks unique end-to-end transaction references
// across the inbound/outbound message hops a payment passes through.
type UETRUsecase struct {
	uetrRepo     repositories.UETRRepository
	checksumKey  []byte
}

// NewUETRUsecase constructs a UETRUsecase. checksumMasterSecret seeds the
// HKDF derivation used to sign each tracking record's checksum; an empty
// secret disables tamper-evidence (checksums become empty strings).
func NewUETRUsecase(uetrRepo repositories.UETRRepository, checksumMasterSecret string) (*UETRUsecase, error) {
	u := &UETRUsecase{uetrRepo: uetrRepo}
	if checksumMasterSecret != "" {
		key, err := crypto.DeriveChecksumKey(checksumMasterSecret, "uetr-tracking-record")
		if err != nil {
			return nil, fmt.Errorf("derive checksum key: %w", err)
		}
		u.checksumKey = key
	}
	return u, nil
}

// Generate builds a new UETR for a message of the given type emitted by the
// given system. Format: 14-digit UTC timestamp | 4-char system id | 8-char message
// type id | 10-char random suffix.
func (u *UETRUsecase) Generate(messageType, systemID string) (string, error) {
	timestamp := time.Now().UTC().Format("20060102150405")
	systemID4 := padOrTruncate(systemID, 4)
	messageTypeID8 := padOrTruncate(normalizeMessageType(messageType), 8)

	random, err := randomAlphanumeric(10)
	if err != nil {
		return "", fmt.Errorf("generate uetr random suffix: %w", err)
	}

	return timestamp + systemID4 + messageTypeID8 + random, nil
}

// ValidateFormat reports whether a string is a structurally well-formed UETR.
func (u *UETRUsecase) ValidateFormat(uetr string) bool {
	return uetrPattern.MatchString(uetr)
}

// Extract decomposes a UETR into its embedded segments. Returns
// ErrValidation if uetr does not match the expected format.
func (u *UETRUsecase) Extract(uetr string) (entities.UETRParts, error) {
	if !u.ValidateFormat(uetr) {
		return entities.UETRParts{}, domainerrors.NewAppError(400, domainerrors.CodeValidation, "malformed UETR", nil)
	}
	return entities.UETRParts{
		Timestamp14:   uetr[0:14],
		SystemID4:     uetr[14:18],
		MessageTypeID: uetr[18:26],
		Random10:      uetr[26:36],
	}, nil
}

// AreRelated reports whether two UETRs share the same timestamp and system
// id segment, meaning they were emitted for the same underlying instruction
// hop set.
func (u *UETRUsecase) AreRelated(a, b string) bool {
	partsA, errA := u.Extract(a)
	partsB, errB := u.Extract(b)
	if errA != nil || errB != nil {
		return false
	}
	return partsA.Timestamp14 == partsB.Timestamp14 && partsA.SystemID4 == partsB.SystemID4
}

// Record appends a tracking record to a UETR's journey. Records are
// append-only: callers never update a previously written record.
func (u *UETRUsecase) Record(ctx context.Context, record *entities.TrackingRecord) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.Checksum = u.sign(record)
	return u.uetrRepo.AppendTrackingRecord(ctx, record)
}

// GetJourney returns a UETR's tracking records in ascending chronological
// order, as recorded at each hop.
func (u *UETRUsecase) GetJourney(ctx context.Context, uetr string) ([]*entities.TrackingRecord, error) {
	return u.uetrRepo.GetJourney(ctx, uetr)
}

// Search finds tracking records matching filter.
func (u *UETRUsecase) Search(ctx context.Context, filter entities.UETRSearchFilter) ([]*entities.TrackingRecord, error) {
	return u.uetrRepo.Search(ctx, filter)
}

// Statistics summarizes a tenant's UETR population.
func (u *UETRUsecase) Statistics(ctx context.Context, tenantID string) (*entities.UETRStatistics, error) {
	return u.uetrRepo.Statistics(ctx, tenantID)
}

// VerifyRecord reports whether a tracking record's checksum still matches
// its fields, detecting at-rest tampering of the audit trail.
func (u *UETRUsecase) VerifyRecord(record *entities.TrackingRecord) bool {
	if len(u.checksumKey) == 0 {
		return true
	}
	return crypto.VerifyChecksum(u.checksumKey, record.Checksum, record.UETR, record.MessageType, record.TenantID, string(record.Status))
}

func (u *UETRUsecase) sign(record *entities.TrackingRecord) string {
	if len(u.checksumKey) == 0 {
		return ""
	}
	return crypto.SignChecksum(u.checksumKey, record.UETR, record.MessageType, record.TenantID, string(record.Status))
}

func normalizeMessageType(messageType string) string {
	out := make([]byte, 0, len(messageType))
	for i := 0; i < len(messageType); i++ {
		c := messageType[i]
		if c == '.' || c == '-' || c == '_' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func padOrTruncate(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	for len(s) < n {
		s += "0"
	}
	return s
}

func randomAlphanumeric(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = uetrRandomAlphabet[int(b)%len(uetrRandomAlphabet)]
	}
	return string(out), nil
}
