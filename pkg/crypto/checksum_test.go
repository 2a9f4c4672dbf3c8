package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveChecksumKey_Deterministic(t *testing.T) {
	key1, err := DeriveChecksumKey("master-secret", "uetr-tracking")
	assert.NoError(t, err)
	assert.Len(t, key1, 32)

	key2, err := DeriveChecksumKey("master-secret", "uetr-tracking")
	assert.NoError(t, err)
	assert.Equal(t, key1, key2)

	key3, err := DeriveChecksumKey("master-secret", "repair-record")
	assert.NoError(t, err)
	assert.NotEqual(t, key1, key3)
}

func TestSignAndVerifyChecksum(t *testing.T) {
	key, err := DeriveChecksumKey("master-secret", "uetr-tracking")
	assert.NoError(t, err)

	checksum := SignChecksum(key, "uetr-1", "CAPTURED", "2026-01-01T00:00:00Z")
	assert.NotEmpty(t, checksum)

	assert.True(t, VerifyChecksum(key, checksum, "uetr-1", "CAPTURED", "2026-01-01T00:00:00Z"))
	assert.False(t, VerifyChecksum(key, checksum, "uetr-1", "TAMPERED", "2026-01-01T00:00:00Z"))

	otherKey, err := DeriveChecksumKey("other-secret", "uetr-tracking")
	assert.NoError(t, err)
	assert.False(t, VerifyChecksum(otherKey, checksum, "uetr-1", "CAPTURED", "2026-01-01T00:00:00Z"))
}
