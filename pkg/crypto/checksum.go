package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveChecksumKey derives a per-purpose signing key from a master secret
// using HKDF-SHA256, so the same secret can back multiple tamper-evidence
// domains (tracking records, repair records) without key reuse.
func DeriveChecksumKey(masterSecret, info string) ([]byte, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(masterSecret), nil, []byte(info))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}

// SignChecksum computes an HMAC-SHA256 tag over the given fields, used to
// detect tampering with persisted UETR tracking records.
func SignChecksum(key []byte, fields ...string) string {
	mac := hmac.New(sha256.New, key)
	for _, f := range fields {
		mac.Write([]byte(f))
		mac.Write([]byte{0})
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyChecksum reports whether checksum was produced by SignChecksum with
// key over fields, using constant-time comparison.
func VerifyChecksum(key []byte, checksum string, fields ...string) bool {
	expected := SignChecksum(key, fields...)
	return hmac.Equal([]byte(expected), []byte(checksum))
}
