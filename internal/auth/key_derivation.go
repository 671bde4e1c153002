package auth

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// DerivedKeyLength is 32 bytes, suitable for HMAC-SHA256 and AES-256.
	DerivedKeyLength = 32

	purposeSessionHash  = "clubhub-session-hash-v1"
	purposeSessionBlock = "clubhub-session-block-v1"
)

// ErrInvalidMasterSecret is returned when the master secret is invalid
var ErrInvalidMasterSecret = errors.New("master secret cannot be empty")

// DeriveKey derives a key from a master secret using HKDF-SHA256. Different
// purpose strings yield independent keys.
func DeriveKey(masterSecret []byte, purpose string) ([]byte, error) {
	if len(masterSecret) == 0 {
		return nil, ErrInvalidMasterSecret
	}

	reader := hkdf.New(sha256.New, masterSecret, nil, []byte(purpose))

	derivedKey := make([]byte, DerivedKeyLength)
	if _, err := io.ReadFull(reader, derivedKey); err != nil {
		return nil, err
	}

	return derivedKey, nil
}

// DeriveSessionKeys returns the cookie signing (hash) and encryption (block)
// keys for session cookies.
func DeriveSessionKeys(masterSecret []byte) (hashKey, blockKey []byte, err error) {
	hashKey, err = DeriveKey(masterSecret, purposeSessionHash)
	if err != nil {
		return nil, nil, err
	}
	blockKey, err = DeriveKey(masterSecret, purposeSessionBlock)
	if err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}
