package fieldcipher

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// KeySource tells the caller where the encryption key came from.
type KeySource string

const (
	// KeySourceConfig: explicit value from configuration (ENCRYPTION_KEY).
	KeySourceConfig KeySource = "config"
	// KeySourceFile: read from the configured key file.
	KeySourceFile KeySource = "file"
	// KeySourceGenerated: freshly minted because nothing was configured.
	// Values encrypted under a generated key are unreadable after the
	// process restarts; the caller must audit this at WARNING.
	KeySourceGenerated KeySource = "generated"
)

// ResolvedKey is the result of key resolution at startup.
type ResolvedKey struct {
	Key    []byte
	Source KeySource
}

// Generated reports whether the key was auto-generated rather than found.
func (r *ResolvedKey) Generated() bool {
	return r.Source == KeySourceGenerated
}

// ResolveKey resolves the process-wide encryption key, in priority order:
// the explicit configured value, then the key file, then a freshly
// generated key. Configured values are base64 (standard or URL-safe
// alphabet) of exactly 32 bytes; anything else is a hard startup error
// rather than a silent fallback.
func ResolveKey(configured, keyFile string) (*ResolvedKey, error) {
	if configured != "" {
		key, err := decodeKey(configured)
		if err != nil {
			return nil, fmt.Errorf("fieldcipher: ENCRYPTION_KEY: %w", err)
		}
		return &ResolvedKey{Key: key, Source: KeySourceConfig}, nil
	}

	if keyFile != "" {
		raw, err := os.ReadFile(keyFile)
		if err == nil {
			key, derr := decodeKey(strings.TrimSpace(string(raw)))
			if derr != nil {
				return nil, fmt.Errorf("fieldcipher: key file %s: %w", keyFile, derr)
			}
			return &ResolvedKey{Key: key, Source: KeySourceFile}, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("fieldcipher: read key file: %w", err)
		}
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("fieldcipher: generate key: %w", err)
	}
	return &ResolvedKey{Key: key, Source: KeySourceGenerated}, nil
}

// EncodeKey renders a key in the form ResolveKey accepts, for operators
// who want to persist a generated key.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		key, err = base64.URLEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("decoded key is %d bytes, want %d", len(key), KeySize)
	}
	return key, nil
}
