// Package fieldcipher encrypts single text values with AES-256-GCM under
// the process-wide key resolved at startup.
//
// Wire format: base64url(nonce || ciphertext). A fresh random 12-byte
// nonce is generated per value, so encrypting the same plaintext twice
// yields different ciphertexts.
package fieldcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/medivault/clinical-portal/internal/core/domain"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Cipher implements ports.FieldCipher.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("fieldcipher: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("fieldcipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals one plaintext value and returns the encoded ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcipher: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens one encoded ciphertext value. Malformed, truncated, or
// wrong-key input yields an error wrapping domain.ErrDecryptionFailed.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", domain.ErrDecryptionFailed)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", domain.ErrDecryptionFailed)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryptionFailed, err)
	}
	return string(plain), nil
}
