package ports

// FieldCipher encrypts and decrypts single text values under the
// process-wide key resolved at startup. Decrypt returns an error wrapping
// domain.ErrDecryptionFailed for malformed or wrong-key ciphertext;
// callers substitute a visible fallback per field rather than failing the
// whole operation.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
