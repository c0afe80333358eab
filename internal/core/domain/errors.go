package domain

import "errors"

// ErrSessionInvalid marks a presented session whose token is missing,
// stale, or does not match the server-side entry. Callers treat the
// request as anonymous; the stored state is left untouched.
var ErrSessionInvalid = errors.New("session invalid or expired")

// ErrDecryptionFailed marks ciphertext that is malformed, truncated, or
// was produced under a different key. It is always handled per field and
// never aborts a whole listing.
var ErrDecryptionFailed = errors.New("decryption failed")

// ErrDatastore wraps failures of the backing store. User-facing
// operations degrade (empty listing, generic message) instead of
// crashing.
var ErrDatastore = errors.New("datastore unavailable")
