package ports

import "github.com/medivault/clinical-portal/internal/core/domain"

// AuditSink receives security-relevant events: logins and failures,
// logouts, stale tokens, role denials, decryption failures, key
// generation, datastore errors. The sink owns formatting and storage;
// callers only guarantee event occurrence and level.
type AuditSink interface {
	Record(message string, level domain.AuditLevel)
}
