package service

import (
	"fmt"

	"github.com/medivault/clinical-portal/internal/api/metrics"
	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// Fallback text substituted for fields that fail to decrypt. A single bad
// field must never abort a whole listing.
const (
	piiFallback     = "[Decryption Error]"
	detailsFallback = "[Encrypted Content]"
)

// Metric label values for DecryptFailuresTotal.
const (
	fieldUserPII     = "user_pii"
	fieldApptDetails = "appointment_details"
)

// safeDecrypt is the one decrypt-or-fallback path shared by every read
// side. field feeds the failure metric (low cardinality), ref only the
// audit line.
func safeDecrypt(cipher ports.FieldCipher, audit ports.AuditSink, field, ref, ciphertext, fallback string) string {
	if ciphertext == "" {
		return ""
	}
	plain, err := cipher.Decrypt(ciphertext)
	if err != nil {
		audit.Record(fmt.Sprintf("failed to decrypt %s for %s: %v", field, ref, err), domain.AuditWarning)
		metrics.DecryptFailuresTotal.WithLabelValues(field).Inc()
		return fallback
	}
	return plain
}

// decryptPersonal decrypts a user's PII pair for display.
func decryptPersonal(cipher ports.FieldCipher, audit ports.AuditSink, user *domain.User) domain.PersonalData {
	ref := "user " + user.Username
	return domain.PersonalData{
		FullName: safeDecrypt(cipher, audit, fieldUserPII, ref, user.FullName, piiFallback),
		Email:    safeDecrypt(cipher, audit, fieldUserPII, ref, user.Email, piiFallback),
	}
}
