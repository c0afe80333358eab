package domain

// AuditLevel classifies the severity of a security-relevant event.
type AuditLevel string

const (
	AuditInfo    AuditLevel = "INFO"
	AuditWarning AuditLevel = "WARNING"
	AuditError   AuditLevel = "ERROR"
)
