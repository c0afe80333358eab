package service

import (
	"fmt"

	"github.com/medivault/clinical-portal/internal/core/domain"
	"github.com/medivault/clinical-portal/internal/core/ports"
)

// failDatastore converts a repository failure at the boundary of a
// user-facing operation: the cause is audited at ERROR and the caller
// gets the degraded-response sentinel. Sentinel outcomes (not found,
// conflict) must be filtered out before calling this.
func failDatastore(audit ports.AuditSink, op string, err error) error {
	audit.Record(fmt.Sprintf("error %s: %v", op, err), domain.AuditError)
	return fmt.Errorf("%w: %v", domain.ErrDatastore, err)
}
