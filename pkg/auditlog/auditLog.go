package auditlog

import (
	"log"

	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

// LogPersister is the storage side of the audit trail; implemented by the
// auditlog repository.
type LogPersister interface {
	PersistLog(auditlog models.AuditLog, auditLogData interface{}) error
}

type Auditlog struct {
	r LogPersister
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records a lifecycle action (create, accept, cancel, direct_allocate,
// tracking_update, feedback) against an entity. Failures are logged and
// swallowed; the audit trail never blocks the operation it describes.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.r.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(persister LogPersister) *Auditlog {
	return &Auditlog{r: persister}
}
