package notifications

import (
	"go.uber.org/zap"

	"github.com/Avanquish/DoughNation-sub000/pkg/models"
)

const KindCascadeCancel = "cascade_cancel"

// Notifier persists events for the notification fan-out collaborator. Writes
// happen after the owning transaction has committed; a delivery failure is
// logged and never unwinds the state change it describes.
type Notifier struct {
	repo NotificationRepository
	log  *zap.Logger
}

func NewNotifier(repo NotificationRepository, log *zap.Logger) *Notifier {
	return &Notifier{repo: repo, log: log}
}

func (n *Notifier) CascadeCanceled(ev models.CascadeCancellation) {
	err := n.repo.PersistNotification(ev.CharityID, KindCascadeCancel, ev.Message(), ev)
	if err != nil {
		n.log.Error("failed to deliver cascade-cancel notification",
			zap.Int("request_id", ev.RequestID),
			zap.Int("charity_id", ev.CharityID),
			zap.Error(err))
		return
	}

	n.log.Info("cascade-cancel notification delivered",
		zap.Int("request_id", ev.RequestID),
		zap.Int("charity_id", ev.CharityID),
		zap.Int("requested", ev.Requested),
		zap.Int("remaining", ev.Remaining))
}
