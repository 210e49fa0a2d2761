package interfaces

import (
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// Hooks are callbacks for a collaborating UI layer. All fields are optional
// and are invoked outside internal locks; implementations must not call back
// into the use cases synchronously.
type Hooks struct {
	ShowMedicines           func(medicines []*model.Medicine)
	OnScheduleChanged       func(id types.MedicineID, nextFire *time.Time)
	OnHistoryAppended       func(item *model.HistoryItem)
	OnNotificationAppended  func(item *model.NotificationItem)
	OnHardwareStatusChanged func(status types.HardwareStatus)
}
