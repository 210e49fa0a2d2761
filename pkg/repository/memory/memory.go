package memory

import (
	"errors"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Memory is an in-memory Record Store for development and tests
type Memory struct {
	medicine     *medicineRepository
	history      *historyRepository
	notification *notificationRepository
	hardware     *hardwareRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		medicine:     newMedicineRepository(),
		history:      newHistoryRepository(),
		notification: newNotificationRepository(),
		hardware:     newHardwareRepository(),
	}
}

func (m *Memory) Medicine() interfaces.MedicineRepository {
	return m.medicine
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Hardware() interfaces.HardwareRepository {
	return m.hardware
}

func (m *Memory) Close() error {
	return nil
}
