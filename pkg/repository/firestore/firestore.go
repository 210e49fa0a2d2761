package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

type Firestore struct {
	client       *firestore.Client
	medicine     *medicineRepository
	history      *historyRepository
	notification *notificationRepository
	hardware     *hardwareRepository
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:       client,
		medicine:     newMedicineRepository(client),
		history:      newHistoryRepository(client),
		notification: newNotificationRepository(client),
		hardware:     newHardwareRepository(client),
	}, nil
}

func (f *Firestore) Medicine() interfaces.MedicineRepository {
	return f.medicine
}

func (f *Firestore) History() interfaces.HistoryRepository {
	return f.history
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notification
}

func (f *Firestore) Hardware() interfaces.HardwareRepository {
	return f.hardware
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
