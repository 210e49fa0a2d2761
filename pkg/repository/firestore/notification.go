package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type notificationDoc struct {
	ID           types.NotificationID `firestore:"ID"`
	Type         string               `firestore:"Type"`
	Message      string               `firestore:"Message"`
	MedicineName string               `firestore:"MedicineName"`
	Dosage       string               `firestore:"Dosage"`
	TimeOfDay    string               `firestore:"TimeOfDay"`
	Timestamp    time.Time            `firestore:"Timestamp"`
	IsRead       bool                 `firestore:"IsRead"`
}

func toNotificationDoc(n *model.NotificationItem) *notificationDoc {
	return &notificationDoc{
		ID:           n.ID,
		Type:         n.Type.String(),
		Message:      n.Message,
		MedicineName: n.MedicineName,
		Dosage:       n.Dosage,
		TimeOfDay:    n.TimeOfDay,
		Timestamp:    n.Timestamp,
		IsRead:       n.IsRead,
	}
}

func docToNotification(doc *firestore.DocumentSnapshot) (*model.NotificationItem, error) {
	var d notificationDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return &model.NotificationItem{
		ID:           d.ID,
		Type:         types.NotificationType(d.Type),
		Message:      d.Message,
		MedicineName: d.MedicineName,
		Dosage:       d.Dosage,
		TimeOfDay:    d.TimeOfDay,
		Timestamp:    d.Timestamp,
		IsRead:       d.IsRead,
	}, nil
}

type notificationRepository struct {
	client *firestore.Client
}

func newNotificationRepository(client *firestore.Client) *notificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) notificationsCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("notifications")
}

func (r *notificationRepository) Put(ctx context.Context, userID types.UserID, item *model.NotificationItem) error {
	if item.ID == "" {
		return goerr.New("notification ID is required for persistence")
	}

	docRef := r.notificationsCollection(userID).Doc(string(item.ID))
	if _, err := docRef.Set(ctx, toNotificationDoc(item)); err != nil {
		return goerr.Wrap(err, "failed to put notification", goerr.V("id", item.ID))
	}
	return nil
}

func (r *notificationRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.NotificationItem, error) {
	iter := r.notificationsCollection(userID).
		OrderBy("Timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	items := make([]*model.NotificationItem, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications", goerr.V("userID", userID))
		}

		n, err := docToNotification(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notification")
		}
		items = append(items, n)
	}

	return items, nil
}
