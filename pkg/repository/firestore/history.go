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

type historyDoc struct {
	ID           types.HistoryID `firestore:"ID"`
	Date         string          `firestore:"Date"`
	Time         string          `firestore:"Time"`
	Action       string          `firestore:"Action"`
	MedicineName string          `firestore:"MedicineName"`
	Dosage       string          `firestore:"Dosage"`
	Message      string          `firestore:"Message"`
	Timestamp    time.Time       `firestore:"Timestamp"`
}

func toHistoryDoc(h *model.HistoryItem) *historyDoc {
	return &historyDoc{
		ID:           h.ID,
		Date:         h.Date,
		Time:         h.Time,
		Action:       h.Action.String(),
		MedicineName: h.MedicineName,
		Dosage:       h.Dosage,
		Message:      h.Message,
		Timestamp:    h.Timestamp,
	}
}

func docToHistory(doc *firestore.DocumentSnapshot) (*model.HistoryItem, error) {
	var d historyDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return &model.HistoryItem{
		ID:           d.ID,
		Date:         d.Date,
		Time:         d.Time,
		Action:       types.HistoryAction(d.Action),
		MedicineName: d.MedicineName,
		Dosage:       d.Dosage,
		Message:      d.Message,
		Timestamp:    d.Timestamp,
	}, nil
}

type historyRepository struct {
	client *firestore.Client
}

func newHistoryRepository(client *firestore.Client) *historyRepository {
	return &historyRepository{client: client}
}

func (r *historyRepository) historyCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("history")
}

func (r *historyRepository) Put(ctx context.Context, userID types.UserID, item *model.HistoryItem) error {
	if item.ID == "" {
		return goerr.New("history ID is required for persistence")
	}

	docRef := r.historyCollection(userID).Doc(string(item.ID))
	if _, err := docRef.Set(ctx, toHistoryDoc(item)); err != nil {
		return goerr.Wrap(err, "failed to put history item", goerr.V("id", item.ID))
	}
	return nil
}

func (r *historyRepository) Recent(ctx context.Context, userID types.UserID, limit int) ([]*model.HistoryItem, error) {
	iter := r.historyCollection(userID).
		OrderBy("Timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	items := make([]*model.HistoryItem, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate history", goerr.V("userID", userID))
		}

		h, err := docToHistory(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal history item")
		}
		items = append(items, h)
	}

	return items, nil
}
