package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type hardwareDoc struct {
	Status    string    `firestore:"Status"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type activeUserDoc struct {
	UserID    string    `firestore:"UserID"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type hardwareRepository struct {
	client *firestore.Client
}

func newHardwareRepository(client *firestore.Client) *hardwareRepository {
	return &hardwareRepository{client: client}
}

func (r *hardwareRepository) statusDoc(userID types.UserID) *firestore.DocumentRef {
	return r.client.Collection("hardware").Doc(string(userID))
}

func (r *hardwareRepository) Status(ctx context.Context, userID types.UserID) (types.HardwareStatus, error) {
	doc, err := r.statusDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.HardwareStatusUnknown, nil
		}
		return types.HardwareStatusUnknown, goerr.Wrap(err, "failed to get hardware status", goerr.V("userID", userID))
	}

	var d hardwareDoc
	if err := doc.DataTo(&d); err != nil {
		return types.HardwareStatusUnknown, goerr.Wrap(err, "failed to unmarshal hardware status")
	}
	return types.NormalizeHardwareStatus(d.Status), nil
}

func (r *hardwareRepository) SetStatus(ctx context.Context, userID types.UserID, st types.HardwareStatus) error {
	doc := &hardwareDoc{Status: st.String(), UpdatedAt: time.Now().UTC()}
	if _, err := r.statusDoc(userID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set hardware status", goerr.V("userID", userID))
	}
	return nil
}

func (r *hardwareRepository) SetActiveUser(ctx context.Context, userID types.UserID) error {
	doc := &activeUserDoc{UserID: string(userID), UpdatedAt: time.Now().UTC()}
	if _, err := r.client.Collection("hardware").Doc("active_user").Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set active user", goerr.V("userID", userID))
	}
	return nil
}
