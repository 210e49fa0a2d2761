package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// medicineDoc is the Firestore document representation of model.Medicine.
// TimeOfDay is stored as "HH:MM"; an empty string means unscheduled.
type medicineDoc struct {
	ID          types.MedicineID `firestore:"ID"`
	Name        string           `firestore:"Name"`
	Usage       string           `firestore:"Usage"`
	Description string           `firestore:"Description"`
	TimeOfDay   string           `firestore:"TimeOfDay"`
	Form        string           `firestore:"Form"`
	Timing      string           `firestore:"Timing"`
}

func toMedicineDoc(m *model.Medicine) *medicineDoc {
	doc := &medicineDoc{
		ID:          m.ID,
		Name:        m.Name,
		Usage:       m.Usage,
		Description: m.Description,
		Form:        m.Form.String(),
		Timing:      m.Timing,
	}
	if m.TimeOfDay != nil {
		doc.TimeOfDay = m.TimeOfDay.String()
	}
	return doc
}

func fromMedicineDoc(d *medicineDoc) (*model.Medicine, error) {
	m := &model.Medicine{
		ID:          d.ID,
		Name:        d.Name,
		Usage:       d.Usage,
		Description: d.Description,
		Form:        types.DosageForm(d.Form),
		Timing:      d.Timing,
	}
	if d.TimeOfDay != "" {
		tod, err := types.ParseTimeOfDay(d.TimeOfDay)
		if err != nil {
			return nil, goerr.Wrap(err, "broken time of day in stored medicine", goerr.V("id", d.ID))
		}
		m.TimeOfDay = &tod
	}
	return m, nil
}

func docToMedicine(doc *firestore.DocumentSnapshot) (*model.Medicine, error) {
	var d medicineDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromMedicineDoc(&d)
}

type medicineRepository struct {
	client *firestore.Client
}

func newMedicineRepository(client *firestore.Client) *medicineRepository {
	return &medicineRepository{client: client}
}

func (r *medicineRepository) medicinesCollection(userID types.UserID) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(string(userID)).Collection("medicines")
}

func (r *medicineRepository) Put(ctx context.Context, userID types.UserID, medicine *model.Medicine) error {
	if medicine.ID == "" {
		return goerr.New("medicine ID is required for persistence", goerr.V("name", medicine.Name))
	}

	docRef := r.medicinesCollection(userID).Doc(string(medicine.ID))
	if _, err := docRef.Set(ctx, toMedicineDoc(medicine)); err != nil {
		return goerr.Wrap(err, "failed to put medicine", goerr.V("id", medicine.ID))
	}
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, userID types.UserID, id types.MedicineID) (*model.Medicine, error) {
	doc, err := r.medicinesCollection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get medicine", goerr.V("id", id))
	}

	m, err := docToMedicine(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal medicine", goerr.V("id", id))
	}
	return m, nil
}

func (r *medicineRepository) List(ctx context.Context, userID types.UserID) ([]*model.Medicine, error) {
	iter := r.medicinesCollection(userID).Documents(ctx)
	defer iter.Stop()

	medicines := make([]*model.Medicine, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate medicines", goerr.V("userID", userID))
		}

		m, err := docToMedicine(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal medicine")
		}
		medicines = append(medicines, m)
	}

	return medicines, nil
}

func (r *medicineRepository) Delete(ctx context.Context, userID types.UserID, id types.MedicineID) error {
	docRef := r.medicinesCollection(userID).Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "medicine not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get medicine", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete medicine", goerr.V("id", id))
	}
	return nil
}
