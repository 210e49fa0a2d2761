package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/repository/firestore"
	"github.com/secmon-lab/healguard/pkg/repository/memory"
)

func testUserID() types.UserID {
	return types.UserID(fmt.Sprintf("test-user-%d", time.Now().UnixNano()))
}

func newTestMedicine(name string) *model.Medicine {
	return &model.Medicine{
		ID:        types.NewMedicineID(),
		Name:      name,
		Usage:     "1 tablet after meals",
		Form:      types.DosageFormTablet,
		TimeOfDay: &types.TimeOfDay{Hour: 8, Minute: 30},
	}
}

func runMedicineRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put then Get returns stored medicine", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		medicine := newTestMedicine("Paracetamol")
		if err := repo.Medicine().Put(ctx, userID, medicine); err != nil {
			t.Fatalf("failed to put medicine: %v", err)
		}

		got, err := repo.Medicine().Get(ctx, userID, medicine.ID)
		if err != nil {
			t.Fatalf("failed to get medicine: %v", err)
		}
		if got.Name != medicine.Name {
			t.Errorf("expected Name=%s, got %s", medicine.Name, got.Name)
		}
		if got.Usage != medicine.Usage {
			t.Errorf("expected Usage=%s, got %s", medicine.Usage, got.Usage)
		}
		if got.Form != medicine.Form {
			t.Errorf("expected Form=%s, got %s", medicine.Form, got.Form)
		}
		if got.TimeOfDay == nil {
			t.Fatal("expected non-nil TimeOfDay")
		}
		if got.TimeOfDay.Hour != 8 || got.TimeOfDay.Minute != 30 {
			t.Errorf("expected TimeOfDay=08:30, got %s", got.TimeOfDay.String())
		}
	})

	t.Run("Put without ID fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		medicine := newTestMedicine("Ibuprofen")
		medicine.ID = ""
		if err := repo.Medicine().Put(ctx, testUserID(), medicine); err == nil {
			t.Error("expected error for medicine without ID")
		}
	})

	t.Run("Put with same ID overwrites", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		medicine := newTestMedicine("Amoxicillin")
		if err := repo.Medicine().Put(ctx, userID, medicine); err != nil {
			t.Fatalf("failed to put medicine: %v", err)
		}

		medicine.Usage = "2 capsules before bed"
		medicine.TimeOfDay = &types.TimeOfDay{Hour: 21, Minute: 0}
		if err := repo.Medicine().Put(ctx, userID, medicine); err != nil {
			t.Fatalf("failed to update medicine: %v", err)
		}

		got, err := repo.Medicine().Get(ctx, userID, medicine.ID)
		if err != nil {
			t.Fatalf("failed to get medicine: %v", err)
		}
		if got.Usage != "2 capsules before bed" {
			t.Errorf("expected updated Usage, got %s", got.Usage)
		}
		if got.TimeOfDay == nil || got.TimeOfDay.Hour != 21 {
			t.Errorf("expected updated TimeOfDay, got %v", got.TimeOfDay)
		}

		all, err := repo.Medicine().List(ctx, userID)
		if err != nil {
			t.Fatalf("failed to list medicines: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 medicine after overwrite, got %d", len(all))
		}
	})

	t.Run("Get missing medicine returns not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Medicine().Get(ctx, testUserID(), types.NewMedicineID())
		if err == nil {
			t.Fatal("expected error for missing medicine")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("List returns empty slice for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		all, err := repo.Medicine().List(ctx, testUserID())
		if err != nil {
			t.Fatalf("failed to list medicines: %v", err)
		}
		if all == nil {
			t.Error("expected non-nil slice")
		}
		if len(all) != 0 {
			t.Errorf("expected empty list, got %d entries", len(all))
		}
	})

	t.Run("List returns all medicines for user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		names := map[string]bool{"Paracetamol": false, "Ibuprofen": false, "Cetirizine": false}
		for name := range names {
			if err := repo.Medicine().Put(ctx, userID, newTestMedicine(name)); err != nil {
				t.Fatalf("failed to put medicine %s: %v", name, err)
			}
		}

		all, err := repo.Medicine().List(ctx, userID)
		if err != nil {
			t.Fatalf("failed to list medicines: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 medicines, got %d", len(all))
		}
		for _, m := range all {
			names[m.Name] = true
		}
		for name, seen := range names {
			if !seen {
				t.Errorf("medicine %s missing from list", name)
			}
		}
	})

	t.Run("Delete removes medicine", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		medicine := newTestMedicine("Loratadine")
		if err := repo.Medicine().Put(ctx, userID, medicine); err != nil {
			t.Fatalf("failed to put medicine: %v", err)
		}

		if err := repo.Medicine().Delete(ctx, userID, medicine.ID); err != nil {
			t.Fatalf("failed to delete medicine: %v", err)
		}

		if _, err := repo.Medicine().Get(ctx, userID, medicine.ID); err == nil {
			t.Error("expected error after delete")
		}
	})

	t.Run("Delete missing medicine returns not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Medicine().Delete(ctx, testUserID(), types.NewMedicineID())
		if err == nil {
			t.Fatal("expected error for missing medicine")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("Users are isolated", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := testUserID()
		bob := types.UserID(string(alice) + "-other")

		medicine := newTestMedicine("Metformin")
		if err := repo.Medicine().Put(ctx, alice, medicine); err != nil {
			t.Fatalf("failed to put medicine: %v", err)
		}

		if _, err := repo.Medicine().Get(ctx, bob, medicine.ID); err == nil {
			t.Error("expected not found for other user")
		}

		all, err := repo.Medicine().List(ctx, bob)
		if err != nil {
			t.Fatalf("failed to list medicines: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected no medicines for other user, got %d", len(all))
		}
	})

	t.Run("Unscheduled medicine round-trips with nil TimeOfDay", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := testUserID()

		medicine := newTestMedicine("Vitamin D")
		medicine.TimeOfDay = nil
		if err := repo.Medicine().Put(ctx, userID, medicine); err != nil {
			t.Fatalf("failed to put medicine: %v", err)
		}

		got, err := repo.Medicine().Get(ctx, userID, medicine.ID)
		if err != nil {
			t.Fatalf("failed to get medicine: %v", err)
		}
		if got.TimeOfDay != nil {
			t.Errorf("expected nil TimeOfDay, got %v", got.TimeOfDay)
		}
		if got.Scheduled() {
			t.Error("expected unscheduled medicine")
		}
	})
}

func TestMemoryMedicineRepository(t *testing.T) {
	runMedicineRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreMedicineRepository(t *testing.T) {
	runMedicineRepositoryTest(t, newFirestoreRepository)
}
