package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/interfaces"
	"github.com/secmon-lab/healguard/pkg/domain/model"
	"github.com/secmon-lab/healguard/pkg/domain/types"
	"github.com/secmon-lab/healguard/pkg/scheduler"
	svcalert "github.com/secmon-lab/healguard/pkg/service/alert"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/service/syncq"
	"github.com/secmon-lab/healguard/pkg/utils/async"
	"github.com/secmon-lab/healguard/pkg/utils/logging"
)

// session is the in-memory mirror of one user's medicine set. All
// mutation entry points and fire handling for the user serialize on
// its mutex so two interleaved edits cannot produce two live schedule
// entries for the same medicine.
type session struct {
	mu        sync.Mutex
	medicines map[types.MedicineID]*model.Medicine
}

// MedicineUseCase is the medicine registry: the source of truth for
// what the scheduler should have armed. It reconciles against the
// record store on load and keeps store writes ordered per medicine ID
// while never letting a store failure block a mutation.
type MedicineUseCase struct {
	repo  interfaces.Repository
	clock *clock.Clock
	sched *scheduler.Scheduler
	queue *syncq.Queue
	log   *LogUseCase
	alert interfaces.AlertSender
	hooks *interfaces.Hooks

	mu       sync.Mutex
	sessions map[types.UserID]*session
	owners   map[types.MedicineID]types.UserID
}

func NewMedicineUseCase(repo interfaces.Repository, clk *clock.Clock, sched *scheduler.Scheduler, queue *syncq.Queue, log *LogUseCase, alert interfaces.AlertSender, hooks *interfaces.Hooks) *MedicineUseCase {
	return &MedicineUseCase{
		repo:     repo,
		clock:    clk,
		sched:    sched,
		queue:    queue,
		log:      log,
		alert:    alert,
		hooks:    hooks,
		sessions: make(map[types.UserID]*session),
		owners:   make(map[types.MedicineID]types.UserID),
	}
}

func (uc *MedicineUseCase) session(userID types.UserID) *session {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, exists := uc.sessions[userID]
	if !exists {
		s = &session{medicines: make(map[types.MedicineID]*model.Medicine)}
		uc.sessions[userID] = s
	}
	return s
}

func (uc *MedicineUseCase) setOwner(id types.MedicineID, userID types.UserID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.owners[id] = userID
}

func (uc *MedicineUseCase) dropOwner(id types.MedicineID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.owners, id)
}

func (uc *MedicineUseCase) owner(id types.MedicineID) (types.UserID, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	userID, exists := uc.owners[id]
	return userID, exists
}

// Load fetches the user's medicines from the record store, replaces
// the in-memory set wholesale and reconciles the scheduler so the
// armed set matches exactly.
func (uc *MedicineUseCase) Load(ctx context.Context, userID types.UserID) ([]*model.Medicine, error) {
	medicines, err := uc.repo.Medicine().List(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load medicines", goerr.V(UserIDKey, userID))
	}

	s := uc.session(userID)
	s.mu.Lock()

	uc.mu.Lock()
	for id := range s.medicines {
		delete(uc.owners, id)
	}
	s.medicines = make(map[types.MedicineID]*model.Medicine, len(medicines))
	for _, m := range medicines {
		s.medicines[m.ID] = m.Clone()
		uc.owners[m.ID] = userID
	}
	uc.mu.Unlock()

	if warn := uc.sched.ReconcileAll(ctx, medicines); warn != nil {
		logging.From(ctx).Warn("some reminders degraded to inexact timing",
			UserIDKey, userID,
			"error", warn.Error(),
		)
	}
	s.mu.Unlock()

	uc.showMedicines(s)
	return medicines, nil
}

// Add validates and registers a new medicine, arms its reminder and
// records the change in both logs. Store writes are best-effort; the
// reminder is armed even if the cloud write fails.
func (uc *MedicineUseCase) Add(ctx context.Context, userID types.UserID, medicine *model.Medicine) (*model.Medicine, error) {
	if err := medicine.Validate(); err != nil {
		return nil, err
	}
	if medicine.ID == "" {
		medicine.ID = types.NewMedicineID()
	}

	s := uc.session(userID)
	s.mu.Lock()
	s.medicines[medicine.ID] = medicine.Clone()
	uc.setOwner(medicine.ID, userID)
	next, warn := uc.sched.Arm(ctx, medicine)
	s.mu.Unlock()

	if warn != nil {
		logging.From(ctx).Warn("reminder armed with inexact timing",
			MedicineIDKey, medicine.ID,
			"error", warn.Error(),
		)
	}

	uc.persistMedicine(ctx, userID, medicine)
	uc.logMutation(ctx, userID, medicine, types.HistoryActionAdded, next != nil)
	uc.showMedicines(s)

	return medicine.Clone(), nil
}

// Update validates and replaces an existing medicine, re-arming or
// disarming its reminder to match the new time of day.
func (uc *MedicineUseCase) Update(ctx context.Context, userID types.UserID, medicine *model.Medicine) (*model.Medicine, error) {
	if medicine.ID == "" {
		return nil, goerr.Wrap(ErrInvalidMedicineID, "medicine ID is required for update")
	}
	if err := medicine.Validate(); err != nil {
		return nil, err
	}

	s := uc.session(userID)
	s.mu.Lock()
	if _, exists := s.medicines[medicine.ID]; !exists {
		s.mu.Unlock()
		return nil, goerr.Wrap(ErrMedicineNotFound, "cannot update unknown medicine",
			goerr.V(MedicineIDKey, medicine.ID),
			goerr.V(UserIDKey, userID),
		)
	}
	s.medicines[medicine.ID] = medicine.Clone()

	var nextFire bool
	if medicine.Scheduled() {
		at, warn := uc.sched.Arm(ctx, medicine)
		if warn != nil {
			logging.From(ctx).Warn("reminder armed with inexact timing",
				MedicineIDKey, medicine.ID,
				"error", warn.Error(),
			)
		}
		nextFire = at != nil
	} else {
		uc.sched.Cancel(ctx, medicine.ID)
	}
	s.mu.Unlock()

	uc.persistMedicine(ctx, userID, medicine)
	uc.logMutation(ctx, userID, medicine, types.HistoryActionEdited, nextFire)
	uc.showMedicines(s)

	return medicine.Clone(), nil
}

// Remove deletes a medicine, disarms its reminder before returning and
// records the deletion in both logs.
func (uc *MedicineUseCase) Remove(ctx context.Context, userID types.UserID, id types.MedicineID) error {
	if id == "" {
		return goerr.Wrap(ErrInvalidMedicineID, "medicine ID is required for removal")
	}

	s := uc.session(userID)
	s.mu.Lock()
	medicine, exists := s.medicines[id]
	if !exists {
		s.mu.Unlock()
		return goerr.Wrap(ErrMedicineNotFound, "cannot remove unknown medicine",
			goerr.V(MedicineIDKey, id),
			goerr.V(UserIDKey, userID),
		)
	}
	delete(s.medicines, id)
	uc.dropOwner(id)
	uc.sched.Cancel(ctx, id)
	s.mu.Unlock()

	uc.persist(ctx, userID, medicineKey(userID, id), func(bgCtx context.Context) error {
		return uc.repo.Medicine().Delete(bgCtx, userID, id)
	})

	uc.log.AppendHistory(ctx, userID, &model.HistoryItem{
		Action:       types.HistoryActionDeleted,
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
		Message:      fmt.Sprintf("You been successfully deleted %s", medicine.Name),
	})
	uc.log.AppendNotification(ctx, userID, &model.NotificationItem{
		Type:         types.NotificationTypeSuccess,
		Message:      fmt.Sprintf("You've been successfully deleted %s", medicine.Name),
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
	})
	uc.showMedicines(s)

	return nil
}

// Current returns the in-memory medicine set for the user
func (uc *MedicineUseCase) Current(ctx context.Context, userID types.UserID) []*model.Medicine {
	s := uc.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*model.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		result = append(result, m.Clone())
	}
	return result
}

// Get returns one medicine from the in-memory set
func (uc *MedicineUseCase) Get(ctx context.Context, userID types.UserID, id types.MedicineID) (*model.Medicine, error) {
	s := uc.session(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.medicines[id]
	if !exists {
		return nil, goerr.Wrap(ErrMedicineNotFound, "medicine not found",
			goerr.V(MedicineIDKey, id),
			goerr.V(UserIDKey, userID),
		)
	}
	return m.Clone(), nil
}

// SendToHardware marks the dispenser as serving this user's medicine
// and records the transfer in both logs.
func (uc *MedicineUseCase) SendToHardware(ctx context.Context, userID types.UserID, id types.MedicineID) error {
	medicine, err := uc.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	uc.persist(ctx, userID, string(userID)+"/hardware", func(bgCtx context.Context) error {
		return uc.repo.Hardware().SetActiveUser(bgCtx, userID)
	})

	uc.log.AppendHistory(ctx, userID, &model.HistoryItem{
		Action:       types.HistoryActionSentToHardware,
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
		Message:      fmt.Sprintf("Medicine %s sent to hardware device", medicine.Name),
	})
	uc.log.AppendNotification(ctx, userID, &model.NotificationItem{
		Type:         types.NotificationTypeSuccess,
		Message:      fmt.Sprintf("Medicine %s sent to hardware device", medicine.Name),
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
	})
	return nil
}

// SyncState reports whether the medicine's latest write reached the
// record store. Advisory only.
func (uc *MedicineUseCase) SyncState(userID types.UserID, id types.MedicineID) syncq.State {
	if uc.queue == nil {
		return syncq.StateSynced
	}
	return uc.queue.SyncState(medicineKey(userID, id))
}

// handleReminderFired consumes deduplicated fire events from the
// scheduler. It re-checks the medicine still exists under the session
// lock so a reminder never fires for a just-deleted medicine.
func (uc *MedicineUseCase) handleReminderFired(ctx context.Context, id types.MedicineID, firedAt time.Time) {
	userID, exists := uc.owner(id)
	if !exists {
		logging.From(ctx).Info("dropping fire for unknown medicine", MedicineIDKey, id)
		return
	}

	s := uc.session(userID)
	s.mu.Lock()
	medicine, exists := s.medicines[id]
	if !exists {
		s.mu.Unlock()
		logging.From(ctx).Info("dropping fire for removed medicine", MedicineIDKey, id)
		return
	}
	medicine = medicine.Clone()
	s.mu.Unlock()

	var tod string
	if medicine.TimeOfDay != nil {
		tod = medicine.TimeOfDay.String()
	}
	uc.log.AppendNotification(ctx, userID, &model.NotificationItem{
		Type:         types.NotificationTypeReminder,
		Message:      svcalert.Message(medicine.Name, medicine.Usage),
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
		TimeOfDay:    tod,
		Timestamp:    firedAt,
	})

	if uc.alert != nil {
		name, usage := medicine.Name, medicine.Usage
		async.Dispatch(ctx, func(bgCtx context.Context) error {
			return uc.alert.Send(bgCtx, name, usage)
		})
	}
}

// logMutation appends the history entry and success notification for
// an add or edit, including the time-until-reminder wording when a
// reminder was armed.
func (uc *MedicineUseCase) logMutation(ctx context.Context, userID types.UserID, medicine *model.Medicine, action types.HistoryAction, armed bool) {
	verb := "added"
	if action == types.HistoryActionEdited {
		verb = "edited"
	}

	uc.log.AppendHistory(ctx, userID, &model.HistoryItem{
		Action:       action,
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
		Message:      fmt.Sprintf("You been successfully %s %s", verb, medicine.Name),
	})

	message := fmt.Sprintf("You've been successfully %s %s.", verb, medicine.Name)
	if armed && medicine.Scheduled() {
		next, ok := uc.sched.NextFire(medicine.ID)
		if ok {
			message = fmt.Sprintf("You've been successfully %s %s. Reminder it will ring in %s.",
				verb, medicine.Name, clock.UntilText(uc.clock.Until(next)))
		}
	}
	uc.log.AppendNotification(ctx, userID, &model.NotificationItem{
		Type:         types.NotificationTypeSuccess,
		Message:      message,
		MedicineName: medicine.Name,
		Dosage:       medicine.Usage,
	})

	if armed && medicine.Scheduled() {
		uc.log.AppendNotification(ctx, userID, &model.NotificationItem{
			Type:         types.NotificationTypeScheduled,
			Message:      fmt.Sprintf("Medicine reminder: %s, %s at %s", medicine.Name, medicine.Usage, medicine.TimeOfDay.Clock12()),
			MedicineName: medicine.Name,
			Dosage:       medicine.Usage,
			TimeOfDay:    medicine.TimeOfDay.String(),
		})
	}
}

func (uc *MedicineUseCase) persistMedicine(ctx context.Context, userID types.UserID, medicine *model.Medicine) {
	stored := medicine.Clone()
	uc.persist(ctx, userID, medicineKey(userID, medicine.ID), func(bgCtx context.Context) error {
		return uc.repo.Medicine().Put(bgCtx, userID, stored)
	})
}

// persist runs the write through the sync queue when configured, or
// synchronously otherwise. Store failures never fail the mutation, and
// a session without a signed-in user stays in memory only.
func (uc *MedicineUseCase) persist(ctx context.Context, userID types.UserID, key string, op func(ctx context.Context) error) {
	if userID == "" {
		logging.From(ctx).Debug("no signed-in user, keeping local state only", "key", key)
		return
	}
	if uc.queue != nil {
		if err := uc.queue.Enqueue(ctx, key, op); err != nil {
			logging.From(ctx).Warn("failed to enqueue store write", "key", key, "error", err.Error())
		}
		return
	}
	if err := op(ctx); err != nil {
		logging.From(ctx).Warn("store write failed, keeping local state",
			"key", key,
			"error", err.Error(),
		)
	}
}

func (uc *MedicineUseCase) showMedicines(s *session) {
	if uc.hooks == nil || uc.hooks.ShowMedicines == nil {
		return
	}

	s.mu.Lock()
	medicines := make([]*model.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		medicines = append(medicines, m.Clone())
	}
	s.mu.Unlock()

	uc.hooks.ShowMedicines(medicines)
}

func medicineKey(userID types.UserID, id types.MedicineID) string {
	return fmt.Sprintf("%s/medicines/%s", userID, id)
}
