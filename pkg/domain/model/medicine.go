package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/healguard/pkg/domain/types"
)

// Validation sentinel errors for Medicine fields
var (
	ErrNameRequired      = errors.New("medicine name is required")
	ErrUsageRequired     = errors.New("usage instructions are required")
	ErrInvalidDosageForm = errors.New("exactly one valid dosage form must be selected")
	ErrInvalidTimeOfDay  = errors.New("time of day must be HH:MM in 24-hour form")
)

// Medicine represents one medicine record in a user's set.
// TimeOfDay is nil when the medicine is unscheduled.
type Medicine struct {
	ID          types.MedicineID
	Name        string
	Usage       string // dosage instructions, e.g. "500mg every 6 hours"
	Description string
	TimeOfDay   *types.TimeOfDay
	Form        types.DosageForm
	Timing      string // free-text meal-relative hint, e.g. "After meals"
}

// Validate checks the required fields of a Medicine. ID may be empty; it is
// assigned on registration.
func (m *Medicine) Validate() error {
	if m.Name == "" {
		return goerr.Wrap(ErrNameRequired, "invalid medicine")
	}
	if m.Usage == "" {
		return goerr.Wrap(ErrUsageRequired, "invalid medicine", goerr.V("name", m.Name))
	}
	if !m.Form.IsValid() {
		return goerr.Wrap(ErrInvalidDosageForm, "invalid medicine",
			goerr.V("name", m.Name),
			goerr.V("form", m.Form))
	}
	return nil
}

// Scheduled reports whether the medicine has a daily reminder time
func (m *Medicine) Scheduled() bool {
	return m.TimeOfDay != nil
}

// Clone returns a deep copy of the medicine
func (m *Medicine) Clone() *Medicine {
	copied := *m
	if m.TimeOfDay != nil {
		tod := *m.TimeOfDay
		copied.TimeOfDay = &tod
	}
	return &copied
}
