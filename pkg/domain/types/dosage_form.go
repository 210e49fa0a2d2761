package types

import "fmt"

// DosageForm represents the physical form of a medicine
type DosageForm string

const (
	DosageFormTablet  DosageForm = "tablet"
	DosageFormCapsule DosageForm = "capsule"
	DosageFormLiquid  DosageForm = "liquid"
	DosageFormCream   DosageForm = "cream"
	DosageFormPatch   DosageForm = "patch"
	DosageFormSpray   DosageForm = "spray"
)

// AllDosageForms returns all valid dosage forms
func AllDosageForms() []DosageForm {
	return []DosageForm{
		DosageFormTablet,
		DosageFormCapsule,
		DosageFormLiquid,
		DosageFormCream,
		DosageFormPatch,
		DosageFormSpray,
	}
}

// IsValid checks if the dosage form is valid
func (f DosageForm) IsValid() bool {
	switch f {
	case DosageFormTablet,
		DosageFormCapsule,
		DosageFormLiquid,
		DosageFormCream,
		DosageFormPatch,
		DosageFormSpray:
		return true
	default:
		return false
	}
}

// String returns the string representation of the dosage form
func (f DosageForm) String() string {
	return string(f)
}

// ParseDosageForm parses a string into a DosageForm
func ParseDosageForm(s string) (DosageForm, error) {
	form := DosageForm(s)
	if !form.IsValid() {
		return "", fmt.Errorf("invalid dosage form: %s", s)
	}
	return form, nil
}
