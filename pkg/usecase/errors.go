package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrMedicineNotFound = errors.New("medicine not found")

	// Validation errors
	ErrInvalidMedicineID = errors.New("invalid medicine ID")

	// Session errors
	ErrNoUser = errors.New("no signed-in user")
)

// Context keys for error values
const (
	MedicineIDKey = "medicine_id"
	UserIDKey     = "user_id"
)
