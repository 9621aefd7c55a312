package httperr

import "errors"

// ===============================
// Domain error codes
// ===============================

const (
	CodeOutOfPolicy         = "out_of_policy"
	CodeSlotConflict        = "slot_conflict"
	CodeConstraintViolation = "constraint_violation"
	CodeResetProtected      = "reset_protected"
	CodeStorageUnavailable  = "storage_unavailable"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
