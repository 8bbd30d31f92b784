package types

import "errors"

// ValidationError carries a message meant to be shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// AsValidation returns the user-facing message of a ValidationError in err's chain.
func AsValidation(err error) (string, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message, true
	}
	return "", false
}
