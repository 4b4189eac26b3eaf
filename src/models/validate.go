package models

// ValidationError reports a schema constraint violation. Controllers map it
// to a 400 response with the constraint message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
