package domain

// FieldError carries a validation message scoped to a single input field.
// Store-level constraint violations are translated into FieldErrors before
// they reach the HTTP surface, so raw database error codes never leak.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}
