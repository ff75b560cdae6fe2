package entities

const (
	ViolationMissingField    = "missing_field"
	ViolationTypeMismatch    = "type_mismatch"
	ViolationLimitExceeded   = "limit_exceeded"
	ViolationDisallowedField = "disallowed_field"
)

type FieldViolation struct {
	Field   string
	Code    string
	Message string
}

type ValidationResult struct {
	OK         bool
	Violations []FieldViolation
}
