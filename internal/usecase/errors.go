package usecase

import "errors"

// Códigos devolvidos no campo "error" da API.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInvalidFile     = "INVALID_FILE"
	ErrCodeNoValidRows     = "NO_VALID_ROWS"
	ErrCodeDuplicateSale   = "DUPLICATE_SALE"
	ErrCodeInvalidStatus   = "INVALID_STATUS_TRANSITION"
	ErrCodeDatabase        = "DATABASE_ERROR"
	ErrCodeLeadSource      = "LEAD_SOURCE_ERROR"
	ErrCodeInvalidDupMode  = "INVALID_DUPLICATE_POLICY"
	ErrCodeInvalidRelation = "INVALID_REFERENCE"
)

// DomainError é culpa de quem chamou (4xx).
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError é falha de infraestrutura (5xx). Err guarda a causa.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
