package validation

import (
	"errors"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// FieldError ошибка одного поля. Reason заполняется только для env_variable.
type FieldError struct {
	Field   string
	Rule    string
	Message string
	Reason  IdentifierReason
}

// Errors все ошибки кандидата, по одной на поле, в порядке объявления полей
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap позволяет проверять errors.Is(err, ErrInvalidInput)
func (e Errors) Unwrap() error {
	return ErrInvalidInput
}

// Get ищет ошибку по имени поля
func (e Errors) Get(field string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Fields имена полей с ошибками
func (e Errors) Fields() []string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fields
}

// Without копия списка без ошибок указанного поля
func (e Errors) Without(field string) Errors {
	var out Errors
	for _, fe := range e {
		if fe.Field != field {
			out = append(out, fe)
		}
	}
	return out
}
