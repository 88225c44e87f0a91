package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// MaxIdentifierLength максимальная длина имени переменной окружения
const MaxIdentifierLength = 255

// ReservedEnvNames имена, которые панель выставляет серверу сама
var ReservedEnvNames = []string{
	"SERVER_MEMORY",
	"SERVER_IP",
	"SERVER_PORT",
	"ENV",
	"HOME",
	"USER",
	"STARTUP",
	"SERVER_UUID",
	"UUID",
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// IdentifierReason причина отказа в имени переменной
type IdentifierReason string

const (
	ReasonTooLong       IdentifierReason = "too_long"
	ReasonBadCharacters IdentifierReason = "bad_characters"
	ReasonReserved      IdentifierReason = "reserved"
)

// InvalidIdentifierError имя переменной окружения не прошло проверку
type InvalidIdentifierError struct {
	Name   string
	Reason IdentifierReason
}

func (e *InvalidIdentifierError) Error() string {
	switch e.Reason {
	case ReasonTooLong:
		return fmt.Sprintf("identifier must be between 1 and %d characters", MaxIdentifierLength)
	case ReasonBadCharacters:
		return fmt.Sprintf("identifier %q may only contain letters, digits and underscores", e.Name)
	case ReasonReserved:
		return fmt.Sprintf("identifier %q is reserved", e.Name)
	}
	return fmt.Sprintf("identifier %q is invalid", e.Name)
}

// Unwrap позволяет проверять errors.Is(err, ErrInvalidInput)
func (e *InvalidIdentifierError) Unwrap() error {
	return ErrInvalidInput
}

// ValidateIdentifier проверяет имя переменной: длина, символы, зарезервированные имена
func ValidateIdentifier(name string) error {
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxIdentifierLength {
		return &InvalidIdentifierError{Name: name, Reason: ReasonTooLong}
	}
	if !identifierRegex.MatchString(name) {
		return &InvalidIdentifierError{Name: name, Reason: ReasonBadCharacters}
	}
	if IsReserved(name) {
		return &InvalidIdentifierError{Name: name, Reason: ReasonReserved}
	}
	return nil
}

// IsReserved сравнение с учётом регистра
func IsReserved(name string) bool {
	for _, reserved := range ReservedEnvNames {
		if name == reserved {
			return true
		}
	}
	return false
}
