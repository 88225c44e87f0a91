package validation

import (
	"context"
	"errors"
	"fmt"
	"panel/internal/app/rules"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TableServiceOptions таблица, на которую ссылаются option_id
const TableServiceOptions = "service_options"

// EntityStore проверка ссылочной целостности во внешнем хранилище
type EntityStore interface {
	Exists(ctx context.Context, table string, id uint) (bool, error)
}

// Field правило для одного поля кандидата.
//
// Application - выражение присутствия ("required", "sometimes|required", "sometimes|nullable").
// Переданное значение nil допускается только при nullable.
// Integrity - тег go-playground/validator, применяется к переданному значению.
// Exists - таблица для проверки существования, значение должно быть uint.
// Value возвращает значение и признак того, что поле передано; (nil, true) означает явный null.
type Field[T any] struct {
	Name        string
	Application string
	Integrity   string
	Exists      string
	Check       func(value any) error
	Value       func(candidate T) (any, bool)
}

type field[T any] struct {
	Field[T]
	app rules.Set
}

// Policy упорядоченный набор правил полей для одного типа сущности
type Policy[T any] struct {
	fields   []field[T]
	store    EntityStore
	validate *validator.Validate
}

func NewPolicy[T any](store EntityStore, fields ...Field[T]) *Policy[T] {
	p := &Policy[T]{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, f := range fields {
		p.fields = append(p.fields, field[T]{Field: f, app: rules.Parse(f.Application)})
	}
	return p
}

// Validate проверяет все поля и возвращает Errors со всеми нарушениями.
// Любая другая ошибка означает сбой EntityStore.
func (p *Policy[T]) Validate(ctx context.Context, candidate T) error {
	return p.ValidateDecoded(ctx, candidate, nil)
}

// ValidateDecoded как Validate, но поля из decodeErrs (не разобранные из тела запроса)
// попадают в результат вместо проверки их правил. Порядок ошибок остается порядком полей.
func (p *Policy[T]) ValidateDecoded(ctx context.Context, candidate T, decodeErrs Errors) error {
	var errs Errors
	for _, f := range p.fields {
		if fe, ok := decodeErrs.Get(f.Name); ok {
			errs = append(errs, fe)
			continue
		}
		fe, err := p.checkField(ctx, f, candidate)
		if err != nil {
			return err
		}
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	for _, fe := range decodeErrs {
		if !p.has(fe.Field) {
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (p *Policy[T]) has(name string) bool {
	for _, f := range p.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (p *Policy[T]) checkField(ctx context.Context, f field[T], candidate T) (*FieldError, error) {
	value, present := f.Value(candidate)
	if !present {
		if f.app.IsRequired() && !f.app.IsSometimes() {
			return requiredError(f.Name), nil
		}
		return nil, nil
	}

	// явный null допустим только для nullable полей
	if value == nil {
		if f.app.IsNullable() {
			return nil, nil
		}
		return &FieldError{Field: f.Name, Rule: "nullable", Message: "field may not be null"}, nil
	}

	if f.app.IsRequired() && !filled(value) {
		return requiredError(f.Name), nil
	}

	if f.Integrity != "" {
		if err := p.validate.Var(value, f.Integrity); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) || len(verrs) == 0 {
				return nil, fmt.Errorf("validate %s: %w", f.Name, err)
			}
			return &FieldError{Field: f.Name, Rule: verrs[0].Tag(), Message: tagMessage(verrs[0])}, nil
		}
	}

	if f.Check != nil {
		if err := f.Check(value); err != nil {
			fe := &FieldError{Field: f.Name, Rule: "check", Message: err.Error()}
			var identErr *InvalidIdentifierError
			if errors.As(err, &identErr) {
				fe.Rule = string(identErr.Reason)
				fe.Reason = identErr.Reason
			}
			return fe, nil
		}
	}

	if f.Exists != "" {
		id, ok := value.(uint)
		if !ok {
			return nil, fmt.Errorf("validate %s: exists rule needs uint, got %T", f.Name, value)
		}
		exists, err := p.store.Exists(ctx, f.Exists, id)
		if err != nil {
			return nil, fmt.Errorf("check %s %d exists: %w", f.Exists, id, err)
		}
		if !exists {
			return &FieldError{
				Field:   f.Name,
				Rule:    "exists",
				Message: fmt.Sprintf("selected %s is invalid", f.Name),
			}, nil
		}
	}

	return nil, nil
}

func requiredError(name string) *FieldError {
	return &FieldError{Field: name, Rule: "required", Message: "field is required"}
}

// filled: строка из пробелов считается пустой, false - заполненным значением
func filled(value any) bool {
	if v, ok := value.(string); ok {
		return strings.TrimSpace(v) != ""
	}
	return true
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}

// Ptr превращает поле-указатель DTO в пару (значение, передано)
func Ptr[V any](p *V) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
