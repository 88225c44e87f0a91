package rules

import (
	"strconv"
	"strings"
)

// Kind тип правила в выражении вида "required|string|between:1,255"
type Kind int

const (
	KindOther Kind = iota
	KindRequired
	KindSometimes
	KindNullable
	KindString
	KindInteger
	KindNumeric
	KindBoolean
	KindBetween
	KindMin
	KindMax
	KindIn
	KindRegex
)

var kindByName = map[string]Kind{
	"required":  KindRequired,
	"sometimes": KindSometimes,
	"nullable":  KindNullable,
	"string":    KindString,
	"integer":   KindInteger,
	"numeric":   KindNumeric,
	"boolean":   KindBoolean,
	"between":   KindBetween,
	"min":       KindMin,
	"max":       KindMax,
	"in":        KindIn,
	"regex":     KindRegex,
}

// Rule одно правило выражения. Min/Max заполняются для between, min и max.
type Rule struct {
	Kind   Kind
	Name   string
	Params []string
	Min    int
	Max    int
}

// Set разобранное выражение правил, порядок токенов сохраняется
type Set []Rule

// Parse разбирает выражение один раз. Ошибок нет: некорректные параметры
// превращают правило в KindOther.
func Parse(expr string) Set {
	var set Set
	for _, token := range strings.Split(expr, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		set = append(set, parseToken(token))
	}
	return set
}

func parseToken(token string) Rule {
	name, raw, hasParams := strings.Cut(token, ":")
	rule := Rule{Name: name, Kind: kindByName[name]}
	if hasParams {
		// у regex запятые являются частью шаблона
		if rule.Kind == KindRegex {
			rule.Params = []string{raw}
		} else {
			rule.Params = strings.Split(raw, ",")
		}
	}

	switch rule.Kind {
	case KindBetween:
		if len(rule.Params) != 2 {
			rule.Kind = KindOther
			break
		}
		lo, errLo := strconv.Atoi(strings.TrimSpace(rule.Params[0]))
		hi, errHi := strconv.Atoi(strings.TrimSpace(rule.Params[1]))
		if errLo != nil || errHi != nil || lo > hi {
			rule.Kind = KindOther
			break
		}
		rule.Min, rule.Max = lo, hi
	case KindMin, KindMax:
		if len(rule.Params) != 1 {
			rule.Kind = KindOther
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(rule.Params[0]))
		if err != nil {
			rule.Kind = KindOther
			break
		}
		if rule.Kind == KindMin {
			rule.Min = n
		} else {
			rule.Max = n
		}
	case KindIn, KindRegex:
		if len(rule.Params) == 0 {
			rule.Kind = KindOther
		}
	}
	return rule
}

// Has проверяет наличие токена с точно таким именем
func (s Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Get возвращает первое правило с указанным именем
func (s Set) Get(name string) (Rule, bool) {
	for _, r := range s {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// IsRequired true только для целого токена "required" ("requiredWith" не подходит)
func (s Set) IsRequired() bool {
	return s.Has("required")
}

// IsSometimes поле проверяется только если оно передано
func (s Set) IsSometimes() bool {
	return s.Has("sometimes")
}

// IsNullable допускает явный null
func (s Set) IsNullable() bool {
	return s.Has("nullable")
}

// Between возвращает границы первого корректного правила between
func (s Set) Between() (int, int, bool) {
	for _, r := range s {
		if r.Kind == KindBetween {
			return r.Min, r.Max, true
		}
	}
	return 0, 0, false
}

// String собирает выражение обратно в формат "a|b:1,2"
func (s Set) String() string {
	tokens := make([]string, len(s))
	for i, r := range s {
		tokens[i] = r.String()
	}
	return strings.Join(tokens, "|")
}

func (r Rule) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	return r.Name + ":" + strings.Join(r.Params, ",")
}

// IsRequired разбирает выражение и проверяет наличие токена required
func IsRequired(expr string) bool {
	return Parse(expr).IsRequired()
}
