// Package validate checks decoded JSON request bodies against a flat,
// ordered list of field rules.
package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	Required Kind = iota
	Email
	Number
	MinLength
	MaxLength
	Min
	Max
	Date
	MaxBytes
)

// Rule is one check on a field. N holds the length limit for MinLength,
// MaxLength and MaxBytes, X the bound for Min and Max.
type Rule struct {
	Kind Kind
	N    int
	X    float64
}

func MinLengthOf(n int) Rule { return Rule{Kind: MinLength, N: n} }
func MaxLengthOf(n int) Rule { return Rule{Kind: MaxLength, N: n} }
func MaxBytesOf(n int) Rule  { return Rule{Kind: MaxBytes, N: n} }
func MinOf(x float64) Rule   { return Rule{Kind: Min, X: x} }
func MaxOf(x float64) Rule   { return Rule{Kind: Max, X: x} }

var (
	RequiredRule = Rule{Kind: Required}
	EmailRule    = Rule{Kind: Email}
	NumberRule   = Rule{Kind: Number}
	DateRule     = Rule{Kind: Date}
)

type Field struct {
	Name  string
	Rules []Rule
}

// Schema is evaluated in order so that messages come out in a stable order.
type Schema []Field

func F(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

const dateLayout = "2006-01-02"

var emailValidator = validator.New()

// Check returns every rule violation in input. A missing field (absent, null
// or the empty string) yields a single "is required" message when the field
// is required and is skipped otherwise.
func Check(schema Schema, input map[string]any) []string {
	var errs []string

	for _, field := range schema {
		value, present := input[field.Name]
		if isMissing(value, present) {
			if field.required() {
				errs = append(errs, fmt.Sprintf("%s is required", field.Name))
			}
			continue
		}

		for _, rule := range field.Rules {
			if msg, ok := rule.check(field.Name, value); !ok {
				errs = append(errs, msg)
			}
		}
	}

	return errs
}

func (f Field) required() bool {
	for _, rule := range f.Rules {
		if rule.Kind == Required {
			return true
		}
	}
	return false
}

func isMissing(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func (r Rule) check(name string, value any) (string, bool) {
	switch r.Kind {
	case Email:
		s, ok := value.(string)
		if !ok || emailValidator.Var(s, "email") != nil {
			return fmt.Sprintf("%s must be a valid email", name), false
		}
	case MinLength:
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) < r.N {
			return fmt.Sprintf("%s must be at least %d characters", name, r.N), false
		}
	case MaxLength:
		if s, ok := value.(string); ok && utf8.RuneCountInString(s) > r.N {
			return fmt.Sprintf("%s must be at most %d characters", name, r.N), false
		}
	case MaxBytes:
		if s, ok := value.(string); ok && len(s) > r.N {
			return fmt.Sprintf("%s must be at most %d bytes", name, r.N), false
		}
	case Number:
		if _, ok := toFloat(value); !ok {
			return fmt.Sprintf("%s must be a number", name), false
		}
	case Min:
		if x, ok := toFloat(value); ok && x < r.X {
			return fmt.Sprintf("%s must be at least %s", name, formatBound(r.X)), false
		}
	case Max:
		if x, ok := toFloat(value); ok && x > r.X {
			return fmt.Sprintf("%s must be at most %s", name, formatBound(r.X)), false
		}
	case Date:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name), false
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name), false
		}
	}
	return "", true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatBound(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
