// internal/app/system/inputval/inputval.go
// Package inputval validates request payloads with struct tags and
// reports failures by their JSON field names.
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
			return IsRFC3339(fl.Field().String())
		})
	})
	return v
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result collects every failure from one Validate call.
type Result struct {
	Errors []FieldError
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Missing returns the fields that failed a required rule, in struct order.
func (r Result) Missing() []string {
	var out []string
	for _, e := range r.Errors {
		if e.Rule == "required" {
			out = append(out, e.Field)
		}
	}
	return out
}

// Validate runs the validate tags on s, which must be a struct or a
// pointer to one.
func Validate(s any) Result {
	err := get().Struct(s)
	if err == nil {
		return Result{}
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return Result{Errors: []FieldError{{Rule: "invalid", Message: err.Error()}}}
	}
	out := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return Result{Errors: out}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	case "rfc3339":
		return fmt.Sprintf("%s must be an RFC 3339 date-time.", fe.Field())
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

// IsValidEmail accepts a bare addr-spec (no display name) with no empty
// dot-separated labels on either side of the @.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	return dotsOK(local) && dotsOK(domain)
}

func dotsOK(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}
