package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single request validation failure. Param is the
// JSON path of the offending field, e.g. "profile.currentSkills" or
// "mentors[2].name".
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Param, e.Msg)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator returns the shared validator instance. Field names in
// reported errors follow the json tags so params match the wire format.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// required rejects absent fields; notblank additionally rejects
		// whitespace-only strings.
		if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			panic(err)
		}
	})
	return validate
}

// Validate checks the whole request and returns every violation at once.
// A nil result means the request is acceptable.
func (r *MatchRequest) Validate() []FieldError {
	errs := append([]FieldError(nil), r.issues...)
	errs = append(errs, prefixed("profile", r.Profile.issues)...)
	for i := range r.Mentors {
		errs = append(errs, prefixed(fmt.Sprintf("mentors[%d]", i), r.Mentors[i].issues)...)
	}
	return appendRuleErrors(errs, requestValidator().Struct(r))
}

// Validate checks the roster request's mentee profile.
func (r *RosterMatchRequest) Validate() []FieldError {
	errs := append([]FieldError(nil), r.issues...)
	errs = append(errs, prefixed("profile", r.Profile.issues)...)
	return appendRuleErrors(errs, requestValidator().Struct(r))
}

// Validate checks a single mentor, as submitted to the roster.
func (m *Mentor) Validate() []FieldError {
	errs := append([]FieldError(nil), m.issues...)
	return appendRuleErrors(errs, requestValidator().Struct(m))
}

// appendRuleErrors merges validator rule failures into errs, skipping any
// failure already shadowed by a decode issue on the same field or one of
// its ancestors. A field decoded as the wrong type reads as its zero value,
// so without the skip every shape issue would drag in a bogus "is required".
func appendRuleErrors(errs []FieldError, err error) []FieldError {
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(errs, FieldError{Param: "body", Msg: "is invalid"})
	}
	for _, fe := range verrs {
		param := trimNamespaceRoot(fe.Namespace())
		if shadowed(errs, param) {
			continue
		}
		errs = append(errs, FieldError{Param: param, Msg: ruleMessage(fe)})
	}
	return errs
}

// trimNamespaceRoot drops the leading struct type name from a validator
// namespace: "MatchRequest.mentors[2].name" becomes "mentors[2].name".
func trimNamespaceRoot(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// shadowed reports whether param equals, or sits beneath, the path of an
// already-recorded error.
func shadowed(errs []FieldError, param string) bool {
	for _, e := range errs {
		if param == e.Param ||
			strings.HasPrefix(param, e.Param+".") ||
			strings.HasPrefix(param, e.Param+"[") {
			return true
		}
	}
	return false
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "min":
		if fe.Field() == "mentors" {
			return "must contain at least one mentor"
		}
		return "is too short"
	default:
		return "is invalid"
	}
}

func prefixed(prefix string, issues []FieldError) []FieldError {
	if len(issues) == 0 {
		return nil
	}
	out := make([]FieldError, len(issues))
	for i, e := range issues {
		out[i] = FieldError{Param: prefix + "." + e.Param, Msg: e.Msg}
	}
	return out
}
