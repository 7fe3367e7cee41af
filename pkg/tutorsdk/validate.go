package tutorsdk

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Validator checks a decoded response value.
type Validator interface {
	Validate(v any) error
}

// StructValidator validates responses against their `validate` struct tags.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator creates a validator using go-playground/validator.
func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate accepts a struct, a pointer to one, or a slice of either. Other
// kinds have no tags to check and always pass.
func (v *StructValidator) Validate(val any) error {
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return v.validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		var errs []error
		for i := range rv.Len() {
			if err := v.Validate(rv.Index(i).Interface()); err != nil {
				errs = append(errs, &elementError{index: i, err: err})
			}
		}
		return errors.Join(errs...)
	default:
		return nil
	}
}

// elementError tags a failure with the slice index it came from.
type elementError struct {
	index int
	err   error
}

func (e *elementError) Error() string { return fmt.Sprintf("[%d]: %v", e.index, e.err) }
func (e *elementError) Unwrap() error { return e.err }

// ValidationIssues flattens a validation error into readable lines, one per
// failing field.
func ValidationIssues(err error) []string {
	return issues(err, "")
}

func issues(err error, prefix string) []string {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, issues(e, prefix)...)
		}
		return out
	}

	if ee, ok := err.(*elementError); ok {
		return issues(ee.err, fmt.Sprintf("%s[%d].", prefix, ee.index))
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{prefix + err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		issue := fmt.Sprintf("%s%s: failed %q", prefix, fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			issue += fmt.Sprintf(" (%s)", fe.Param())
		}
		out = append(out, issue)
	}
	return out
}
