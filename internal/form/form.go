// internal/form/form.go
//
// Forms subsystem: JSON request decoding and server-side validation.
//
// Context
//   Every write endpoint receives a JSON body.  Decode reads it with a size
//   cap, rejects unknown fields, and runs go-playground/validator over the
//   destination struct.  Failures come back as Errors, a slice of
//   ErrorField, so the API layer can render field-level messages and answer
//   400 instead of 500.
//
// Workflow
//   •  Decode(r, &dst)  → body → struct → Validate.
//   •  Validate(&dst)   → tag rules plus the custom rules registered below.
//   •  Packages with rules that tags cannot express append their own
//      ErrorField values and return Errors directly.
//
// Style
//   Messages are full sentences, two spaces after periods.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/linkbio/internal/routing"
)

// MaxBody caps JSON request bodies.
const MaxBody = 1 << 20

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure.
type ErrorField struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Errors satisfies error so it can flow through normal returns.
type Errors []ErrorField

func (e Errors) Error() string {
	if len(e) == 0 {
		return "form validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, f := range e {
		parts = append(parts, f.Name+": "+f.Message)
	}
	return "form validation failed: " + strings.Join(parts, "; ")
}

// Add appends one field error.
func (e *Errors) Add(name, msg string) { *e = append(*e, ErrorField{Name: name, Message: msg}) }

// Err returns nil when empty so callers can `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ErrBadBody is returned for malformed or oversized JSON.
var ErrBadBody = errors.New("malformed request body")

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var fe Errors
	return errors.As(err, &fe)
}

// -----------------------------------------------------------------------------
// Validator
// -----------------------------------------------------------------------------

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = val.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return routing.ValidSlug(fl.Field().String())
	})
	_ = val.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsHTTPURL(fl.Field().String())
	})
	return val
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate runs struct tags against dst.
func Validate(dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(Errors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, ErrorField{Name: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadBody)
		}
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return Validate(dst)
}

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

// fieldPath drops the top-level struct name: "createReq.items[0].url" →
// "items[0].url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "email":
		return "Must be a valid email address."
	case "httpurl", "url":
		return "Must be an absolute http or https URL."
	case "slug":
		return "Use 3 to 40 lowercase letters, digits, or dashes."
	case "fqdn", "hostname":
		return "Must be a valid hostname."
	case "timezone":
		return "Must be an IANA time zone such as Europe/Berlin."
	case "gtfield":
		return fmt.Sprintf("Must be after %s.", fe.Param())
	default:
		return "Invalid input."
	}
}
