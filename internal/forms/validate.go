package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError is the first failed rule of a form. Message is shown to
// the user as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// check runs the struct tags of s and maps the first failure to the message
// registered under "<StructField>.<tag>".
func check(s interface{}, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := messages[fe.StructField()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return invalid(fe.Field(), msg)
}

// now is replaced in tests.
var now = time.Now

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// decoder reads typed values from a posted form and remembers the first
// value that failed to parse.
type decoder struct {
	values url.Values
	err    *ValidationError
}

func newDecoder(values url.Values) *decoder {
	return &decoder{values: values}
}

func (d *decoder) str(key string) string {
	return strings.TrimSpace(d.values.Get(key))
}

func (d *decoder) integer(key, label string) int {
	raw := d.str(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		d.fail(key, label+" must be a whole number")
	}
	return n
}

func (d *decoder) boolean(key string) bool {
	switch strings.ToLower(d.str(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// list splits a comma or newline separated field and drops blanks.
func (d *decoder) list(key string) []string {
	return splitList(d.values.Get(key))
}

func (d *decoder) fail(field, message string) {
	if d.err == nil {
		d.err = invalid(field, message)
	}
}

// parseErr keeps a typed nil out of the error interface.
func (d *decoder) parseErr() error {
	if d.err == nil {
		return nil
	}
	return d.err
}

func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseTime accepts the HTML date and datetime-local layouts, interpreted in
// the server's local zone, and RFC 3339.
func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	for _, layout := range []string{dateTimeLayout, dateLayout} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(dateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(dateTimeLayout)
}

// checkDate reports a parse failure for a non-empty date field.
func checkDate(field, label, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, ok := parseTime(raw); !ok {
		return invalid(field, label+" is not a valid date")
	}
	return nil
}

// payload is a backend request body under construction. Empty optional
// values are left out rather than sent as "".
type payload map[string]interface{}

func (p payload) str(key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		p[key] = value
	}
}

func (p payload) date(key, raw string) {
	if t, ok := parseTime(raw); ok {
		p[key] = t.UTC().Format(time.RFC3339)
	}
}

func (p payload) list(key string, values []string) {
	if len(values) > 0 {
		p[key] = values
	}
}

func validURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}
