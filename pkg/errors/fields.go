package errors

import (
	"sort"

	"go.uber.org/multierr"
)

// BaseField is the key used for failures that belong to the whole entity or batch.
const BaseField = "base"

// FieldErrors maps an error key to the messages collected for it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Merge copies other into f, namespacing every key as "<prefix>.<field>".
func (f FieldErrors) Merge(prefix string, other FieldErrors) {
	for _, field := range other.Keys() {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		f[key] = append(f[key], other[field]...)
	}
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Keys returns the error keys in lexical order.
func (f FieldErrors) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validation returns a VALIDATION_ERROR carrying f as its details.
func (f FieldErrors) Validation(message string) *Error {
	return New(CodeValidation, message).WithDetails(f)
}

// FieldError is a single rule violation on a named field.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// FromMultierr flattens a multierr chain into FieldErrors. Errors that are not
// a *FieldError are recorded under BaseField.
func FromMultierr(err error) FieldErrors {
	out := FieldErrors{}
	for _, e := range multierr.Errors(err) {
		if fe, ok := e.(*FieldError); ok {
			out.Add(fe.Field, fe.Message)
			continue
		}
		out.Add(BaseField, e.Error())
	}
	return out
}

// FieldsOf extracts the FieldErrors attached to a validation error.
func FieldsOf(err error) (FieldErrors, bool) {
	typed := As(err)
	if typed == nil || typed.Code() != CodeValidation {
		return nil, false
	}
	fields, ok := typed.Details().(FieldErrors)
	return fields, ok
}
