// Package docstore is a small document database abstraction. Documents are records keyed by
// collection and id. The MongoDB implementation is used in production while the in-memory one is
// used by tests and local development.
package docstore

import (
	"fmt"
	"time"
)

const (
	Events = "Events"
	Users  = "Users"
)

// Record is the field name to value mapping of a stored document. Values are one of string, bool,
// int64, time.Time or []string.
type Record map[string]any

// Document is a record together with its id.
type Document struct {
	ID     string
	Record Record
}

// String returns the string stored in field key.
func (r Record) String(key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", missingField(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// Bool returns the bool stored in field key.
func (r Record) Bool(key string) (bool, error) {
	v, ok := r[key]
	if !ok {
		return false, missingField(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

// Time returns the instant stored in field key.
func (r Record) Time(key string) (time.Time, error) {
	v, ok := r[key]
	if !ok {
		return time.Time{}, missingField(key)
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, wrongType(key, "time", v)
	}
	return t, nil
}

// Int returns the integer stored in field key.
func (r Record) Int(key string) (int64, error) {
	v, ok := r[key]
	if !ok {
		return 0, missingField(key)
	}
	switch i := v.(type) {
	case int64:
		return i, nil
	case int:
		return int64(i), nil
	case int32:
		return int64(i), nil
	}
	return 0, wrongType(key, "int", v)
}

// Strings returns the list of strings stored in field key. A field holding a list with elements
// other than strings is an error.
func (r Record) Strings(key string) ([]string, error) {
	v, ok := r[key]
	if !ok {
		return nil, missingField(key)
	}
	switch l := v.(type) {
	case []string:
		return l, nil
	case []any:
		strings := make([]string, len(l))
		for i, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "string", e)
			}
			strings[i] = s
		}
		return strings, nil
	}
	return nil, wrongType(key, "list", v)
}

// Has returns true if field key is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

func (r Record) clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		if l, ok := v.([]string); ok {
			v = append([]string(nil), l...)
		}
		c[k] = v
	}
	return c
}

// FieldError is returned by the typed accessors of [Record].
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Reason)
}

func missingField(key string) error {
	return &FieldError{Field: key, Reason: "is missing"}
}

func wrongType(key, want string, got any) error {
	return &FieldError{Field: key, Reason: fmt.Sprintf("is not a %s but %T", want, got)}
}
