package errdef

import (
	"errors"
	"fmt"
)

func NewForbidden(format string, a ...any) error {
	return forbidden{fmt.Errorf(format, a...)}
}

type forbidden struct{ error }

func (e forbidden) Unwrap() error { return e.error }

func IsForbidden(err error) bool {
	var e forbidden
	return errors.As(err, &e)
}

func NewBadRequest(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

type badRequest struct{ error }

func (e badRequest) Unwrap() error { return e.error }

func IsBadRequest(err error) bool {
	var e badRequest
	return errors.As(err, &e)
}

func NewUnsupportedMediaType(format string, a ...any) error {
	return unsupportedMediaType{fmt.Errorf(format, a...)}
}

type unsupportedMediaType struct{ error }

func (e unsupportedMediaType) Unwrap() error { return e.error }

func IsUnsupportedMediaType(err error) bool {
	var e unsupportedMediaType
	return errors.As(err, &e)
}

func NewDuplicated(format string, a ...any) error {
	return duplicated{fmt.Errorf(format, a...)}
}

type duplicated struct{ error }

func (e duplicated) Unwrap() error { return e.error }

func IsDuplicated(err error) bool {
	var e duplicated
	return errors.As(err, &e)
}

func NewUnauthorized(format string, a ...any) error {
	return unauthorized{fmt.Errorf(format, a...)}
}

type unauthorized struct{ error }

func (e unauthorized) Unwrap() error { return e.error }

func IsUnauthorized(err error) bool {
	var e unauthorized
	return errors.As(err, &e)
}

// NewUnauthenticated creates an error representing an operation attempted without a resolved user.
func NewUnauthenticated(format string, a ...any) error {
	return unauthenticated{fmt.Errorf(format, a...)}
}

type unauthenticated struct{ error }

func (e unauthenticated) Unwrap() error { return e.error }

// IsUnauthenticated returns true if err is an error representing a missing user identity and false otherwise.
func IsUnauthenticated(err error) bool {
	var e unauthenticated
	return errors.As(err, &e)
}

// NewNotFound creates an error representing a resource that could not be found.
func NewNotFound(format string, a ...any) error {
	return notFound{fmt.Errorf(format, a...)}
}

type notFound struct{ error }

func (e notFound) Unwrap() error { return e.error }

// IsNotFound returns true if err is an error representing a resource that could not be found and false otherwise.
func IsNotFound(err error) bool {
	var e notFound
	return errors.As(err, &e)
}

// NewConflict creates an error representing a conflicting state.
func NewConflict(format string, a ...any) error {
	return conflict{fmt.Errorf(format, a...)}
}

type conflict struct{ error }

func (e conflict) Unwrap() error { return e.error }

// IsConflict returns true if err is an error representing a conflict and false otherwise.
func IsConflict(err error) bool {
	var e conflict
	return errors.As(err, &e)
}

// NewFetchFailed creates an error representing a failed query against the document store.
func NewFetchFailed(format string, a ...any) error {
	return fetchFailed{fmt.Errorf(format, a...)}
}

type fetchFailed struct{ error }

func (e fetchFailed) Unwrap() error { return e.error }

// IsFetchFailed returns true if err is an error representing a failed query and false otherwise.
func IsFetchFailed(err error) bool {
	var e fetchFailed
	return errors.As(err, &e)
}

// NewUpdateFailed creates an error representing a write to the document store which didn't succeed.
func NewUpdateFailed(format string, a ...any) error {
	return updateFailed{fmt.Errorf(format, a...)}
}

type updateFailed struct{ error }

func (e updateFailed) Unwrap() error { return e.error }

// IsUpdateFailed returns true if err is an error representing a failed write and false otherwise.
func IsUpdateFailed(err error) bool {
	var e updateFailed
	return errors.As(err, &e)
}

// NewMalformedRecord creates an error representing a stored document missing required fields.
func NewMalformedRecord(format string, a ...any) error {
	return malformedRecord{fmt.Errorf(format, a...)}
}

type malformedRecord struct{ error }

func (e malformedRecord) Unwrap() error { return e.error }

// IsMalformedRecord returns true if err is an error representing an undecodable document and false otherwise.
func IsMalformedRecord(err error) bool {
	var e malformedRecord
	return errors.As(err, &e)
}
