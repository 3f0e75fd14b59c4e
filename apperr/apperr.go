// Package apperr carries the error taxonomy shared by the core packages:
// every failure the request boundary can translate to a status code is an
// *Error with a Kind and a caller-facing message.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func Authentication(message string) *Error {
	return New(KindAuthentication, message)
}

func Authorization(message string) *Error {
	return New(KindAuthorization, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// KindOf reports the taxonomy kind of err, or KindUnknown for errors
// that did not originate in the core.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
