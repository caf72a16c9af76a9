package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so callers can render a role-appropriate message.
type Kind string

const (
	KindPermissionDenied       Kind = "permission_denied"
	KindNotFound               Kind = "not_found"
	KindInvalidPayment         Kind = "invalid_payment"
	KindInvalidTransition      Kind = "invalid_transition"
	KindDuplicateInvoice       Kind = "duplicate_invoice"
	KindConcurrentModification Kind = "concurrent_modification"
	KindValidation             Kind = "validation"
	KindConflict               Kind = "conflict"
	KindUnauthorized           Kind = "unauthorized"
	KindInternal               Kind = "internal"
)

// Error is a domain error tagged with a Kind.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Kind-only targets for errors.Is: they match any error of the same kind.
var (
	PermissionDenied       = &Error{Kind: KindPermissionDenied}
	NotFound               = &Error{Kind: KindNotFound}
	InvalidPayment         = &Error{Kind: KindInvalidPayment}
	InvalidTransition      = &Error{Kind: KindInvalidTransition}
	DuplicateInvoice       = &Error{Kind: KindDuplicateInvoice}
	ConcurrentModification = &Error{Kind: KindConcurrentModification}
	Validation             = &Error{Kind: KindValidation}
	Conflict               = &Error{Kind: KindConflict}
	Unauthorized           = &Error{Kind: KindUnauthorized}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind when the target carries no message, otherwise on kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
