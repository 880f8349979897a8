package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindCommitFailed      Kind = "commit_failed"
	KindSideEffectFailed  Kind = "side_effect_failed"
	KindIllegalTransition Kind = "illegal_transition"
)

// Error carries a Kind so callers can decide how to react without string matching.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

func CommitFailed(op string, err error) *Error {
	return &Error{Kind: KindCommitFailed, Op: op, Message: "atomic commit rejected", Err: err}
}

func SideEffectFailed(op, message string, err error) *Error {
	return &Error{Kind: KindSideEffectFailed, Op: op, Message: message, Err: err}
}

func IllegalTransition(op, format string, args ...any) *Error {
	return &Error{Kind: KindIllegalTransition, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
