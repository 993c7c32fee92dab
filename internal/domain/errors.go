package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrInsufficientFunds = errors.New("insufficient available funds")
	ErrAccountLocked     = errors.New("account is locked")

	// Decode errors
	ErrMalformedRow           = errors.New("malformed row")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingAmount          = errors.New("missing amount for deposit or withdrawal")
	ErrNegativeAmount         = errors.New("amount must be positive")
)

// DecodeErrorKind enumerates the ways a raw record can fail to decode.
type DecodeErrorKind uint8

const (
	KindMalformedRow DecodeErrorKind = iota + 1
	KindInvalidTransactionType
	KindMissingAmount
	KindNegativeAmount
)

// String returns the label used in logs and metrics.
func (k DecodeErrorKind) String() string {
	switch k {
	case KindMalformedRow:
		return "malformed_row"
	case KindInvalidTransactionType:
		return "invalid_transaction_type"
	case KindMissingAmount:
		return "missing_amount"
	case KindNegativeAmount:
		return "negative_amount"
	default:
		return "unknown"
	}
}

func (k DecodeErrorKind) sentinel() error {
	switch k {
	case KindMalformedRow:
		return ErrMalformedRow
	case KindInvalidTransactionType:
		return ErrInvalidTransactionType
	case KindMissingAmount:
		return ErrMissingAmount
	case KindNegativeAmount:
		return ErrNegativeAmount
	default:
		return nil
	}
}

// DecodeError reports a single record that could not be turned into a Transaction.
// Line is the 1-based input line, 0 when unknown.
type DecodeError struct {
	Kind   DecodeErrorKind
	Line   int
	Detail string
	Err    error
}

// NewDecodeError builds a DecodeError of the given kind.
func NewDecodeError(kind DecodeErrorKind, detail string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Detail: detail, Err: cause}
}

func (e *DecodeError) Error() string {
	msg := "decode error"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel error for the kind, so callers can use errors.Is(err, ErrMissingAmount).
func (e *DecodeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// AsDecodeError reports whether err is (or wraps) a DecodeError.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
