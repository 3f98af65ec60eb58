package bank

import (
	"errors"
	"fmt"
)

// ErrorCode is the numeric code reported alongside a BankError.
// Values follow the host C API numbering so integration layers can pass them through.
type ErrorCode int

const (
	ErrCodeAllocate    ErrorCode = -2
	ErrCodeOutOfBounds ErrorCode = -3
	ErrCodeInvalidSize ErrorCode = -4
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeAllocate:
		return "E_ALLOCATE"
	case ErrCodeOutOfBounds:
		return "E_OUT_OF_BOUNDS"
	case ErrCodeInvalidSize:
		return "E_INVALID_SIZE"
	default:
		return fmt.Sprintf("E_UNKNOWN(%d)", int(c))
	}
}

// BankError is a recoverable bank usage or resource error.
type BankError struct {
	Code ErrorCode
	Msg  string
	err  error // sentinel matched by errors.Is
}

func (e *BankError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *BankError) Unwrap() error {
	return e.err
}

var (
	// ErrNotAllocated is returned by the inspection accessors when a bank is empty.
	ErrNotAllocated = errors.New("bank not allocated")
	// ErrCapacityExceeded is returned by FissionBank.Append when every slot is taken.
	ErrCapacityExceeded = errors.New("fission bank capacity exceeded")
	// ErrCountsConsumed is returned when sorting twice without resetting the progeny counts.
	ErrCountsConsumed = errors.New("progeny counts already consumed by a sort")
)

func newBankError(code ErrorCode, sentinel error, format string, args ...any) *BankError {
	return &BankError{Code: code, Msg: fmt.Sprintf(format, args...), err: sentinel}
}

// InvariantError reports a site whose lineage does not fit the progeny counts.
// It indicates a transport bug (non-contiguous or duplicated progeny ids) and is not recoverable.
type InvariantError struct {
	Position  int   // index of the offending site in the unsorted bank
	ParentID  int64
	ProgenyID int64
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("fission bank invariant violated at position %d (parent_id=%d, progeny_id=%d): %s",
		e.Position, e.ParentID, e.ProgenyID, e.Reason)
}
