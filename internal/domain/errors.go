package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Input validation errors
var (
	// ErrInvalidInput is returned when a parameter has the wrong shape or a zero value
	ErrInvalidInput = errors.New("invalid input")

	// ErrArrayLengthMismatch is returned when parallel argument arrays differ in length
	ErrArrayLengthMismatch = errors.New("array length mismatch")

	// ErrInvalidModule is returned for a zero module address
	ErrInvalidModule = errors.New("invalid module")

	// ErrDuplicateElementFound is returned when an address list repeats an entry
	ErrDuplicateElementFound = errors.New("duplicate element found")

	// ErrUnknownMethod is returned when an operation name has no codec
	ErrUnknownMethod = errors.New("unknown method")
)

// Authorization errors
var (
	ErrEmptySigners                   = errors.New("empty signers")
	ErrInvalidSigner                  = errors.New("invalid signer")
	ErrInvalidContractSigner          = errors.New("invalid contract signer")
	ErrInvalidRecoverySigner          = errors.New("invalid recovery signer")
	ErrInvalidSignatures              = errors.New("invalid signatures")
	ErrInvalidRecoverySignatures      = errors.New("invalid recovery signatures")
	ErrInsufficientSigners            = errors.New("insufficient signers")
	ErrInsufficientRecoverySignatures = errors.New("insufficient recovery signatures")
)

// State invariant errors
var (
	ErrAllOwnersRemoved                       = errors.New("all owners removed")
	ErrOwnersLessThanThreshold                = errors.New("owners less than threshold")
	ErrInvalidThreshold                       = errors.New("invalid threshold")
	ErrRecoverySignersLengthLessThanThreshold = errors.New("recovery signers length less than threshold")
	ErrCannotRemoveCashModule                 = errors.New("cannot remove cash module")
	ErrUnsupportedModule                      = errors.New("unsupported module")
)

// Domain errors
var (
	ErrExceededDailySpendingLimit                = errors.New("exceeded daily spending limit")
	ErrExceededMonthlySpendingLimit              = errors.New("exceeded monthly spending limit")
	ErrDailyLimitCannotBeGreaterThanMonthlyLimit = errors.New("daily limit cannot be greater than monthly limit")
	ErrInvalidTimezoneOffset                     = errors.New("invalid timezone offset")
	ErrRecoveryDisabled                          = errors.New("recovery disabled")
	ErrRecoveryDigestUsed                        = errors.New("recovery digest already used")
	ErrModeAlreadySet                            = errors.New("mode already set")
	ErrNoPendingWithdrawal                       = errors.New("no pending withdrawal")
	ErrCannotProcessWithdrawalYet                = errors.New("cannot process withdrawal yet")
	ErrTransactionAlreadyCleared                 = errors.New("transaction already cleared")
)

// Storage errors
var (
	// ErrSafeNotFound is returned when no state exists for a safe address
	ErrSafeNotFound = errors.New("safe not found")

	// ErrSafeAlreadyExists is returned when creating a safe that is already stored
	ErrSafeAlreadyExists = errors.New("safe already exists")
)

// IndexedError reports an error kind together with the offending argument index.
type IndexedError struct {
	Kind  error
	Index int
}

func (e IndexedError) Error() string {
	return fmt.Sprintf("%v (index %d)", e.Kind, e.Index)
}

func (e IndexedError) Unwrap() error {
	return e.Kind
}

// AtIndex builds an IndexedError for kind at index i.
func AtIndex(kind error, i int) error {
	return IndexedError{Kind: kind, Index: i}
}

// SignatureFailure records why one entry of a signature list did not count toward quorum.
type SignatureFailure struct {
	Index int
	Err   error
}

// QuorumError is returned when a signature list was well-formed but did not reach the threshold.
type QuorumError struct {
	Kind      error
	Valid     int
	Threshold int
	Failures  []SignatureFailure
}

func (e QuorumError) Error() string {
	msg := fmt.Sprintf("%v: %d of %d required signatures valid", e.Kind, e.Valid, e.Threshold)
	if len(e.Failures) == 0 {
		return msg
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("[%d] %v", f.Index, f.Err)
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

func (e QuorumError) Unwrap() error {
	return e.Kind
}

// IndexOf extracts the argument index from an IndexedError anywhere in err's chain.
func IndexOf(err error) (int, bool) {
	var ie IndexedError
	if errors.As(err, &ie) {
		return ie.Index, true
	}
	return 0, false
}

// kinds lists every sentinel in the order KindOf tests them
var kinds = []error{
	ErrInvalidInput,
	ErrArrayLengthMismatch,
	ErrInvalidModule,
	ErrDuplicateElementFound,
	ErrUnknownMethod,
	ErrEmptySigners,
	ErrInvalidSigner,
	ErrInvalidContractSigner,
	ErrInvalidRecoverySigner,
	ErrInvalidSignatures,
	ErrInvalidRecoverySignatures,
	ErrInsufficientSigners,
	ErrInsufficientRecoverySignatures,
	ErrAllOwnersRemoved,
	ErrOwnersLessThanThreshold,
	ErrInvalidThreshold,
	ErrRecoverySignersLengthLessThanThreshold,
	ErrCannotRemoveCashModule,
	ErrUnsupportedModule,
	ErrExceededDailySpendingLimit,
	ErrExceededMonthlySpendingLimit,
	ErrDailyLimitCannotBeGreaterThanMonthlyLimit,
	ErrInvalidTimezoneOffset,
	ErrRecoveryDisabled,
	ErrRecoveryDigestUsed,
	ErrModeAlreadySet,
	ErrNoPendingWithdrawal,
	ErrCannotProcessWithdrawalYet,
	ErrTransactionAlreadyCleared,
	ErrSafeNotFound,
	ErrSafeAlreadyExists,
}

// KindOf returns the sentinel err wraps, or nil for errors outside the taxonomy
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindByName returns the sentinel whose message is name
func KindByName(name string) error {
	for _, k := range kinds {
		if k.Error() == name {
			return k
		}
	}
	return nil
}
