// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the errors a pool call can revert with and their stable response codes.
package reverts

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
)

// Reason identifies why a call failed validation.
type Reason uint8

const (
	MalformedPayload Reason = iota + 1
	Unauthorized
	InvalidAmount
	InsufficientShares
	NoShareholders
	NotInitialized
	AlreadyInitialized
	StaleHeight
	UnknownHolder
	Locked
)

var reasonNames = map[Reason]string{
	MalformedPayload:   "malformed payload",
	Unauthorized:       "unauthorized",
	InvalidAmount:      "invalid amount",
	InsufficientShares: "insufficient shares",
	NoShareholders:     "no shareholders",
	NotInitialized:     "not initialized",
	AlreadyInitialized: "already initialized",
	StaleHeight:        "stale height",
	UnknownHolder:      "unknown holder",
	Locked:             "locked",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// ValidationError is a request the pool refuses to execute. State is untouched.
type ValidationError struct {
	Reason  Reason
	message string
}

// New creates a validation error.
func New(reason Reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, message: message}
}

// Newf creates a validation error with a formatted message.
func Newf(reason Reason, format string, args ...any) *ValidationError {
	return New(reason, fmt.Sprintf(format, args...))
}

func (e *ValidationError) Error() string {
	if e.message == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.message
}

// InvariantError reports persisted state that violates an accounting invariant.
// It is never repaired by the pool.
type InvariantError struct {
	message string
}

// Invariant creates an invariant error.
func Invariant(format string, args ...any) *InvariantError {
	return &InvariantError{message: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	return "accounting invariant violated: " + e.message
}

// StorageError wraps a failure of the underlying store or record codec.
type StorageError struct {
	cause error
}

// Storage wraps err, annotated with msg, as a storage error. Returns nil if err is nil.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &StorageError{cause: errors.Wrap(err, msg)}
}

func (e *StorageError) Error() string { return "storage: " + e.cause.Error() }

// Unwrap returns the wrapped cause.
func (e *StorageError) Unwrap() error { return e.cause }

// Code values.
const (
	CodeOK             = 0
	CodeInternal       = 1
	CodeDivisionByZero = 10
	CodeOverflow       = 11
	CodeUnderflow      = 12
	CodeScaleMismatch  = 13
	codeReasonBase     = 20
	CodeInvariant      = 40
	CodeStorage        = 41
	CodeOutOfFuel      = 42 // set by the host, never by the pool
)

// Code maps err to its stable numeric response code.
func Code(err error) uint8 {
	if err == nil {
		return CodeOK
	}
	var (
		ve *ValidationError
		ie *InvariantError
		se *StorageError
		ae *fixed.ArithmeticError
	)
	switch {
	case errors.As(err, &ve):
		return codeReasonBase + uint8(ve.Reason)
	case errors.As(err, &ie):
		return CodeInvariant
	case errors.As(err, &se):
		return CodeStorage
	case errors.As(err, &ae):
		switch ae.Kind {
		case fixed.DivisionByZero:
			return CodeDivisionByZero
		case fixed.Overflow:
			return CodeOverflow
		case fixed.Underflow:
			return CodeUnderflow
		case fixed.ScaleMismatch:
			return CodeScaleMismatch
		}
	}
	return CodeInternal
}

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return 0, false
}

// IsReason reports whether err is a validation error with the given reason.
func IsReason(err error, reason Reason) bool {
	r, ok := ReasonOf(err)
	return ok && r == reason
}
