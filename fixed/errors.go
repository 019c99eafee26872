// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixed

// ErrorKind classifies an arithmetic failure.
type ErrorKind uint8

// Arithmetic error kinds.
const (
	DivisionByZero ErrorKind = iota + 1 // divisor is zero
	Overflow                            // result above the 256 bit mantissa
	Underflow                           // result below zero
	ScaleMismatch                       // more than 18 fractional digits asked for
)

func (k ErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case Overflow:
		return "overflow"
	case Underflow:
		return "underflow"
	case ScaleMismatch:
		return "scale mismatch"
	default:
		return "unknown"
	}
}

// ArithmeticError is returned by every fallible Decimal operation.
type ArithmeticError struct {
	Kind ErrorKind
}

func (e *ArithmeticError) Error() string {
	return "fixed: " + e.Kind.String()
}

// Is reports whether target is an ArithmeticError of the same kind.
func (e *ArithmeticError) Is(target error) bool {
	t, ok := target.(*ArithmeticError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is, one per ErrorKind.
var (
	ErrDivisionByZero = &ArithmeticError{DivisionByZero}
	ErrOverflow       = &ArithmeticError{Overflow}
	ErrUnderflow      = &ArithmeticError{Underflow}
	ErrScaleMismatch  = &ArithmeticError{ScaleMismatch}
)
