// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixed implements an unsigned fixed-point decimal with 18 fractional digits.
//
// All results are deterministic: the mantissa is a 256-bit integer, products are computed
// with a 512-bit intermediate and every operation rounds toward zero unless stated otherwise.
package fixed

import (
	"github.com/holiman/uint256"
)

// Scale is the number of fractional decimal digits.
const Scale = 18

var (
	unit = uint256.NewInt(1_000_000_000_000_000_000)

	pow10 = func() [Scale + 1]uint256.Int {
		var t [Scale + 1]uint256.Int
		t[0].SetOne()
		ten := uint256.NewInt(10)
		for i := 1; i <= Scale; i++ {
			t[i].Mul(&t[i-1], ten)
		}
		return t
	}()
)

// RoundingMode selects how Round treats the discarded digits.
type RoundingMode uint8

const (
	// RoundDown truncates toward zero.
	RoundDown RoundingMode = iota
	// RoundHalfEven rounds to the nearest value, ties to the even neighbour.
	RoundHalfEven
)

// Decimal is an immutable unsigned fixed-point number. The zero value is 0.
type Decimal struct {
	v uint256.Int
}

// Zero returns 0.
func Zero() Decimal { return Decimal{} }

// One returns 1.
func One() Decimal {
	var d Decimal
	d.v.Set(unit)
	return d
}

// FromUnits converts whole units into a Decimal. It never overflows.
func FromUnits(n uint64) Decimal {
	var d Decimal
	d.v.Mul(uint256.NewInt(n), unit)
	return d
}

// FromUnitsInt converts a whole-unit integer into a Decimal.
func FromUnitsInt(n *uint256.Int) (Decimal, error) {
	var d Decimal
	if _, overflow := d.v.MulOverflow(n, unit); overflow {
		return Decimal{}, ErrOverflow
	}
	return d, nil
}

// FromRaw builds a Decimal from its raw mantissa, i.e. the value multiplied by 10^18.
func FromRaw(raw *uint256.Int) Decimal {
	var d Decimal
	d.v.Set(raw)
	return d
}

// Raw returns a copy of the mantissa.
func (d Decimal) Raw() *uint256.Int {
	return new(uint256.Int).Set(&d.v)
}

// IsZero reports whether d == 0.
func (d Decimal) IsZero() bool { return d.v.IsZero() }

// IsInteger reports whether d has no fractional part.
func (d Decimal) IsInteger() bool {
	var r uint256.Int
	r.Mod(&d.v, unit)
	return r.IsZero()
}

// Cmp compares d and o and returns -1, 0 or +1.
func (d Decimal) Cmp(o Decimal) int { return d.v.Cmp(&o.v) }

// Add returns d + o.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	var z Decimal
	if _, overflow := z.v.AddOverflow(&d.v, &o.v); overflow {
		return Decimal{}, ErrOverflow
	}
	return z, nil
}

// Sub returns d - o. There are no negative values, so o > d is an underflow.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	var z Decimal
	if _, underflow := z.v.SubOverflow(&d.v, &o.v); underflow {
		return Decimal{}, ErrUnderflow
	}
	return z, nil
}

// Mul returns d * o rounded down.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	return mulDiv(&d.v, &o.v, unit, false)
}

// Div returns d / o rounded down.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	return mulDiv(&d.v, unit, &o.v, false)
}

// MulDiv returns a * b / c with a single rounding down.
func MulDiv(a, b, c Decimal) (Decimal, error) {
	// the scale factors of b and c cancel out, so mantissas are used as is.
	return mulDiv(&a.v, &b.v, &c.v, false)
}

// MulDivUp returns a * b / c rounded up.
func MulDivUp(a, b, c Decimal) (Decimal, error) {
	return mulDiv(&a.v, &b.v, &c.v, true)
}

// Round rounds d to the given number of fractional digits.
func (d Decimal) Round(digits uint, mode RoundingMode) (Decimal, error) {
	if digits > Scale {
		return Decimal{}, ErrScaleMismatch
	}
	step := &pow10[Scale-digits]
	var q, r uint256.Int
	q.DivMod(&d.v, step, &r)

	if mode == RoundHalfEven && !r.IsZero() {
		var half uint256.Int
		half.Rsh(step, 1)
		switch r.Cmp(&half) {
		case 1:
			q.AddUint64(&q, 1)
		case 0:
			if q.Uint64()&1 == 1 {
				q.AddUint64(&q, 1)
			}
		}
	}

	var z Decimal
	if _, overflow := z.v.MulOverflow(&q, step); overflow {
		return Decimal{}, ErrOverflow
	}
	return z, nil
}

// Floor drops the fractional part.
func (d Decimal) Floor() Decimal {
	z, _ := d.Round(0, RoundDown)
	return z
}

// Units returns the integer part as whole units.
func (d Decimal) Units() *uint256.Int {
	return new(uint256.Int).Div(&d.v, unit)
}

func mulDiv(a, b, c *uint256.Int, up bool) (Decimal, error) {
	if c.IsZero() {
		return Decimal{}, ErrDivisionByZero
	}
	var z Decimal
	if _, overflow := z.v.MulDivOverflow(a, b, c); overflow {
		return Decimal{}, ErrOverflow
	}
	if up {
		var rem uint256.Int
		if !rem.MulMod(a, b, c).IsZero() {
			if _, overflow := z.v.AddOverflow(&z.v, uint256.NewInt(1)); overflow {
				return Decimal{}, ErrOverflow
			}
		}
	}
	return z, nil
}
