// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixed

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Parse parses a plain decimal string such as "12.5".
// More than 18 fractional digits is a scale mismatch, negative values are rejected.
func Parse(s string) (Decimal, error) {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, ErrScaleMismatch
	}
	if dec.Sign() < 0 {
		return Decimal{}, ErrUnderflow
	}
	shifted := dec.Shift(Scale)
	if !shifted.IsInteger() {
		return Decimal{}, ErrScaleMismatch
	}
	raw, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return Decimal{}, ErrOverflow
	}
	return FromRaw(raw), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String renders d without trailing fractional zeros.
func (d Decimal) String() string {
	return decimal.NewFromBigInt(d.v.ToBig(), -Scale).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decimal) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// EncodeRLP implements rlp.Encoder. The mantissa is encoded as a big-endian integer.
func (d Decimal) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, d.v.ToBig())
}

// DecodeRLP implements rlp.Decoder.
func (d *Decimal) DecodeRLP(s *rlp.Stream) error {
	b, err := s.BigInt()
	if err != nil {
		return err
	}
	raw, overflow := uint256.FromBig(b)
	if overflow {
		return ErrOverflow
	}
	d.v.Set(raw)
	return nil
}
