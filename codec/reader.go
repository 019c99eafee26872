// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
)

// reader consumes LEB128 fields. The first error sticks and later reads return zero values.
type reader struct {
	buf  []byte
	bits uint
	err  error
}

func (r *reader) num() *uint256.Int {
	if r.err != nil {
		return new(uint256.Int)
	}
	v, rest, err := SplitUint(r.buf, r.bits)
	if err != nil {
		r.err = err
		return new(uint256.Int)
	}
	r.buf = rest
	return v
}

func (r *reader) u64() uint64 {
	v := r.num()
	if !v.IsUint64() {
		r.fail(errors.Errorf("value %v exceeds 64 bits", v))
		return 0
	}
	return v.Uint64()
}

func (r *reader) id() ledger.ID {
	return ledger.ID{Block: r.u64(), Tx: r.u64()}
}

func (r *reader) decimal() fixed.Decimal {
	return fixed.FromRaw(r.num())
}

func (r *reader) bytes() []byte {
	n := r.u64()
	if r.err != nil {
		return nil
	}
	if n > math.MaxInt || int(n) > len(r.buf) {
		r.fail(errTruncated)
		return nil
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// finish reports the first error, or trailing bytes left unread.
func (r *reader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.buf) > 0 {
		return errors.Errorf("%d trailing bytes", len(r.buf))
	}
	return nil
}

type writer struct {
	buf []byte
}

func (w *writer) num(v *uint256.Int) {
	w.buf = AppendUint(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = AppendUint64(w.buf, v)
}

func (w *writer) decimal(d fixed.Decimal) {
	w.num(d.Raw())
}

func (w *writer) id(id ledger.ID) {
	w.u64(id.Block)
	w.u64(id.Tx)
}

func (w *writer) bytes(b []byte) {
	w.u64(uint64(len(b)))
	w.buf = append(w.buf, b...)
}
