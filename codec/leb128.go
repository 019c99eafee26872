// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var errTruncated = errors.New("truncated leb128 value")

// AppendUint appends the unsigned LEB128 encoding of v to buf and returns the extended buffer.
func AppendUint(buf []byte, v *uint256.Int) []byte {
	var x uint256.Int
	x.Set(v)
	for {
		b := byte(x.Uint64() & 0x7f)
		x.Rsh(&x, 7)
		if x.IsZero() {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// AppendUint64 is AppendUint for a uint64.
func AppendUint64(buf []byte, v uint64) []byte {
	return AppendUint(buf, uint256.NewInt(v))
}

// SplitUint extracts an unsigned LEB128 value of at most bits bits and returns the rest bytes.
func SplitUint(buf []byte, bits uint) (*uint256.Int, []byte, error) {
	var (
		v      = new(uint256.Int)
		shift  uint
		maxLen = int((bits + 6) / 7)
	)
	for i, c := range buf {
		if i >= maxLen {
			return nil, nil, errors.Errorf("leb128 value longer than %d bytes", maxLen)
		}
		chunk := uint64(c & 0x7f)
		if shift+7 > bits && chunk>>(bits-shift) != 0 {
			return nil, nil, errors.Errorf("leb128 value exceeds %d bits", bits)
		}
		if chunk != 0 {
			v.Or(v, new(uint256.Int).Lsh(uint256.NewInt(chunk), shift))
		}
		if c&0x80 == 0 {
			return v, buf[i+1:], nil
		}
		shift += 7
	}
	return nil, nil, errTruncated
}
