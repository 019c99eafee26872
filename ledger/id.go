// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IDLength is the length of an ID in its key form.
const IDLength = 16

// ID identifies an asset or a participant, addressed by the block and tx that created it.
type ID struct {
	Block uint64
	Tx    uint64
}

// IsZero reports whether id is the zero ID. It is never a valid participant.
func (id ID) IsZero() bool {
	return id.Block == 0 && id.Tx == 0
}

// Bytes returns the 16 byte big-endian key form.
func (id ID) Bytes() []byte {
	var b [IDLength]byte
	binary.BigEndian.PutUint64(b[:8], id.Block)
	binary.BigEndian.PutUint64(b[8:], id.Tx)
	return b[:]
}

func (id ID) String() string {
	return fmt.Sprintf("%d:%d", id.Block, id.Tx)
}

// BytesToID decodes the key form.
func BytesToID(b []byte) (ID, error) {
	if len(b) != IDLength {
		return ID{}, errors.Errorf("invalid id length %d", len(b))
	}
	return ID{
		Block: binary.BigEndian.Uint64(b[:8]),
		Tx:    binary.BigEndian.Uint64(b[8:]),
	}, nil
}

// ParseID parses the "block:tx" text form.
func ParseID(s string) (ID, error) {
	block, tx, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, errors.Errorf("invalid id %q, want block:tx", s)
	}
	b, err := strconv.ParseUint(block, 10, 64)
	if err != nil {
		return ID{}, errors.Wrap(err, "id block")
	}
	t, err := strconv.ParseUint(tx, 10, 64)
	if err != nil {
		return ID{}, errors.Wrap(err, "id tx")
	}
	return ID{b, t}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
