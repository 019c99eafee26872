// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/stackedmap"
)

var errNotFound = errors.New("not found")

// entry is an overlay value. A deleted entry hides the source value.
type entry struct {
	val     []byte
	deleted bool
}

// overlay buffers writes over a source getter, with checkpoints to revert to.
type overlay struct {
	src kv.Getter
	sm  *stackedmap.StackedMap[string, entry]
}

var _ kv.GetPutter = (*overlay)(nil)

func newOverlay(src kv.Getter) *overlay {
	return &overlay{
		src: src,
		sm: stackedmap.New(func(key string) (entry, bool, error) {
			val, err := src.Get([]byte(key))
			if err != nil {
				if src.IsNotFound(err) {
					return entry{}, false, nil
				}
				return entry{}, false, err
			}
			return entry{val: val}, true, nil
		}),
	}
}

func (o *overlay) Get(key []byte) ([]byte, error) {
	e, ok, err := o.sm.Get(string(key))
	if err != nil {
		return nil, err
	}
	if !ok || e.deleted {
		return nil, errNotFound
	}
	return bytes.Clone(e.val), nil
}

func (o *overlay) Has(key []byte) (bool, error) {
	e, ok, err := o.sm.Get(string(key))
	if err != nil {
		return false, err
	}
	return ok && !e.deleted, nil
}

func (o *overlay) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func (o *overlay) Put(key, val []byte) error {
	o.sm.Put(string(key), entry{val: bytes.Clone(val)})
	return nil
}

func (o *overlay) Delete(key []byte) error {
	o.sm.Put(string(key), entry{deleted: true})
	return nil
}

// checkpoint returns a revision to revert to.
func (o *overlay) checkpoint() int {
	return o.sm.Push()
}

func (o *overlay) revertTo(revision int) {
	o.sm.PopTo(revision)
}

// flush writes the net changes to w, in order of first change.
func (o *overlay) flush(w kv.Putter) (n int, err error) {
	var (
		changes = make(map[string]entry)
		order   []string
	)
	o.sm.Journal(func(key string, e entry) bool {
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = e
		return true
	})

	for _, key := range order {
		if e := changes[key]; e.deleted {
			err = w.Delete([]byte(key))
		} else {
			err = w.Put([]byte(key), e.val)
		}
		if err != nil {
			return n, err
		}
	}
	return len(order), nil
}

// metered charges fuel for every access of the wrapped storage.
type metered struct {
	kv.GetPutter
	charger *Charger
}

func (m *metered) Get(key []byte) ([]byte, error) {
	if err := m.charger.load(); err != nil {
		return nil, err
	}
	return m.GetPutter.Get(key)
}

func (m *metered) Has(key []byte) (bool, error) {
	if err := m.charger.load(); err != nil {
		return false, err
	}
	return m.GetPutter.Has(key)
}

func (m *metered) Put(key, val []byte) error {
	has, err := m.GetPutter.Has(key)
	if err != nil {
		return err
	}
	if err := m.charger.store(!has); err != nil {
		return err
	}
	return m.GetPutter.Put(key, val)
}

func (m *metered) Delete(key []byte) error {
	if err := m.charger.store(false); err != nil {
		return err
	}
	return m.GetPutter.Delete(key)
}
