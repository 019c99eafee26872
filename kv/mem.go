// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// MemStore is an in-memory Store backed by a sorted skiplist.
type MemStore struct {
	mu sync.RWMutex
	db *memdb.DB
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{db: memdb.New(comparer.DefaultComparer, 0)}
}

// IsNotFound reports whether err is the not found error returned by Get.
func (m *MemStore) IsNotFound(err error) bool {
	return err == memdb.ErrNotFound
}

func (m *MemStore) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, err := m.db.Get(key)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), val...), nil
}

func (m *MemStore) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db.Contains(key), nil
}

func (m *MemStore) Put(key, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Put(key, val)
}

func (m *MemStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Delete(key)
}

// Len returns the number of entries.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db.Len()
}

// Snapshot returns a point-in-time copy of the store.
func (m *MemStore) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp := memdb.New(comparer.DefaultComparer, m.db.Size())
	it := m.db.NewIterator(nil)
	for it.Next() {
		_ = cp.Put(it.Key(), it.Value())
	}
	it.Release()

	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
		ReleaseFunc
	}{
		func(key []byte) ([]byte, error) {
			val, err := cp.Get(key)
			if err != nil {
				return nil, err
			}
			return append([]byte(nil), val...), nil
		},
		func(key []byte) (bool, error) { return cp.Contains(key), nil },
		m.IsNotFound,
		cp.Reset,
	}
}

// Bulk returns a putter whose ops are applied together on Write.
func (m *MemStore) Bulk() Bulk {
	var (
		batch     leveldb.Batch
		autoFlush bool
	)
	flush := func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		err := batch.Replay(memReplayer{m.db})
		batch.Reset()
		return err
	}
	return &struct {
		PutFunc
		DeleteFunc
		EnableAutoFlushFunc
		WriteFunc
	}{
		func(key, val []byte) error {
			batch.Put(key, val)
			if autoFlush {
				return flush()
			}
			return nil
		},
		func(key []byte) error {
			batch.Delete(key)
			if autoFlush {
				return flush()
			}
			return nil
		},
		func() { autoFlush = true },
		flush,
	}
}

// Iterate iterates over the given range. Writes made during the iteration may or may not be observed.
func (m *MemStore) Iterate(r Range) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit})
}

type memReplayer struct {
	db *memdb.DB
}

func (r memReplayer) Put(key, val []byte) { _ = r.db.Put(key, val) }
func (r memReplayer) Delete(key []byte)   { _ = r.db.Delete(key) }
