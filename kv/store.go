// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the byte keyed storage the pool, the bank and the host are written against.
package kv

// Getter reads keys. A missing key is reported by an error that IsNotFound accepts.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes keys.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// GetPutter is the storage view handed to a single call.
type GetPutter interface {
	Getter
	Putter
}

// Snapshot is a consistent read view, valid until released.
type Snapshot interface {
	Getter
	Release()
}

// Bulk collects writes and applies them on Write.
type Bulk interface {
	Putter
	EnableAutoFlush() // if set, the bulk will be non-atomic
	Write() error
}

// Iterator walks kv pairs in key order.
type Iterator interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store is a complete store.
type Store interface {
	GetPutter

	Snapshot() Snapshot
	Bulk() Bulk
	Iterate(r Range) Iterator
}

// StoreCloser is a store that holds resources.
type StoreCloser interface {
	Store
	Close() error
}
