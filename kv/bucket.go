// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix. It namespaces the pool records, the bank and every contract inside one store.
type Bucket string

// Sub returns the nested bucket b+name.
func (b Bucket) Sub(name string) Bucket {
	return b + Bucket(name)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &getter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &putter{b, src}
}

// NewGetPutter creates a bucket getputter from the source getputter.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &struct {
		Getter
		Putter
	}{b.NewGetter(src), b.NewPutter(src)}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &store{
		Getter: b.NewGetter(src),
		Putter: b.NewPutter(src),
		bucket: b,
		src:    src,
	}
}

// with calls fn with b+key. The joined key is only valid during the call.
func (b Bucket) with(key []byte, fn func(k []byte)) {
	kb := keyPool.Get().(*keyBuf)
	kb.k = append(append(kb.k[:0], b...), key...)
	fn(kb.k)
	keyPool.Put(kb)
}

type getter struct {
	bucket Bucket
	src    Getter
}

func (g *getter) Get(key []byte) (val []byte, err error) {
	g.bucket.with(key, func(k []byte) { val, err = g.src.Get(k) })
	return
}

func (g *getter) Has(key []byte) (has bool, err error) {
	g.bucket.with(key, func(k []byte) { has, err = g.src.Has(k) })
	return
}

func (g *getter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type putter struct {
	bucket Bucket
	src    Putter
}

func (p *putter) Put(key, val []byte) (err error) {
	p.bucket.with(key, func(k []byte) { err = p.src.Put(k, val) })
	return
}

func (p *putter) Delete(key []byte) (err error) {
	p.bucket.with(key, func(k []byte) { err = p.src.Delete(k) })
	return
}

type store struct {
	Getter
	Putter
	bucket Bucket
	src    Store
}

func (s *store) Snapshot() Snapshot {
	snap := s.src.Snapshot()
	return &struct {
		Getter
		ReleaseFunc
	}{s.bucket.NewGetter(snap), snap.Release}
}

func (s *store) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &struct {
		Putter
		EnableAutoFlushFunc
		WriteFunc
	}{s.bucket.NewPutter(bulk), bulk.EnableAutoFlush, bulk.Write}
}

// Iterate ranges over the keys of the bucket only. The range is relative to the bucket.
func (s *store) Iterate(r Range) Iterator {
	// the iterator retains the range, so no pooled buffers here
	prefix := []byte(s.bucket)
	r.Start = append(prefix[:len(prefix):len(prefix)], r.Start...)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix(prefix).Limit
	} else {
		r.Limit = append(prefix[:len(prefix):len(prefix)], r.Limit...)
	}
	return &iterator{s.src.Iterate(r), len(prefix)}
}

// iterator strips the bucket from keys.
type iterator struct {
	Iterator
	n int
}

func (it *iterator) Key() []byte {
	return it.Iterator.Key()[it.n:]
}

type keyBuf struct {
	k []byte
}

var keyPool = sync.Pool{
	New: func() any {
		return &keyBuf{}
	},
}
