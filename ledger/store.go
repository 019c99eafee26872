// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger persists pool and holder accounts in a kv store.
package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/reverts"
)

var poolKey = []byte("/pool")

const holdersBucket = kv.Bucket("/holders/")

const (
	poolVersion   = 2 // v2 appended PendingReward
	holderVersion = 2 // v2 appended UnlockHeight
)

// poolRecord is the persisted form of Pool. Fields may only be appended, as optional.
type poolRecord struct {
	Version          uint8
	Asset            ID
	Owner            ID
	TotalShares      fixed.Decimal
	TotalPrincipal   fixed.Decimal
	RewardIndex      fixed.Decimal
	RewardBalance    fixed.Decimal
	LastUpdateHeight uint64
	PendingReward    fixed.Decimal `rlp:"optional"`
}

type holderRecord struct {
	Version      uint8
	Shares       fixed.Decimal
	RewardDebt   fixed.Decimal
	Unpaid       fixed.Decimal
	UnlockHeight uint64 `rlp:"optional"`
}

// Store loads and saves the working set of a pool call.
// Nothing is cached, every Load reads through.
type Store struct {
	src     kv.GetPutter
	holders kv.GetPutter
}

// NewStore creates a store over the contract's storage.
func NewStore(src kv.GetPutter) *Store {
	return &Store{
		src:     src,
		holders: holdersBucket.NewGetPutter(src),
	}
}

// LoadPool returns the pool, or a zero uninitialized pool if nothing is stored yet.
func (s *Store) LoadPool() (*Pool, error) {
	var rec poolRecord
	found, err := get(s.src, poolKey, &rec)
	if err != nil {
		return nil, reverts.Storage(err, "load pool")
	}
	if !found {
		return &Pool{}, nil
	}
	if rec.Version == 0 || rec.Version > poolVersion {
		return nil, reverts.Storage(errors.Errorf("unsupported version %d", rec.Version), "load pool")
	}
	return &Pool{
		Asset:            rec.Asset,
		Owner:            rec.Owner,
		TotalShares:      rec.TotalShares,
		TotalPrincipal:   rec.TotalPrincipal,
		RewardIndex:      rec.RewardIndex,
		RewardBalance:    rec.RewardBalance,
		PendingReward:    rec.PendingReward,
		LastUpdateHeight: rec.LastUpdateHeight,
	}, nil
}

// SavePool persists p.
func (s *Store) SavePool(p *Pool) error {
	rec := &poolRecord{
		Version:          poolVersion,
		Asset:            p.Asset,
		Owner:            p.Owner,
		TotalShares:      p.TotalShares,
		TotalPrincipal:   p.TotalPrincipal,
		RewardIndex:      p.RewardIndex,
		RewardBalance:    p.RewardBalance,
		LastUpdateHeight: p.LastUpdateHeight,
		PendingReward:    p.PendingReward,
	}
	return reverts.Storage(put(s.src, poolKey, rec), "save pool")
}

// LoadHolder returns the holder account, or nil if the holder has none.
func (s *Store) LoadHolder(id ID) (*Holder, error) {
	var rec holderRecord
	found, err := get(s.holders, id.Bytes(), &rec)
	if err != nil {
		return nil, reverts.Storage(err, "load holder")
	}
	if !found {
		return nil, nil
	}
	return decodeHolder(&rec)
}

// SaveHolder persists h for id.
func (s *Store) SaveHolder(id ID, h *Holder) error {
	rec := &holderRecord{
		Version:      holderVersion,
		Shares:       h.Shares,
		RewardDebt:   h.RewardDebt,
		Unpaid:       h.Unpaid,
		UnlockHeight: h.UnlockHeight,
	}
	return reverts.Storage(put(s.holders, id.Bytes(), rec), "save holder")
}

// DeleteHolder removes the holder account for id.
func (s *Store) DeleteHolder(id ID) error {
	return reverts.Storage(s.holders.Delete(id.Bytes()), "delete holder")
}

// Holders iterates over every holder account of the contract storage in src, in ID order.
// The iteration stops at the first error returned by fn.
func Holders(src kv.Store, fn func(ID, *Holder) error) error {
	it := holdersBucket.NewStore(src).Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		id, err := BytesToID(it.Key())
		if err != nil {
			return reverts.Storage(err, "iterate holders")
		}
		var rec holderRecord
		if err := rlp.DecodeBytes(it.Value(), &rec); err != nil {
			return reverts.Storage(err, "iterate holders")
		}
		h, err := decodeHolder(&rec)
		if err != nil {
			return err
		}
		if err := fn(id, h); err != nil {
			return err
		}
	}
	return reverts.Storage(it.Error(), "iterate holders")
}

func decodeHolder(rec *holderRecord) (*Holder, error) {
	if rec.Version == 0 || rec.Version > holderVersion {
		return nil, reverts.Storage(errors.Errorf("unsupported version %d", rec.Version), "load holder")
	}
	return &Holder{
		Shares:       rec.Shares,
		RewardDebt:   rec.RewardDebt,
		Unpaid:       rec.Unpaid,
		UnlockHeight: rec.UnlockHeight,
	}, nil
}

func get(src kv.Getter, key []byte, val any) (bool, error) {
	raw, err := src.Get(key)
	if err != nil {
		if src.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return false, errors.Wrap(err, "decode")
	}
	return true, nil
}

func put(dst kv.Putter, key []byte, val any) error {
	raw, err := rlp.EncodeToBytes(val)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	return dst.Put(key, raw)
}
