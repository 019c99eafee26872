// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package host runs pool calls the way the metaprotocol VM does: each call is atomic, metered,
// and sees its contract's private storage plus a shared bank of asset balances.
package host

import (
	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/codec"
	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/metrics"
	"github.com/forgestake/stakepool/pool"
	"github.com/forgestake/stakepool/reverts"
)

var (
	logger = log.WithContext("pkg", "host")

	metricFuel = metrics.LazyLoadHistogram("host_call_fuel", metrics.BucketFuel)
)

const contractsBucket = kv.Bucket("/contracts/")

// ContractBucket returns the storage namespace of contract.
func ContractBucket(contract ledger.ID) kv.Bucket {
	ns := blake2b.Sum256(contract.Bytes())
	return contractsBucket.Sub(string(ns[:]))
}

// Runtime executes calls against a store.
type Runtime struct {
	store      kv.Store
	dispatcher *pool.Dispatcher
	fuelLimit  uint64
}

// New creates a runtime. A zero fuelLimit leaves calls unmetered.
func New(store kv.Store, dispatcher *pool.Dispatcher, fuelLimit uint64) *Runtime {
	return &Runtime{store: store, dispatcher: dispatcher, fuelLimit: fuelLimit}
}

// Execute runs one call and writes its changes on success.
// The response is returned even when the call fails, carrying the error code.
func (rt *Runtime) Execute(contract, caller ledger.ID, height uint64, payload []byte) ([]byte, error) {
	s := rt.NewSession()
	defer s.Release()

	resp, err := s.Execute(contract, caller, height, payload)
	if err != nil {
		return resp, err
	}
	if err := s.Commit(); err != nil {
		return nil, err
	}
	return resp, nil
}

// BalanceOf returns the committed balance of owner.
func (rt *Runtime) BalanceOf(asset, owner ledger.ID) (*uint256.Int, error) {
	snap := rt.store.Snapshot()
	defer snap.Release()
	return newBank(&readOnly{snap}, nil).BalanceOf(asset, owner)
}

// ContractStore returns the committed storage of contract.
func (rt *Runtime) ContractStore(contract ledger.ID) kv.Store {
	return ContractBucket(contract).NewStore(rt.store)
}

// Session accumulates calls over a snapshot of the store until committed.
type Session struct {
	rt    *Runtime
	snap  kv.Snapshot
	state *overlay
	calls int
}

// NewSession opens a session.
func (rt *Runtime) NewSession() *Session {
	snap := rt.store.Snapshot()
	return &Session{rt: rt, snap: snap, state: newOverlay(snap)}
}

// Execute runs one call. A failed call leaves the session as it was.
func (s *Session) Execute(contract, caller ledger.ID, height uint64, payload []byte) (resp []byte, err error) {
	var (
		charger  = NewCharger(s.rt.fuelLimit)
		revision = s.state.checkpoint()
		op       pool.Opcode
	)
	defer func() {
		metricFuel().Observe(int64(charger.Used()))
		if err != nil {
			s.state.revertTo(revision)
			if charger.Exhausted() {
				err = ErrOutOfFuel
				resp = []byte{reverts.CodeOutOfFuel}
			}
			logger.Debug("call reverted", "contract", contract, "op", op, "height", height, "err", err)
			return
		}
		s.calls++
		logger.Debug("call executed", "contract", contract, "op", op, "height", height, "fuel", charger.Breakdown())
	}()

	if err := charger.Charge(FuelCall + FuelPayloadByte*uint64(len(payload))); err != nil {
		return nil, err
	}
	call, err := codec.DecodeCall(payload)
	if err != nil {
		return codec.EncodeError(err), err
	}
	op = call.Opcode()

	env := &env{
		caller: caller,
		myself: contract,
		height: height,
		storage: &metered{
			GetPutter: ContractBucket(contract).NewGetPutter(s.state),
			charger:   charger,
		},
		bank: newBank(s.state, charger),
	}
	res, err := s.rt.dispatcher.Dispatch(env, call)
	if err != nil {
		return codec.EncodeError(err), err
	}
	return codec.EncodeResult(res), nil
}

// Mint credits amount of asset to owner, outside any call.
func (s *Session) Mint(asset, owner ledger.ID, amount *uint256.Int) error {
	revision := s.state.checkpoint()
	if err := newBank(s.state, nil).Mint(asset, owner, amount); err != nil {
		s.state.revertTo(revision)
		return err
	}
	return nil
}

// BalanceOf returns the balance of owner as seen by the session.
func (s *Session) BalanceOf(asset, owner ledger.ID) (*uint256.Int, error) {
	return newBank(s.state, nil).BalanceOf(asset, owner)
}

// Calls returns the number of successful calls so far.
func (s *Session) Calls() int {
	return s.calls
}

// Commit writes every change of the session through one bulk.
func (s *Session) Commit() error {
	bulk := s.rt.store.Bulk()
	n, err := s.state.flush(bulk)
	if err != nil {
		return errors.Wrap(err, "stage changes")
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write changes")
	}
	logger.Debug("session committed", "calls", s.calls, "keys", n)

	s.snap.Release()
	s.snap = s.rt.store.Snapshot()
	s.state = newOverlay(s.snap)
	return nil
}

// Release frees the underlying snapshot. The session must not be used afterwards.
func (s *Session) Release() {
	s.snap.Release()
}

type env struct {
	caller  ledger.ID
	myself  ledger.ID
	height  uint64
	storage kv.GetPutter
	bank    *bank
}

func (e *env) Caller() ledger.ID     { return e.caller }
func (e *env) Myself() ledger.ID     { return e.myself }
func (e *env) Height() uint64        { return e.height }
func (e *env) Storage() kv.GetPutter { return e.storage }
func (e *env) Bank() pool.Bank       { return e.bank }

// readOnly turns a snapshot into a getputter that refuses writes.
type readOnly struct {
	kv.Getter
}

func (readOnly) Put(_, _ []byte) error { return errors.New("read only") }
func (readOnly) Delete(_ []byte) error { return errors.New("read only") }
