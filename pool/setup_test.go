// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/ledger"
)

var (
	asset  = ledger.ID{Block: 2, Tx: 1}
	poolID = ledger.ID{Block: 2, Tx: 7}
	owner  = ledger.ID{Block: 1, Tx: 1}
	alice  = ledger.ID{Block: 1, Tx: 2}
	bob    = ledger.ID{Block: 1, Tx: 3}
	carol  = ledger.ID{Block: 1, Tx: 4}
)

func units(n uint64) fixed.Decimal { return fixed.FromUnits(n) }

// testBank holds balances of a single asset.
type testBank struct {
	balances map[ledger.ID]*uint256.Int
}

func (b *testBank) balanceOf(id ledger.ID) *uint256.Int {
	if bal, ok := b.balances[id]; ok {
		return bal
	}
	return new(uint256.Int)
}

func (b *testBank) Transfer(_, from, to ledger.ID, amount *uint256.Int) error {
	bal := b.balanceOf(from)
	if bal.Lt(amount) {
		return errors.Errorf("%v holds %v, want %v", from, bal, amount)
	}
	b.balances[from] = new(uint256.Int).Sub(bal, amount)
	b.balances[to] = new(uint256.Int).Add(b.balanceOf(to), amount)
	return nil
}

type testEnv struct {
	caller  ledger.ID
	height  uint64
	storage kv.GetPutter
	bank    *testBank
}

func (e *testEnv) Caller() ledger.ID     { return e.caller }
func (e *testEnv) Myself() ledger.ID     { return poolID }
func (e *testEnv) Height() uint64        { return e.height }
func (e *testEnv) Storage() kv.GetPutter { return e.storage }
func (e *testEnv) Bank() Bank            { return e.bank }

// writeCounter counts the writes reaching the store.
type writeCounter struct {
	kv.GetPutter
	writes int
}

func (w *writeCounter) Put(key, val []byte) error {
	w.writes++
	return w.GetPutter.Put(key, val)
}

func (w *writeCounter) Delete(key []byte) error {
	w.writes++
	return w.GetPutter.Delete(key)
}

type harness struct {
	dispatcher *Dispatcher
	store      *kv.MemStore
	storage    *writeCounter
	bank       *testBank
	height     uint64
}

func newHarness(params Params) *harness {
	store := kv.NewMemStore()
	return &harness{
		dispatcher: NewDispatcher(params),
		store:      store,
		storage:    &writeCounter{GetPutter: store},
		bank:       &testBank{balances: make(map[ledger.ID]*uint256.Int)},
		height:     1,
	}
}

func (h *harness) call(caller ledger.ID, call Call) (Result, error) {
	env := &testEnv{caller: caller, height: h.height, storage: h.storage, bank: h.bank}
	return h.dispatcher.Dispatch(env, call)
}

func (h *harness) mint(id ledger.ID, n uint64) {
	h.bank.balances[id] = new(uint256.Int).Add(h.bank.balanceOf(id), uint256.NewInt(n))
}

func (h *harness) balance(id ledger.ID) uint64 {
	return h.bank.balanceOf(id).Uint64()
}

func (h *harness) pool(t *testing.T) *ledger.Pool {
	p, err := ledger.NewStore(h.store).LoadPool()
	require.NoError(t, err)
	return p
}

func (h *harness) holder(t *testing.T, id ledger.ID) *ledger.Holder {
	acc, err := ledger.NewStore(h.store).LoadHolder(id)
	require.NoError(t, err)
	return acc
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	h *harness

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(h *harness) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), h: h}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Mint(id ledger.ID, n uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.h.mint(id, n)
	})
}

func (st *TestSequence) AtHeight(height uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.h.height = height
	})
}

func (st *TestSequence) Initialize(by ledger.ID) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.h.call(by, Initialize{Asset: asset}); err != nil {
			t.Fatalf("failed to initialize pool: %v", err)
		}
		t.Logf("pool initialized by %s", by)
	})
}

func (st *TestSequence) Deposit(who ledger.ID, n uint64, minted fixed.Decimal) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		res, err := st.h.call(who, Deposit{Amount: *uint256.NewInt(n)})
		if err != nil {
			t.Fatalf("failed to deposit %d for %s: %v", n, who, err)
		}
		assert.Equal(t, minted, res.(DepositResult).Minted, "minted shares of %s", who)
		t.Logf("%s deposited %d", who, n)
	})
}

func (st *TestSequence) Withdraw(who ledger.ID, burn fixed.Decimal, principal, reward uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		res, err := st.h.call(who, Withdraw{Shares: burn})
		if err != nil {
			t.Fatalf("failed to withdraw %v shares for %s: %v", burn, who, err)
		}
		out := res.(WithdrawResult)
		assert.Equal(t, principal, out.Principal.Uint64(), "principal of %s", who)
		assert.Equal(t, reward, out.Reward.Uint64(), "reward of %s", who)
		t.Logf("%s withdrew %v shares", who, burn)
	})
}

func (st *TestSequence) Inject(by ledger.ID, n uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, err := st.h.call(by, InjectReward{Amount: *uint256.NewInt(n)}); err != nil {
			t.Fatalf("failed to inject %d: %v", n, err)
		}
		t.Logf("%s injected %d", by, n)
	})
}

func (st *TestSequence) Claim(who ledger.ID, reward uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		res, err := st.h.call(who, Claim{})
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", who, err)
		}
		out := res.(ClaimResult)
		assert.Equal(t, reward, out.Reward.Uint64(), "claimed reward of %s", who)
		t.Logf("%s claimed %d", who, reward)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

type HolderAssertions struct {
	h  *harness
	id ledger.ID

	shares    *fixed.Decimal
	claimable *fixed.Decimal
	balance   *uint64
}

func AssertHolder(h *harness, id ledger.ID) *HolderAssertions {
	return &HolderAssertions{h: h, id: id}
}

func (ha *HolderAssertions) Shares(expected fixed.Decimal) *HolderAssertions {
	ha.shares = &expected
	return ha
}

func (ha *HolderAssertions) Claimable(expected fixed.Decimal) *HolderAssertions {
	ha.claimable = &expected
	return ha
}

func (ha *HolderAssertions) Balance(expected uint64) *HolderAssertions {
	ha.balance = &expected
	return ha
}

func (ha *HolderAssertions) Assert(t *testing.T) {
	if ha.balance != nil {
		assert.Equal(t, *ha.balance, ha.h.balance(ha.id), "holder %s balance mismatch", ha.id)
	}
	if ha.shares == nil && ha.claimable == nil {
		return
	}

	res, err := ha.h.call(ha.id, QueryHolder{Holder: ha.id})
	require.NoError(t, err, "failed to query holder %s", ha.id)
	view := res.(HolderView)

	if ha.shares != nil {
		assert.Equal(t, *ha.shares, view.Shares, "holder %s shares mismatch", ha.id)
	}
	if ha.claimable != nil {
		assert.Equal(t, *ha.claimable, view.Claimable, "holder %s claimable mismatch", ha.id)
	}
}

type PoolAssertions struct {
	h *harness

	totalShares    *fixed.Decimal
	totalPrincipal *fixed.Decimal
	rewardIndex    *fixed.Decimal
	rewardBalance  *fixed.Decimal
}

func AssertPool(h *harness) *PoolAssertions {
	return &PoolAssertions{h: h}
}

func (pa *PoolAssertions) TotalShares(expected fixed.Decimal) *PoolAssertions {
	pa.totalShares = &expected
	return pa
}

func (pa *PoolAssertions) TotalPrincipal(expected fixed.Decimal) *PoolAssertions {
	pa.totalPrincipal = &expected
	return pa
}

func (pa *PoolAssertions) RewardIndex(expected fixed.Decimal) *PoolAssertions {
	pa.rewardIndex = &expected
	return pa
}

func (pa *PoolAssertions) RewardBalance(expected fixed.Decimal) *PoolAssertions {
	pa.rewardBalance = &expected
	return pa
}

func (pa *PoolAssertions) Assert(t *testing.T) {
	p := pa.h.pool(t)

	if pa.totalShares != nil {
		assert.Equal(t, *pa.totalShares, p.TotalShares, "total shares mismatch")
	}
	if pa.totalPrincipal != nil {
		assert.Equal(t, *pa.totalPrincipal, p.TotalPrincipal, "total principal mismatch")
	}
	if pa.rewardIndex != nil {
		assert.Equal(t, *pa.rewardIndex, p.RewardIndex, "reward index mismatch")
	}
	if pa.rewardBalance != nil {
		assert.Equal(t, *pa.rewardBalance, p.RewardBalance, "reward balance mismatch")
	}
}
