// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool dispatches calls against a staking pool.
//
// Each call runs through Validating, Executing and Committing. State is loaded fresh per call and
// persisted, together with the balance transfers, only once the call has fully succeeded.
package pool

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/reverts"
	"github.com/forgestake/stakepool/rewards"
	"github.com/forgestake/stakepool/shares"
)

var logger = log.WithContext("pkg", "pool")

// Phase is the stage a call is in.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseExecuting
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseExecuting:
		return "executing"
	case PhaseCommitting:
		return "committing"
	}
	return "unknown"
}

// Dispatcher executes calls. It keeps no per-call state, one value serves any number of calls.
type Dispatcher struct {
	params Params
}

// NewDispatcher creates a dispatcher for a pool deployed with params.
func NewDispatcher(params Params) *Dispatcher {
	return &Dispatcher{params: params}
}

// Params returns the deployment parameters.
func (d *Dispatcher) Params() Params {
	return d.params
}

// Dispatch runs call in env. On error nothing has been written and no balance has moved, unless
// the error happened while committing, in which case the host must discard the call's writes.
func (d *Dispatcher) Dispatch(env Env, call Call) (res Result, err error) {
	x := &execution{
		params: d.params,
		env:    env,
		store:  ledger.NewStore(env.Storage()),
	}
	defer func() {
		if err != nil {
			logger.Debug("call failed", "op", call.Opcode(), "phase", x.phase, "caller", env.Caller(), "err", err)
		}
		x.phase = PhaseIdle
		metricCalls().AddWithLabel(1, map[string]string{"op": call.Opcode().String(), "outcome": Outcome(err)})
	}()
	return x.run(call)
}

// execution is the working set of one call.
type execution struct {
	params Params
	env    Env
	store  *ledger.Store
	phase  Phase

	pool   *ledger.Pool
	holder *ledger.Holder // account of the caller, or of the queried holder
	amount fixed.Decimal  // converted call amount

	in  *uint256.Int // units moved from the caller into the pool
	out *uint256.Int // units moved from the pool to the caller
}

func (x *execution) run(call Call) (Result, error) {
	x.phase = PhaseValidating
	if err := x.validate(call); err != nil {
		return nil, err
	}

	x.phase = PhaseExecuting
	res, err := x.execute(call)
	if err != nil {
		return nil, err
	}
	if !call.mutating() {
		return res, nil
	}
	x.pool.LastUpdateHeight = x.env.Height()
	if err := shares.CheckPool(x.pool); err != nil {
		return nil, err
	}
	if x.holder != nil {
		if err := shares.CheckHolder(x.pool, x.holder); err != nil {
			return nil, err
		}
	}

	x.phase = PhaseCommitting
	if err := x.commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (x *execution) validate(call Call) error {
	pool, err := x.store.LoadPool()
	if err != nil {
		return err
	}
	x.pool = pool

	switch call.(type) {
	case Initialize:
		if pool.Initialized() {
			return reverts.New(reverts.AlreadyInitialized, "")
		}
	case GetName, GetSymbol, GetTotalSupply:
	default:
		if !pool.Initialized() {
			return reverts.New(reverts.NotInitialized, "")
		}
	}

	caller := x.env.Caller()
	if call.mutating() {
		if caller.IsZero() {
			return reverts.New(reverts.Unauthorized, "no caller")
		}
		if height := x.env.Height(); height < pool.LastUpdateHeight {
			return reverts.Newf(reverts.StaleHeight, "height %d below last update %d", height, pool.LastUpdateHeight)
		}
	}

	switch c := call.(type) {
	case Initialize:
		if c.Asset.IsZero() {
			return reverts.New(reverts.MalformedPayload, "zero asset")
		}
	case Deposit:
		if err := x.setAmount(&c.Amount); err != nil {
			return err
		}
		if x.amount.Cmp(x.params.MinDeposit) < 0 {
			return reverts.Newf(reverts.InvalidAmount, "deposit of %v below minimum %v", x.amount, x.params.MinDeposit)
		}
		// absent on first deposit
		if x.holder, err = x.store.LoadHolder(caller); err != nil {
			return err
		}
	case InjectReward:
		if caller != pool.Owner {
			return reverts.Newf(reverts.Unauthorized, "%v is not the owner", caller)
		}
		if err := x.setAmount(&c.Amount); err != nil {
			return err
		}
	case Redeem:
		if err := x.setAmount(&c.Amount); err != nil {
			return err
		}
		return x.loadUnlocked(caller)
	case Withdraw:
		if c.Shares.IsZero() {
			return reverts.New(reverts.InvalidAmount, "withdrawal of zero shares")
		}
		return x.loadUnlocked(caller)
	case Claim:
		return x.loadHolder(caller)
	case QueryHolder:
		return x.loadHolder(c.Holder)
	}
	return nil
}

func (x *execution) setAmount(units *uint256.Int) error {
	if units.IsZero() {
		return reverts.New(reverts.InvalidAmount, "amount of zero")
	}
	amount, err := fixed.FromUnitsInt(units)
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	x.amount = amount
	return nil
}

func (x *execution) loadHolder(id ledger.ID) error {
	h, err := x.store.LoadHolder(id)
	if err != nil {
		return err
	}
	if h == nil {
		return reverts.Newf(reverts.UnknownHolder, "%v", id)
	}
	x.holder = h
	return nil
}

// loadUnlocked loads the holder of id and checks its shares may be burnt.
func (x *execution) loadUnlocked(id ledger.ID) error {
	if err := x.loadHolder(id); err != nil {
		return err
	}
	if height := x.env.Height(); height < x.holder.UnlockHeight {
		return reverts.Newf(reverts.Locked, "shares locked until height %d", x.holder.UnlockHeight)
	}
	return nil
}

func (x *execution) execute(call Call) (Result, error) {
	switch c := call.(type) {
	case Initialize:
		return x.initialize(c)
	case Deposit:
		return x.deposit()
	case Withdraw:
		return x.withdraw(c.Shares)
	case Redeem:
		burn, err := shares.SharesForAmount(x.pool, x.amount)
		if err != nil {
			return nil, err
		}
		return x.withdraw(burn)
	case InjectReward:
		return x.injectReward()
	case Claim:
		return x.claim()
	case QueryPool:
		price, err := shares.SharePrice(x.pool)
		if err != nil {
			return nil, err
		}
		return PoolView{Pool: *x.pool, SharePrice: price}, nil
	case QueryHolder:
		return x.queryHolder(c.Holder)
	case QuerySharePrice:
		price, err := shares.SharePrice(x.pool)
		if err != nil {
			return nil, err
		}
		return PriceView{Price: price}, nil
	case GetName:
		return TextResult{Text: x.params.Name}, nil
	case GetSymbol:
		return TextResult{Text: x.params.Symbol}, nil
	case GetTotalSupply:
		return SupplyResult{TotalShares: x.pool.TotalShares}, nil
	}
	return nil, reverts.Newf(reverts.MalformedPayload, "unsupported call %v", call.Opcode())
}

func (x *execution) initialize(c Initialize) (Result, error) {
	owner := x.env.Caller()
	x.pool = &ledger.Pool{
		Asset: c.Asset,
		Owner: owner,
	}
	logger.Debug("pool initialized", "asset", c.Asset, "owner", owner)
	return InitializeResult{Asset: c.Asset, Owner: owner}, nil
}

func (x *execution) deposit() (Result, error) {
	if x.holder == nil {
		x.holder = &ledger.Holder{RewardDebt: x.pool.RewardIndex}
	}
	if _, err := rewards.Settle(x.pool, x.holder); err != nil {
		return nil, err
	}

	wasEmpty := x.pool.TotalShares.IsZero()
	minted, err := shares.Deposit(x.pool, x.holder, x.amount)
	if err != nil {
		return nil, err
	}
	// the first holder after an empty spell receives the held back reward
	if wasEmpty {
		if err := rewards.AbsorbPending(x.pool); err != nil {
			return nil, err
		}
	}
	x.in = x.amount.Units()

	// every deposit pushes the unlock height of all the holder's shares out
	if period := x.params.LockPeriod; period > 0 {
		unlock := x.env.Height() + period
		if unlock < period {
			return nil, errors.Wrap(fixed.ErrOverflow, "unlock height")
		}
		x.holder.UnlockHeight = max(x.holder.UnlockHeight, unlock)
	}

	logger.Debug("deposit", "holder", x.env.Caller(), "amount", x.amount, "minted", minted)
	return DepositResult{Minted: minted, Shares: x.holder.Shares}, nil
}

func (x *execution) withdraw(burn fixed.Decimal) (Result, error) {
	if _, err := rewards.Settle(x.pool, x.holder); err != nil {
		return nil, err
	}
	principal, err := shares.Withdraw(x.pool, x.holder, burn)
	if err != nil {
		return nil, err
	}
	reward, err := rewards.Payout(x.pool, x.holder)
	if err != nil {
		return nil, err
	}
	total, err := principal.Add(reward)
	if err != nil {
		return nil, errors.Wrap(err, "payout")
	}
	x.out = total.Units()

	logger.Debug("withdraw", "holder", x.env.Caller(), "burned", burn, "principal", principal, "reward", reward)
	return WithdrawResult{
		Burned:    burn,
		Principal: *principal.Units(),
		Reward:    *reward.Units(),
		Shares:    x.holder.Shares,
	}, nil
}

func (x *execution) injectReward() (Result, error) {
	if err := rewards.Inject(x.pool, x.amount, x.params.Policy); err != nil {
		return nil, err
	}
	x.in = x.amount.Units()

	logger.Debug("reward injected", "amount", x.amount, "index", x.pool.RewardIndex)
	return InjectResult{RewardIndex: x.pool.RewardIndex, PendingReward: x.pool.PendingReward}, nil
}

func (x *execution) claim() (Result, error) {
	if _, err := rewards.Settle(x.pool, x.holder); err != nil {
		return nil, err
	}
	reward, err := rewards.Payout(x.pool, x.holder)
	if err != nil {
		return nil, err
	}
	x.out = reward.Units()

	logger.Debug("claim", "holder", x.env.Caller(), "reward", reward)
	return ClaimResult{Reward: *reward.Units()}, nil
}

func (x *execution) queryHolder(id ledger.ID) (Result, error) {
	if err := shares.CheckHolder(x.pool, x.holder); err != nil {
		return nil, err
	}
	claimable, err := rewards.Preview(x.pool, x.holder)
	if err != nil {
		return nil, err
	}
	var value fixed.Decimal
	if !x.pool.TotalShares.IsZero() {
		if value, err = fixed.MulDiv(x.holder.Shares, x.pool.TotalPrincipal, x.pool.TotalShares); err != nil {
			return nil, errors.Wrap(err, "holder value")
		}
	}
	return HolderView{
		Holder:    id,
		Shares:    x.holder.Shares,
		Value:     value,
		Claimable: claimable,

		UnlockHeight: x.holder.UnlockHeight,
	}, nil
}

// commit takes the incoming balance, persists the working set, then pays out.
func (x *execution) commit() error {
	var (
		bank   = x.env.Bank()
		caller = x.env.Caller()
		myself = x.env.Myself()
		writes int64
	)
	defer func() { metricWrites().Observe(writes) }()

	if x.in != nil && !x.in.IsZero() {
		if err := bank.Transfer(x.pool.Asset, caller, myself, x.in); err != nil {
			return errors.Wrap(err, "incoming transfer")
		}
	}

	if err := x.store.SavePool(x.pool); err != nil {
		return err
	}
	writes++

	if x.holder != nil {
		if x.holder.Shares.IsZero() {
			// the sub-unit reward remainder stays with the pool
			if err := x.store.DeleteHolder(caller); err != nil {
				return err
			}
		} else if err := x.store.SaveHolder(caller, x.holder); err != nil {
			return err
		}
		writes++
	}

	if x.out != nil && !x.out.IsZero() {
		if err := bank.Transfer(x.pool.Asset, myself, caller, x.out); err != nil {
			return errors.Wrap(err, "outgoing transfer")
		}
	}
	return nil
}
