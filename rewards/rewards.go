// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements lazy reward accrual through a cumulative reward-per-share index.
//
// Injecting R into a pool with S shares raises the index by R/S. A holder with s shares that last
// settled at index d is owed s*(index-d). Nothing is iterated per holder.
package rewards

import (
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/reverts"
)

var logger = log.WithContext("pkg", "rewards")

// Inject distributes amount over the current shares. With no shares outstanding the policy decides.
func Inject(p *ledger.Pool, amount fixed.Decimal, policy Policy) error {
	if amount.IsZero() {
		return reverts.New(reverts.InvalidAmount, "reward of zero")
	}
	balance, err := p.RewardBalance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "reward balance")
	}

	if p.TotalShares.IsZero() {
		if policy != PolicyPending {
			return reverts.New(reverts.NoShareholders, "")
		}
		pending, err := p.PendingReward.Add(amount)
		if err != nil {
			return errors.Wrap(err, "pending reward")
		}
		p.PendingReward, p.RewardBalance = pending, balance
		logger.Debug("reward held pending", "amount", amount, "pending", pending)
		return nil
	}

	total, err := p.PendingReward.Add(amount)
	if err != nil {
		return errors.Wrap(err, "pending reward")
	}
	if err := distribute(p, total); err != nil {
		return err
	}
	p.RewardBalance = balance
	return nil
}

// AbsorbPending folds the pending bucket into the index once shares exist.
func AbsorbPending(p *ledger.Pool) error {
	if p.TotalShares.IsZero() || p.PendingReward.IsZero() {
		return nil
	}
	return distribute(p, p.PendingReward)
}

// distribute raises the index by total/S rounded down. The part not covered by the
// increment is kept pending for the next distribution.
func distribute(p *ledger.Pool, total fixed.Decimal) error {
	inc, err := total.Div(p.TotalShares)
	if err != nil {
		return errors.Wrap(err, "index increment")
	}
	// rounded up, so holders can never be owed more than total.
	used, err := fixed.MulDivUp(inc, p.TotalShares, fixed.One())
	if err != nil {
		return errors.Wrap(err, "distributed reward")
	}
	pending, err := total.Sub(used)
	if err != nil {
		return errors.Wrap(err, "pending reward")
	}
	index, err := p.RewardIndex.Add(inc)
	if err != nil {
		return errors.Wrap(err, "reward index")
	}
	logger.Debug("reward distributed", "total", total, "inc", inc, "index", index, "pending", pending)
	p.RewardIndex, p.PendingReward = index, pending
	return nil
}

// Settle credits what h accrued since its last settlement to h.Unpaid and returns it.
// Settling twice at the same index is a no-op.
func Settle(p *ledger.Pool, h *ledger.Holder) (fixed.Decimal, error) {
	owed, err := accrued(p, h)
	if err != nil {
		return fixed.Decimal{}, err
	}
	unpaid, err := h.Unpaid.Add(owed)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "unpaid reward")
	}
	h.Unpaid, h.RewardDebt = unpaid, p.RewardIndex
	return owed, nil
}

// Preview returns the reward h could claim now, settled or not, without mutating anything.
func Preview(p *ledger.Pool, h *ledger.Holder) (fixed.Decimal, error) {
	owed, err := accrued(p, h)
	if err != nil {
		return fixed.Decimal{}, err
	}
	claimable, err := h.Unpaid.Add(owed)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "claimable reward")
	}
	return claimable, nil
}

// Payout moves the whole units of h.Unpaid out of the pool's reward balance and returns them.
// The fractional remainder stays unpaid.
func Payout(p *ledger.Pool, h *ledger.Holder) (fixed.Decimal, error) {
	units := h.Unpaid.Floor()
	if units.IsZero() {
		return fixed.Decimal{}, nil
	}
	balance, err := p.RewardBalance.Sub(units)
	if err != nil {
		return fixed.Decimal{}, reverts.Invariant("reward balance %v below payout %v", p.RewardBalance, units)
	}
	unpaid, err := h.Unpaid.Sub(units)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "unpaid reward")
	}
	p.RewardBalance, h.Unpaid = balance, unpaid
	return units, nil
}

func accrued(p *ledger.Pool, h *ledger.Holder) (fixed.Decimal, error) {
	delta, err := p.RewardIndex.Sub(h.RewardDebt)
	if err != nil {
		return fixed.Decimal{}, reverts.Invariant("holder reward debt %v above index %v", h.RewardDebt, p.RewardIndex)
	}
	owed, err := h.Shares.Mul(delta)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "owed reward")
	}
	return owed, nil
}
