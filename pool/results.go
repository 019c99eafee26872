// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
)

// Result is the typed outcome of a successful call.
type Result interface {
	result()
}

type (
	// InitializeResult echoes the new pool identity.
	InitializeResult struct {
		Asset ledger.ID
		Owner ledger.ID
	}
	// DepositResult reports the minted shares and the holder's new balance.
	DepositResult struct {
		Minted fixed.Decimal
		Shares fixed.Decimal
	}
	// WithdrawResult reports a Withdraw or Redeem.
	WithdrawResult struct {
		Burned    fixed.Decimal
		Principal uint256.Int // whole units of principal paid out
		Reward    uint256.Int // whole units of reward paid out
		Shares    fixed.Decimal
	}
	// InjectResult reports the reward index after an injection.
	InjectResult struct {
		RewardIndex   fixed.Decimal
		PendingReward fixed.Decimal
	}
	// ClaimResult reports the reward paid out.
	ClaimResult struct {
		Reward uint256.Int
	}
	// PoolView is a snapshot of the pool totals.
	PoolView struct {
		Pool       ledger.Pool
		SharePrice fixed.Decimal
	}
	// HolderView is a snapshot of one holder account.
	HolderView struct {
		Holder    ledger.ID
		Shares    fixed.Decimal
		Value     fixed.Decimal // principal the shares are currently worth, rounded down
		Claimable fixed.Decimal // settled and unsettled reward

		UnlockHeight uint64
	}
	// PriceView reports the share price.
	PriceView struct {
		Price fixed.Decimal
	}
	// TextResult carries the name or the symbol.
	TextResult struct {
		Text string
	}
	// SupplyResult carries the total shares.
	SupplyResult struct {
		TotalShares fixed.Decimal
	}
)

func (InitializeResult) result() {}
func (DepositResult) result()    {}
func (WithdrawResult) result()   {}
func (InjectResult) result()     {}
func (ClaimResult) result()      {}
func (PoolView) result()         {}
func (HolderView) result()       {}
func (PriceView) result()        {}
func (TextResult) result()       {}
func (SupplyResult) result()     {}
