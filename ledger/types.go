// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/forgestake/stakepool/fixed"
)

// Pool is the aggregate state of one staking pool.
type Pool struct {
	Asset            ID            // the staked asset
	Owner            ID            // the only participant allowed to inject rewards
	TotalShares      fixed.Decimal // total outstanding shares
	TotalPrincipal   fixed.Decimal // units of asset held as principal, always integral
	RewardIndex      fixed.Decimal // cumulative reward per share, never decreases
	RewardBalance    fixed.Decimal // units of asset held for rewards not yet paid out
	PendingReward    fixed.Decimal // reward not yet folded into RewardIndex
	LastUpdateHeight uint64        // height of the last mutating call
}

// Initialized reports whether the pool has been set up. The zero Pool is not.
func (p *Pool) Initialized() bool {
	return !p.Owner.IsZero()
}

// Holder is the account of one share holder.
type Holder struct {
	Shares     fixed.Decimal // shares owned
	RewardDebt fixed.Decimal // RewardIndex at the last settlement
	Unpaid     fixed.Decimal // settled reward not yet paid out

	UnlockHeight uint64 // shares cannot be burnt below this height
}
