// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/rewards"
)

// Bank moves balances of an asset between participants.
type Bank interface {
	Transfer(asset, from, to ledger.ID, amount *uint256.Int) error
}

// Env is the execution context the host provides for one call.
type Env interface {
	// Caller is the participant that sent the call.
	Caller() ledger.ID
	// Myself is the pool contract's own identity, which holds the pooled balance.
	Myself() ledger.ID
	// Height is the current block height.
	Height() uint64
	// Storage is the contract's private storage.
	Storage() kv.GetPutter
	Bank() Bank
}

// Params are the deployment parameters of a pool.
type Params struct {
	Name       string
	Symbol     string
	MinDeposit fixed.Decimal  // smallest accepted deposit, whole units
	Policy     rewards.Policy // treatment of rewards injected while no shares exist
	LockPeriod uint64         // blocks a deposit locks all shares of its holder for, 0 for none
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Name:       "Staking Pool Share",
		Symbol:     "SPS",
		MinDeposit: fixed.FromUnits(1),
		Policy:     rewards.PolicyReject,
	}
}
