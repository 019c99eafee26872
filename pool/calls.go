// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
)

// Opcode is the numeric selector of a call.
type Opcode uint64

const (
	OpInitialize      Opcode = 0
	OpDeposit         Opcode = 50
	OpWithdraw        Opcode = 51
	OpRedeem          Opcode = 52
	OpInjectReward    Opcode = 53
	OpClaim           Opcode = 54
	OpQueryPool       Opcode = 90
	OpQueryHolder     Opcode = 91
	OpQuerySharePrice Opcode = 92
	OpGetName         Opcode = 99
	OpGetSymbol       Opcode = 100
	OpGetTotalSupply  Opcode = 101
)

var opcodeNames = map[Opcode]string{
	OpInitialize:      "initialize",
	OpDeposit:         "deposit",
	OpWithdraw:        "withdraw",
	OpRedeem:          "redeem",
	OpInjectReward:    "inject_reward",
	OpClaim:           "claim",
	OpQueryPool:       "query_pool",
	OpQueryHolder:     "query_holder",
	OpQuerySharePrice: "query_share_price",
	OpGetName:         "get_name",
	OpGetSymbol:       "get_symbol",
	OpGetTotalSupply:  "get_total_supply",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode(%d)", uint64(op))
}

// Call is one pool operation. The set of calls is closed.
type Call interface {
	Opcode() Opcode
	// mutating calls are height checked, require a caller and end with a commit.
	mutating() bool
}

type (
	// Initialize sets up the pool for Asset. The caller becomes the owner.
	Initialize struct{ Asset ledger.ID }
	// Deposit stakes Amount whole units of the asset.
	Deposit struct{ Amount uint256.Int }
	// Withdraw burns Shares and pays out their principal plus the settled reward.
	Withdraw struct{ Shares fixed.Decimal }
	// Redeem burns the shares needed to take out at least Amount whole units, plus the settled reward.
	Redeem struct{ Amount uint256.Int }
	// InjectReward distributes Amount whole units over the current shares. Owner only.
	InjectReward struct{ Amount uint256.Int }
	// Claim pays out the settled reward without touching shares.
	Claim struct{}
	// QueryPool returns the pool totals.
	QueryPool struct{}
	// QueryHolder returns the account of Holder.
	QueryHolder struct{ Holder ledger.ID }
	// QuerySharePrice returns the principal backing one share.
	QuerySharePrice struct{}
	// GetName returns the pool share name.
	GetName struct{}
	// GetSymbol returns the pool share symbol.
	GetSymbol struct{}
	// GetTotalSupply returns the total outstanding shares.
	GetTotalSupply struct{}
)

func (Initialize) Opcode() Opcode      { return OpInitialize }
func (Deposit) Opcode() Opcode         { return OpDeposit }
func (Withdraw) Opcode() Opcode        { return OpWithdraw }
func (Redeem) Opcode() Opcode          { return OpRedeem }
func (InjectReward) Opcode() Opcode    { return OpInjectReward }
func (Claim) Opcode() Opcode           { return OpClaim }
func (QueryPool) Opcode() Opcode       { return OpQueryPool }
func (QueryHolder) Opcode() Opcode     { return OpQueryHolder }
func (QuerySharePrice) Opcode() Opcode { return OpQuerySharePrice }
func (GetName) Opcode() Opcode         { return OpGetName }
func (GetSymbol) Opcode() Opcode       { return OpGetSymbol }
func (GetTotalSupply) Opcode() Opcode  { return OpGetTotalSupply }

func (Initialize) mutating() bool      { return true }
func (Deposit) mutating() bool         { return true }
func (Withdraw) mutating() bool        { return true }
func (Redeem) mutating() bool          { return true }
func (InjectReward) mutating() bool    { return true }
func (Claim) mutating() bool           { return true }
func (QueryPool) mutating() bool       { return false }
func (QueryHolder) mutating() bool     { return false }
func (QuerySharePrice) mutating() bool { return false }
func (GetName) mutating() bool         { return false }
func (GetSymbol) mutating() bool       { return false }
func (GetTotalSupply) mutating() bool  { return false }

// ParseOpcode returns the opcode named s, as printed by Opcode.String.
func ParseOpcode(s string) (Opcode, bool) {
	for op, name := range opcodeNames {
		if name == s {
			return op, true
		}
	}
	return 0, false
}

// Mutating reports whether call changes the pool.
func Mutating(call Call) bool {
	return call.mutating()
}
