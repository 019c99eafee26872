// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package codec

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/pool"
	"github.com/forgestake/stakepool/reverts"
)

// ErrorResponse is a decoded response with a non-zero status.
type ErrorResponse struct {
	Code uint8
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("call failed with code %d", e.Code)
}

// EncodeError encodes the response of a failed call.
func EncodeError(err error) []byte {
	return []byte{reverts.Code(err)}
}

// EncodeResult encodes the response of a successful call.
func EncodeResult(res pool.Result) []byte {
	w := &writer{buf: []byte{reverts.CodeOK}}

	switch r := res.(type) {
	case pool.InitializeResult:
		w.id(r.Asset)
		w.id(r.Owner)
	case pool.DepositResult:
		w.decimal(r.Minted)
		w.decimal(r.Shares)
	case pool.WithdrawResult:
		w.decimal(r.Burned)
		w.num(&r.Principal)
		w.num(&r.Reward)
		w.decimal(r.Shares)
	case pool.InjectResult:
		w.decimal(r.RewardIndex)
		w.decimal(r.PendingReward)
	case pool.ClaimResult:
		w.num(&r.Reward)
	case pool.PoolView:
		p := &r.Pool
		w.id(p.Asset)
		w.id(p.Owner)
		w.decimal(p.TotalShares)
		w.decimal(p.TotalPrincipal)
		w.decimal(p.RewardIndex)
		w.decimal(p.RewardBalance)
		w.decimal(p.PendingReward)
		w.u64(p.LastUpdateHeight)
		w.decimal(r.SharePrice)
	case pool.HolderView:
		w.id(r.Holder)
		w.decimal(r.Shares)
		w.decimal(r.Value)
		w.decimal(r.Claimable)
		w.u64(r.UnlockHeight)
	case pool.PriceView:
		w.decimal(r.Price)
	case pool.TextResult:
		w.bytes([]byte(r.Text))
	case pool.SupplyResult:
		w.decimal(r.TotalShares)
	}
	return w.buf
}

// DecodeResponse decodes the response to a call with opcode op. A failed call yields an *ErrorResponse.
func DecodeResponse(op pool.Opcode, resp []byte) (pool.Result, error) {
	if len(resp) == 0 {
		return nil, errors.New("empty response")
	}
	if resp[0] != reverts.CodeOK {
		return nil, &ErrorResponse{Code: resp[0]}
	}

	var (
		r   = &reader{buf: resp[1:], bits: resultBits}
		res pool.Result
	)
	switch op {
	case pool.OpInitialize:
		res = pool.InitializeResult{Asset: r.id(), Owner: r.id()}
	case pool.OpDeposit:
		res = pool.DepositResult{Minted: r.decimal(), Shares: r.decimal()}
	case pool.OpWithdraw, pool.OpRedeem:
		res = pool.WithdrawResult{Burned: r.decimal(), Principal: *r.num(), Reward: *r.num(), Shares: r.decimal()}
	case pool.OpInjectReward:
		res = pool.InjectResult{RewardIndex: r.decimal(), PendingReward: r.decimal()}
	case pool.OpClaim:
		res = pool.ClaimResult{Reward: *r.num()}
	case pool.OpQueryPool:
		res = pool.PoolView{
			Pool: ledger.Pool{
				Asset:            r.id(),
				Owner:            r.id(),
				TotalShares:      r.decimal(),
				TotalPrincipal:   r.decimal(),
				RewardIndex:      r.decimal(),
				RewardBalance:    r.decimal(),
				PendingReward:    r.decimal(),
				LastUpdateHeight: r.u64(),
			},
			SharePrice: r.decimal(),
		}
	case pool.OpQueryHolder:
		res = pool.HolderView{Holder: r.id(), Shares: r.decimal(), Value: r.decimal(), Claimable: r.decimal(), UnlockHeight: r.u64()}
	case pool.OpQuerySharePrice:
		res = pool.PriceView{Price: r.decimal()}
	case pool.OpGetName, pool.OpGetSymbol:
		res = pool.TextResult{Text: string(r.bytes())}
	case pool.OpGetTotalSupply:
		res = pool.SupplyResult{TotalShares: r.decimal()}
	default:
		return nil, errors.Errorf("unknown opcode %d", uint64(op))
	}

	if err := r.finish(); err != nil {
		return nil, errors.Wrapf(err, "decode %v response", op)
	}
	return res, nil
}

// IsOK reports whether resp is the response of a successful call.
func IsOK(resp []byte) bool {
	return len(resp) > 0 && resp[0] == reverts.CodeOK
}
