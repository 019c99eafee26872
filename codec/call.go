// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package codec encodes pool calls and responses.
//
// A call is an opcode followed by its fields, all unsigned LEB128 integers of at most 128 bits.
// An ID takes two integers, block then tx. Share amounts carry the raw 18 decimal mantissa.
// A response is a status byte, zero on success or the error code, followed by the result fields,
// which may use up to 256 bits.
package codec

import (
	"github.com/forgestake/stakepool/pool"
	"github.com/forgestake/stakepool/reverts"
)

const (
	callBits   = 128
	resultBits = 256
)

// DecodeCall decodes a call payload.
func DecodeCall(payload []byte) (pool.Call, error) {
	r := &reader{buf: payload, bits: callBits}
	op := pool.Opcode(r.u64())
	if r.err != nil {
		return nil, reverts.Newf(reverts.MalformedPayload, "opcode: %v", r.err)
	}

	var call pool.Call
	switch op {
	case pool.OpInitialize:
		call = pool.Initialize{Asset: r.id()}
	case pool.OpDeposit:
		call = pool.Deposit{Amount: *r.num()}
	case pool.OpWithdraw:
		call = pool.Withdraw{Shares: r.decimal()}
	case pool.OpRedeem:
		call = pool.Redeem{Amount: *r.num()}
	case pool.OpInjectReward:
		call = pool.InjectReward{Amount: *r.num()}
	case pool.OpClaim:
		call = pool.Claim{}
	case pool.OpQueryPool:
		call = pool.QueryPool{}
	case pool.OpQueryHolder:
		call = pool.QueryHolder{Holder: r.id()}
	case pool.OpQuerySharePrice:
		call = pool.QuerySharePrice{}
	case pool.OpGetName:
		call = pool.GetName{}
	case pool.OpGetSymbol:
		call = pool.GetSymbol{}
	case pool.OpGetTotalSupply:
		call = pool.GetTotalSupply{}
	default:
		return nil, reverts.Newf(reverts.MalformedPayload, "unknown opcode %d", uint64(op))
	}

	if err := r.finish(); err != nil {
		return nil, reverts.Newf(reverts.MalformedPayload, "%v: %v", op, err)
	}
	return call, nil
}

// EncodeCall is the inverse of DecodeCall.
func EncodeCall(call pool.Call) []byte {
	w := &writer{}
	w.u64(uint64(call.Opcode()))

	switch c := call.(type) {
	case pool.Initialize:
		w.id(c.Asset)
	case pool.Deposit:
		w.num(&c.Amount)
	case pool.Withdraw:
		w.decimal(c.Shares)
	case pool.Redeem:
		w.num(&c.Amount)
	case pool.InjectReward:
		w.num(&c.Amount)
	case pool.QueryHolder:
		w.id(c.Holder)
	}
	return w.buf
}

