// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares converts between pool principal and pool shares.
//
// The share price is TotalPrincipal / TotalShares, or 1 for an empty pool. Conversions multiply
// before dividing so a single rounding happens per conversion.
//
// Minting rounds up by at most one share unit and payouts round down to whole units. A deposit
// withdrawn again before anything else happens returns exactly the amount deposited, as long as
// the share price stays at or below MaxSharePrice.
package shares

import (
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/reverts"
)

var logger = log.WithContext("pkg", "shares")

// MaxSharePrice is the highest share price deposits are accepted at. Above it one share unit is
// worth enough that rounding a mint up would dilute the other holders.
var MaxSharePrice = fixed.FromUnits(1_000_000_000)

// SharePrice returns the principal backing one share.
func SharePrice(p *ledger.Pool) (fixed.Decimal, error) {
	if p.TotalShares.IsZero() {
		return fixed.One(), nil
	}
	price, err := p.TotalPrincipal.Div(p.TotalShares)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "share price")
	}
	return price, nil
}

// Deposit mints shares for amount units of principal and credits them to h.
func Deposit(p *ledger.Pool, h *ledger.Holder, amount fixed.Decimal) (fixed.Decimal, error) {
	if amount.IsZero() {
		return fixed.Decimal{}, reverts.New(reverts.InvalidAmount, "deposit of zero")
	}
	if err := CheckPool(p); err != nil {
		return fixed.Decimal{}, err
	}

	minted := amount
	if !p.TotalShares.IsZero() {
		price, err := SharePrice(p)
		if err != nil {
			return fixed.Decimal{}, err
		}
		if price.Cmp(MaxSharePrice) > 0 {
			return fixed.Decimal{}, reverts.Newf(reverts.InvalidAmount, "share price %v above %v", price, MaxSharePrice)
		}
		if minted, err = fixed.MulDivUp(amount, p.TotalShares, p.TotalPrincipal); err != nil {
			return fixed.Decimal{}, errors.Wrap(err, "mint shares")
		}
	}

	totalShares, err := p.TotalShares.Add(minted)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "total shares")
	}
	totalPrincipal, err := p.TotalPrincipal.Add(amount)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "total principal")
	}
	holderShares, err := h.Shares.Add(minted)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "holder shares")
	}

	p.TotalShares, p.TotalPrincipal, h.Shares = totalShares, totalPrincipal, holderShares
	logger.Trace("minted shares", "amount", amount, "minted", minted, "totalShares", totalShares)
	return minted, nil
}

// Withdraw burns shares of h and returns the whole units of principal they are worth.
// Burning the last share pays out all remaining principal. A burn that pays nothing is
// rejected unless it closes the position of h, whose sub-unit worth then stays in the pool.
func Withdraw(p *ledger.Pool, h *ledger.Holder, shares fixed.Decimal) (fixed.Decimal, error) {
	if shares.IsZero() {
		return fixed.Decimal{}, reverts.New(reverts.InvalidAmount, "withdrawal of zero shares")
	}
	if shares.Cmp(h.Shares) > 0 {
		return fixed.Decimal{}, reverts.Newf(reverts.InsufficientShares, "have %v, want %v", h.Shares, shares)
	}
	if err := CheckPool(p); err != nil {
		return fixed.Decimal{}, err
	}
	if err := CheckHolder(p, h); err != nil {
		return fixed.Decimal{}, err
	}

	amountOut := p.TotalPrincipal
	if shares.Cmp(p.TotalShares) < 0 {
		worth, err := fixed.MulDiv(shares, p.TotalPrincipal, p.TotalShares)
		if err != nil {
			return fixed.Decimal{}, errors.Wrap(err, "burn shares")
		}
		amountOut = worth.Floor()
	}
	if amountOut.IsZero() && shares.Cmp(h.Shares) < 0 {
		return fixed.Decimal{}, reverts.Newf(reverts.InvalidAmount, "withdrawal of %v shares pays nothing", shares)
	}

	totalShares, err := p.TotalShares.Sub(shares)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "total shares")
	}
	totalPrincipal, err := p.TotalPrincipal.Sub(amountOut)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "total principal")
	}
	holderShares, err := h.Shares.Sub(shares)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "holder shares")
	}

	p.TotalShares, p.TotalPrincipal, h.Shares = totalShares, totalPrincipal, holderShares
	logger.Trace("burnt shares", "shares", shares, "amountOut", amountOut, "totalShares", totalShares)
	return amountOut, nil
}

// SharesForAmount returns the shares to burn to receive at least amount units, rounded up.
func SharesForAmount(p *ledger.Pool, amount fixed.Decimal) (fixed.Decimal, error) {
	if amount.IsZero() {
		return fixed.Decimal{}, reverts.New(reverts.InvalidAmount, "redeem of zero")
	}
	if err := CheckPool(p); err != nil {
		return fixed.Decimal{}, err
	}
	if amount.Cmp(p.TotalPrincipal) > 0 {
		return fixed.Decimal{}, reverts.Newf(reverts.InsufficientShares, "pool holds %v, want %v", p.TotalPrincipal, amount)
	}
	burn, err := fixed.MulDivUp(amount, p.TotalShares, p.TotalPrincipal)
	if err != nil {
		return fixed.Decimal{}, errors.Wrap(err, "shares for amount")
	}
	return burn, nil
}

// CheckPool validates the share accounting invariants of p.
func CheckPool(p *ledger.Pool) error {
	noShares, noPrincipal := p.TotalShares.IsZero(), p.TotalPrincipal.IsZero()
	switch {
	case noShares && !noPrincipal:
		return reverts.Invariant("no shares but principal %v", p.TotalPrincipal)
	case !noShares && noPrincipal:
		return reverts.Invariant("no principal but %v shares", p.TotalShares)
	case !p.TotalPrincipal.IsInteger():
		return reverts.Invariant("fractional principal %v", p.TotalPrincipal)
	}
	return nil
}

// CheckHolder validates h against the pool totals.
func CheckHolder(p *ledger.Pool, h *ledger.Holder) error {
	if h.Shares.Cmp(p.TotalShares) > 0 {
		return reverts.Invariant("holder shares %v above total %v", h.Shares, p.TotalShares)
	}
	if h.RewardDebt.Cmp(p.RewardIndex) > 0 {
		return reverts.Invariant("holder reward debt %v above index %v", h.RewardDebt, p.RewardIndex)
	}
	return nil
}
