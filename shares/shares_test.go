// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package shares

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/reverts"
)

func units(n uint64) fixed.Decimal { return fixed.FromUnits(n) }

func TestSharePrice(t *testing.T) {
	p := &ledger.Pool{}
	price, err := SharePrice(p)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())

	p.TotalShares, p.TotalPrincipal = units(1000), units(1500)
	price, err = SharePrice(p)
	require.NoError(t, err)
	assert.Equal(t, "1.5", price.String())
}

func TestDeposit(t *testing.T) {
	p := &ledger.Pool{}
	alice, bob := &ledger.Holder{}, &ledger.Holder{}

	minted, err := Deposit(p, alice, units(1000))
	require.NoError(t, err)
	assert.Equal(t, "1000", minted.String(), "first depositor mints at price 1")

	minted, err = Deposit(p, bob, units(500))
	require.NoError(t, err)
	assert.Equal(t, "500", minted.String())

	assert.Equal(t, "1500", p.TotalShares.String())
	assert.Equal(t, "1500", p.TotalPrincipal.String())
	assert.Equal(t, "1000", alice.Shares.String())
	assert.Equal(t, "500", bob.Shares.String())
}

func TestDeposit_Rejects(t *testing.T) {
	p := &ledger.Pool{}
	_, err := Deposit(p, &ledger.Holder{}, fixed.Zero())
	assert.True(t, reverts.IsReason(err, reverts.InvalidAmount))

	// one share unit is worth more than MaxSharePrice units.
	p = &ledger.Pool{
		TotalShares:    fixed.MustParse("0.000000000000000001"),
		TotalPrincipal: units(1_000_000_000_000_000_000),
	}
	_, err = Deposit(p, &ledger.Holder{}, units(1))
	assert.True(t, reverts.IsReason(err, reverts.InvalidAmount))

	p = &ledger.Pool{TotalPrincipal: units(5)}
	_, err = Deposit(p, &ledger.Holder{}, units(1))
	var ie *reverts.InvariantError
	assert.ErrorAs(t, err, &ie)
}

func TestDeposit_MultiplyFirst(t *testing.T) {
	// 3 shares backed by 10 units: price 3.333.. Dividing first would lose precision.
	p := &ledger.Pool{TotalShares: units(3), TotalPrincipal: units(10)}
	h := &ledger.Holder{}
	minted, err := Deposit(p, h, units(10))
	require.NoError(t, err)
	assert.Equal(t, "3", minted.String())
}

func TestWithdraw(t *testing.T) {
	p := &ledger.Pool{}
	alice, bob := &ledger.Holder{}, &ledger.Holder{}
	_, err := Deposit(p, alice, units(1000))
	require.NoError(t, err)
	_, err = Deposit(p, bob, units(500))
	require.NoError(t, err)

	_, err = Withdraw(p, bob, units(501))
	assert.True(t, reverts.IsReason(err, reverts.InsufficientShares))
	_, err = Withdraw(p, bob, fixed.Zero())
	assert.True(t, reverts.IsReason(err, reverts.InvalidAmount))

	out, err := Withdraw(p, bob, units(500))
	require.NoError(t, err)
	assert.Equal(t, "500", out.String())
	assert.True(t, bob.Shares.IsZero())

	out, err = Withdraw(p, alice, units(1000))
	require.NoError(t, err)
	assert.Equal(t, "1000", out.String())
	assert.True(t, p.TotalShares.IsZero())
	assert.True(t, p.TotalPrincipal.IsZero())
}

func TestWithdraw_RoundsDownAndLastGetsRest(t *testing.T) {
	p := &ledger.Pool{TotalShares: units(3), TotalPrincipal: units(10)}
	a := &ledger.Holder{Shares: units(1)}
	b := &ledger.Holder{Shares: units(2)}

	out, err := Withdraw(p, a, units(1))
	require.NoError(t, err)
	assert.Equal(t, "3", out.String(), "floor(10/3)")

	out, err = Withdraw(p, b, units(2))
	require.NoError(t, err)
	assert.Equal(t, "7", out.String(), "the last share takes the remainder")
	require.NoError(t, CheckPool(p))
}

func TestWithdraw_FractionalPrice(t *testing.T) {
	p := &ledger.Pool{}
	alice, bob := &ledger.Holder{}, &ledger.Holder{}
	_, err := Deposit(p, alice, units(4))
	require.NoError(t, err)

	out, err := Withdraw(p, alice, fixed.MustParse("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())
	price, err := SharePrice(p)
	require.NoError(t, err)
	assert.Equal(t, "1.2", price.String())

	minted, err := Deposit(p, bob, units(1))
	require.NoError(t, err)
	assert.Equal(t, "0.833333333333333334", minted.String(), "minting rounds up")

	// alice burning 0.5 shares is worth 0.6 units: nothing to pay, nothing burnt.
	before, beforeAlice := *p, *alice
	_, err = Withdraw(p, alice, fixed.MustParse("0.5"))
	assert.True(t, reverts.IsReason(err, reverts.InvalidAmount))
	assert.Equal(t, before, *p)
	assert.Equal(t, beforeAlice, *alice)

	out, err = Withdraw(p, bob, minted)
	require.NoError(t, err)
	assert.Equal(t, "1", out.String(), "bob gets his deposit back")
	assert.True(t, bob.Shares.IsZero())

	out, err = Withdraw(p, alice, alice.Shares)
	require.NoError(t, err)
	assert.Equal(t, "3", out.String())
	require.NoError(t, CheckPool(p))
	assert.True(t, p.TotalPrincipal.IsZero())
}

func TestWithdraw_ClosingDustPosition(t *testing.T) {
	// two holders worth half a unit each: the first to leave forfeits, the last takes the unit.
	p := &ledger.Pool{TotalShares: units(1), TotalPrincipal: units(1)}
	a := &ledger.Holder{Shares: fixed.MustParse("0.5")}
	b := &ledger.Holder{Shares: fixed.MustParse("0.5")}

	_, err := Withdraw(p, a, fixed.MustParse("0.25"))
	assert.True(t, reverts.IsReason(err, reverts.InvalidAmount))

	out, err := Withdraw(p, a, a.Shares)
	require.NoError(t, err)
	assert.True(t, out.IsZero())

	out, err = Withdraw(p, b, b.Shares)
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())
	require.NoError(t, CheckPool(p))
}

// A deposit withdrawn again right away returns exactly the deposit, at any price up to MaxSharePrice.
func TestDepositWithdrawRoundTrip(t *testing.T) {
	pools := []struct{ shares, principal string }{
		{"2.5", "3"},
		{"3.333333333333333334", "4"},
		{"7", "3"},
		{"3", "10"},
		{"1000.000000000000000001", "1000"},
		{"0.999999999999999999", "1"},
		{"0.000000001", "1"},
	}
	amounts := []uint64{1, 2, 7, 1000, 123_456_789, 1_000_000_000_000_000_000}

	for _, tt := range pools {
		for _, amount := range amounts {
			p := &ledger.Pool{TotalShares: fixed.MustParse(tt.shares), TotalPrincipal: fixed.MustParse(tt.principal)}
			before := *p
			h := &ledger.Holder{}

			minted, err := Deposit(p, h, units(amount))
			require.NoError(t, err, "pool %v", tt)
			out, err := Withdraw(p, h, minted)
			require.NoError(t, err, "pool %v", tt)

			assert.Equal(t, units(amount).String(), out.String(), "pool %v amount %d", tt, amount)
			assert.Equal(t, before.TotalPrincipal, p.TotalPrincipal, "pool %v amount %d", tt, amount)
			assert.Equal(t, before.TotalShares, p.TotalShares, "pool %v amount %d", tt, amount)
		}
	}
}

func TestSharesForAmount(t *testing.T) {
	p := &ledger.Pool{TotalShares: units(3), TotalPrincipal: units(10)}
	burn, err := SharesForAmount(p, units(5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", burn.String())

	burn, err = SharesForAmount(p, units(1))
	require.NoError(t, err)
	assert.Equal(t, "0.3", burn.String())

	p = &ledger.Pool{TotalShares: units(7), TotalPrincipal: units(3)}
	burn, err = SharesForAmount(p, units(1))
	require.NoError(t, err)
	assert.Equal(t, "2.333333333333333334", burn.String(), "rounded up")

	h := &ledger.Holder{Shares: units(7)}
	out, err := Withdraw(p, h, burn)
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())

	_, err = SharesForAmount(p, units(100))
	assert.True(t, reverts.IsReason(err, reverts.InsufficientShares))
}

func TestCheckPool(t *testing.T) {
	assert.NoError(t, CheckPool(&ledger.Pool{}))
	assert.NoError(t, CheckPool(&ledger.Pool{TotalShares: units(1), TotalPrincipal: units(1)}))
	assert.Error(t, CheckPool(&ledger.Pool{TotalShares: units(1)}))
	assert.Error(t, CheckPool(&ledger.Pool{TotalPrincipal: units(1)}))
	assert.Error(t, CheckPool(&ledger.Pool{TotalShares: units(1), TotalPrincipal: fixed.MustParse("1.5")}))

	assert.Error(t, CheckHolder(&ledger.Pool{TotalShares: units(1)}, &ledger.Holder{Shares: units(2)}))
}

// Random deposit/withdraw sequences conserve principal: what holders can take out never
// exceeds what they put in, and the pool drains to exactly zero.
func TestConservation(t *testing.T) {
	f := fuzz.NewWithSeed(42).NilChance(0)
	for round := range 50 {
		p := &ledger.Pool{}
		holders := make([]*ledger.Holder, 4)
		for i := range holders {
			holders[i] = &ledger.Holder{}
		}
		var in, out uint64

		for range 40 {
			var (
				who    uint8
				amount uint16
				action bool
			)
			f.Fuzz(&who)
			f.Fuzz(&amount)
			f.Fuzz(&action)
			h := holders[int(who)%len(holders)]

			if action || h.Shares.IsZero() {
				if amount == 0 {
					continue
				}
				if _, err := Deposit(p, h, units(uint64(amount))); err == nil {
					in += uint64(amount)
				}
				continue
			}
			part, err := fixed.MulDiv(h.Shares, units(uint64(amount%100)+1), units(100))
			require.NoError(t, err)
			if part.IsZero() {
				continue
			}
			got, err := Withdraw(p, h, part)
			if reverts.IsReason(err, reverts.InvalidAmount) {
				continue // worth less than a unit
			}
			require.NoError(t, err)
			out += got.Units().Uint64()
			require.NoError(t, CheckPool(p), "round %d", round)
		}

		for _, h := range holders {
			if h.Shares.IsZero() {
				continue
			}
			got, err := Withdraw(p, h, h.Shares)
			require.NoError(t, err)
			out += got.Units().Uint64()
		}
		assert.Equal(t, in, out, "round %d", round)
		assert.True(t, p.TotalShares.IsZero())
		assert.True(t, p.TotalPrincipal.IsZero())
	}
}
