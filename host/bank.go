// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/reverts"
)

const bankBucket = kv.Bucket("/bank/")

// bank keeps balances of every asset, keyed by asset then owner.
type bank struct {
	store   kv.GetPutter
	charger *Charger // nil outside calls
}

func newBank(src kv.GetPutter, charger *Charger) *bank {
	return &bank{store: bankBucket.NewGetPutter(src), charger: charger}
}

func balanceKey(asset, owner ledger.ID) []byte {
	return append(asset.Bytes(), owner.Bytes()...)
}

func (b *bank) BalanceOf(asset, owner ledger.ID) (*uint256.Int, error) {
	if b.charger != nil {
		if err := b.charger.balance(); err != nil {
			return nil, err
		}
	}
	val, err := b.store.Get(balanceKey(asset, owner))
	if err != nil {
		if b.store.IsNotFound(err) {
			return new(uint256.Int), nil
		}
		return nil, errors.Wrap(err, "load balance")
	}
	return new(uint256.Int).SetBytes(val), nil
}

func (b *bank) setBalance(asset, owner ledger.ID, bal *uint256.Int) error {
	if b.charger != nil {
		if err := b.charger.balance(); err != nil {
			return err
		}
	}
	key := balanceKey(asset, owner)
	if bal.IsZero() {
		return errors.Wrap(b.store.Delete(key), "save balance")
	}
	return errors.Wrap(b.store.Put(key, bal.Bytes()), "save balance")
}

// Transfer moves amount of asset from one owner to another.
func (b *bank) Transfer(asset, from, to ledger.ID, amount *uint256.Int) error {
	if from == to {
		return nil
	}
	fromBal, err := b.BalanceOf(asset, from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.Newf(reverts.InvalidAmount, "%v holds %v of %v, want %v", from, fromBal, asset, amount)
	}
	toBal, err := b.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(toBal, amount)
	if overflow {
		return reverts.Newf(reverts.InvalidAmount, "balance of %v overflows", to)
	}
	if err := b.setBalance(asset, from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return b.setBalance(asset, to, sum)
}

// Mint creates amount of asset for owner.
func (b *bank) Mint(asset, owner ledger.ID, amount *uint256.Int) error {
	bal, err := b.BalanceOf(asset, owner)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return reverts.Newf(reverts.InvalidAmount, "balance of %v overflows", owner)
	}
	return b.setBalance(asset, owner, sum)
}
