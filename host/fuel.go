// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package host

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fuel costs.
const (
	FuelCall        uint64 = 100
	FuelPayloadByte uint64 = 1
	FuelLoad        uint64 = 20
	FuelStoreSet    uint64 = 200
	FuelStoreReset  uint64 = 50
	FuelBalance     uint64 = 40
)

// ErrOutOfFuel aborts a call that used up its fuel limit.
var ErrOutOfFuel = errors.New("out of fuel")

// Charger meters the fuel of one call.
type Charger struct {
	limit uint64
	used  uint64

	loads       uint64
	storeSets   uint64
	storeResets uint64
	balanceOps  uint64
	custom      uint64
}

// NewCharger creates a charger allowing limit fuel. A zero limit is unlimited.
func NewCharger(limit uint64) *Charger {
	return &Charger{limit: limit}
}

// Charge uses fuel. Once the limit is passed every charge fails with ErrOutOfFuel.
func (c *Charger) Charge(fuel uint64) error {
	c.custom += fuel
	return c.use(fuel)
}

func (c *Charger) load() error {
	c.loads++
	return c.use(FuelLoad)
}

func (c *Charger) store(set bool) error {
	if set {
		c.storeSets++
		return c.use(FuelStoreSet)
	}
	c.storeResets++
	return c.use(FuelStoreReset)
}

func (c *Charger) balance() error {
	c.balanceOps++
	return c.use(FuelBalance)
}

func (c *Charger) use(fuel uint64) error {
	if c.limit == 0 {
		c.used += fuel
		return nil
	}
	if c.Exhausted() || fuel > c.limit-c.used {
		c.used = c.limit + 1
		return ErrOutOfFuel
	}
	c.used += fuel
	return nil
}

// Exhausted reports whether a charge has failed.
func (c *Charger) Exhausted() bool {
	return c.limit != 0 && c.used > c.limit
}

// Used returns the fuel used so far, capped at the limit.
func (c *Charger) Used() uint64 {
	if c.Exhausted() {
		return c.limit
	}
	return c.used
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"LOAD: %d ops (%d fuel) | STORE_SET: %d ops (%d fuel) | STORE_RESET: %d ops (%d fuel) | BALANCE: %d ops (%d fuel) | CUSTOM: %d fuel | TOTAL: %d fuel",
		c.loads,
		c.loads*FuelLoad,
		c.storeSets,
		c.storeSets*FuelStoreSet,
		c.storeResets,
		c.storeResets*FuelStoreReset,
		c.balanceOps,
		c.balanceOps*FuelBalance,
		c.custom,
		c.Used(),
	)
}
