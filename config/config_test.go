// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/pool"
	"github.com/forgestake/stakepool/rewards"
)

const sample = `
contract: "4:77"
asset: "2:1"
pool:
  name: Forge Stake
  symbol: FSTK
  min_deposit: 1000
  zero_shareholder_policy: pending
  lock_period: 144
host:
  fuel_limit: 5000
data_dir: /var/lib/stakepool
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "stakepool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ledger.ID{Block: 4, Tx: 77}, cfg.Contract)
	assert.Equal(t, ledger.ID{Block: 2, Tx: 1}, cfg.Asset)
	assert.Equal(t, uint64(5000), cfg.Host.FuelLimit)
	assert.Equal(t, "/var/lib/stakepool", cfg.DataDir)
	assert.Equal(t, pool.Params{
		Name:       "Forge Stake",
		Symbol:     "FSTK",
		MinDeposit: fixed.FromUnits(1000),
		Policy:     rewards.PolicyPending,
		LockPeriod: 144,
	}, cfg.Params())
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultContract, cfg.Contract)
	assert.Equal(t, DefaultAsset, cfg.Asset)
	assert.Equal(t, DefaultFuelLimit, cfg.Host.FuelLimit)
	assert.Equal(t, pool.DefaultParams(), cfg.Params())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STAKEPOOL_CONTRACT", "9:9")
	t.Setenv("STAKEPOOL_SYMBOL", "ENV")
	t.Setenv("STAKEPOOL_MIN_DEPOSIT", "5")
	t.Setenv("STAKEPOOL_POLICY", "reject")
	t.Setenv("STAKEPOOL_FUEL_LIMIT", "42")
	t.Setenv("STAKEPOOL_LOCK_PERIOD", "0")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID{Block: 9, Tx: 9}, cfg.Contract)
	assert.Equal(t, "Forge Stake", cfg.Pool.Name, "file value kept")
	assert.Equal(t, "ENV", cfg.Pool.Symbol)
	assert.Equal(t, fixed.FromUnits(5), cfg.Pool.MinDeposit)
	assert.Equal(t, rewards.PolicyReject, cfg.Pool.Policy)
	assert.Equal(t, uint64(42), cfg.Host.FuelLimit)
	assert.Zero(t, cfg.Pool.LockPeriod, "env clears the file lock period")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "pool:\n  zero_shareholder_policy: sometimes\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "contract: nine\n"))
	assert.Error(t, err)

	t.Setenv("STAKEPOOL_LOCK_PERIOD", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("STAKEPOOL_LOCK_PERIOD", "")
	t.Setenv("STAKEPOOL_FUEL_LIMIT", "-1")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, "contract: \"2:0\"\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "contract equals the default asset")

	cfg, err = Load(writeConfig(t, "pool:\n  min_deposit: \"0.5\"\n"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}
