// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package config loads the deployment configuration of a pool.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/pool"
	"github.com/forgestake/stakepool/rewards"
)

// Defaults.
var (
	DefaultContract  = ledger.ID{Block: 4, Tx: 1}
	DefaultAsset     = ledger.ID{Block: 2, Tx: 0}
	DefaultFuelLimit = uint64(100_000)
)

// Config holds the pool deployment and host settings.
type Config struct {
	Contract ledger.ID `yaml:"contract"`
	Asset    ledger.ID `yaml:"asset"`
	Pool     struct {
		Name       string         `yaml:"name"`
		Symbol     string         `yaml:"symbol"`
		MinDeposit fixed.Decimal  `yaml:"min_deposit"`
		Policy     rewards.Policy `yaml:"zero_shareholder_policy"`
		LockPeriod uint64         `yaml:"lock_period"`
	} `yaml:"pool"`
	Host struct {
		FuelLimit uint64 `yaml:"fuel_limit"`
	} `yaml:"host"`
	DataDir string `yaml:"data_dir"`
}

// Load reads config from a YAML file, then applies environment variable overrides, then defaults.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STAKEPOOL_CONTRACT"); v != "" {
		id, err := ledger.ParseID(v)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_CONTRACT")
		}
		c.Contract = id
	}
	if v := os.Getenv("STAKEPOOL_ASSET"); v != "" {
		id, err := ledger.ParseID(v)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_ASSET")
		}
		c.Asset = id
	}
	if v := os.Getenv("STAKEPOOL_NAME"); v != "" {
		c.Pool.Name = v
	}
	if v := os.Getenv("STAKEPOOL_SYMBOL"); v != "" {
		c.Pool.Symbol = v
	}
	if v := os.Getenv("STAKEPOOL_MIN_DEPOSIT"); v != "" {
		d, err := fixed.Parse(v)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_MIN_DEPOSIT")
		}
		c.Pool.MinDeposit = d
	}
	if v := os.Getenv("STAKEPOOL_POLICY"); v != "" {
		p, err := rewards.ParsePolicy(v)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_POLICY")
		}
		c.Pool.Policy = p
	}
	if v := os.Getenv("STAKEPOOL_LOCK_PERIOD"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_LOCK_PERIOD")
		}
		c.Pool.LockPeriod = n
	}
	if v := os.Getenv("STAKEPOOL_FUEL_LIMIT"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "STAKEPOOL_FUEL_LIMIT")
		}
		c.Host.FuelLimit = n
	}
	if v := os.Getenv("STAKEPOOL_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	defaults := pool.DefaultParams()

	if c.Contract.IsZero() {
		c.Contract = DefaultContract
	}
	if c.Asset.IsZero() {
		c.Asset = DefaultAsset
	}
	if c.Pool.Name == "" {
		c.Pool.Name = defaults.Name
	}
	if c.Pool.Symbol == "" {
		c.Pool.Symbol = defaults.Symbol
	}
	if c.Pool.MinDeposit.IsZero() {
		c.Pool.MinDeposit = defaults.MinDeposit
	}
	if c.Host.FuelLimit == 0 {
		c.Host.FuelLimit = DefaultFuelLimit
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Contract == c.Asset {
		return errors.New("contract and asset must differ")
	}
	if !c.Pool.MinDeposit.IsInteger() {
		return errors.Errorf("pool.min_deposit %v must be whole units", c.Pool.MinDeposit)
	}
	return nil
}

// Params returns the pool parameters.
func (c *Config) Params() pool.Params {
	return pool.Params{
		Name:       c.Pool.Name,
		Symbol:     c.Pool.Symbol,
		MinDeposit: c.Pool.MinDeposit,
		Policy:     c.Pool.Policy,
		LockPeriod: c.Pool.LockPeriod,
	}
}
