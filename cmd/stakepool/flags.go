// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/forgestake/stakepool/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the pool database",
		EnvVar: "STAKEPOOL_DATA_DIR",
	}
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path of the YAML pool config",
		EnvVar: "STAKEPOOL_CONFIG",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelWarn,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "also print the encoded response",
	}

	callerFlag = cli.StringFlag{
		Name:  "from",
		Usage: "caller id as block:tx",
	}
	holderFlag = cli.StringFlag{
		Name:  "holder",
		Usage: "holder id as block:tx",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "receiver id as block:tx",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "whole units of the staked asset",
	}
	sharesFlag = cli.StringFlag{
		Name:  "shares",
		Usage: "shares to burn, up to 18 decimals",
	}
	heightFlag = cli.Uint64Flag{
		Name:  "height",
		Usage: "block height of the call, defaults to the next height",
	}
)
