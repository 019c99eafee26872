// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// stakepool drives a staking pool contract stored in a local database.
package main

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/forgestake/stakepool/codec"
	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/metrics"
	"github.com/forgestake/stakepool/pool"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	flags = []cli.Flag{
		dataDirFlag,
		configFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
	}

	callFlags = []cli.Flag{
		callerFlag,
		heightFlag,
		rawFlag,
	}

	stopMetrics = func() {}
)

func main() {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	app := cli.App{
		Version:   fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta),
		Name:      "Stakepool",
		Usage:     "Share based staking pool with reward distribution",
		Copyright: fmt.Sprintf("2025-%s The VeChainThor developers", copyrightYear),
		Flags:     flags,
		Before:    before,
		After:     after,
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the pool, the caller becomes its owner",
				Flags:  callFlags,
				Action: callAction(func(n *node, _ *cli.Context) (pool.Call, error) { return pool.Initialize{Asset: n.cfg.Asset}, nil }),
			},
			{
				Name:   "mint",
				Usage:  "credit units of the staked asset to an account",
				Flags:  []cli.Flag{toFlag, amountFlag},
				Action: mintAction,
			},
			{
				Name:   "deposit",
				Usage:  "deposit units and receive shares",
				Flags:  append([]cli.Flag{amountFlag}, callFlags...),
				Action: callAction(amountCall(func(a uint256.Int) pool.Call { return pool.Deposit{Amount: a} })),
			},
			{
				Name:   "withdraw",
				Usage:  "burn shares for principal and rewards",
				Flags:  append([]cli.Flag{sharesFlag}, callFlags...),
				Action: callAction(withdrawCall),
			},
			{
				Name:   "redeem",
				Usage:  "withdraw an amount of principal",
				Flags:  append([]cli.Flag{amountFlag}, callFlags...),
				Action: callAction(amountCall(func(a uint256.Int) pool.Call { return pool.Redeem{Amount: a} })),
			},
			{
				Name:   "inject",
				Usage:  "inject rewards, owner only",
				Flags:  append([]cli.Flag{amountFlag}, callFlags...),
				Action: callAction(amountCall(func(a uint256.Int) pool.Call { return pool.InjectReward{Amount: a} })),
			},
			{
				Name:   "claim",
				Usage:  "pay out the caller's rewards",
				Flags:  callFlags,
				Action: callAction(func(*node, *cli.Context) (pool.Call, error) { return pool.Claim{}, nil }),
			},
			{
				Name:  "query",
				Usage: "read pool state",
				Subcommands: []cli.Command{
					queryCommand("pool", "pool totals and share price", pool.QueryPool{}),
					{
						Name:   "holder",
						Usage:  "shares and claimable rewards of a holder",
						Flags:  append([]cli.Flag{holderFlag}, callFlags...),
						Action: callAction(holderCall),
					},
					queryCommand("price", "value of one share", pool.QuerySharePrice{}),
					queryCommand("name", "share token name", pool.GetName{}),
					queryCommand("symbol", "share token symbol", pool.GetSymbol{}),
					queryCommand("supply", "total shares", pool.GetTotalSupply{}),
				},
			},
			{
				Name:   "balance",
				Usage:  "committed asset balance of an account",
				Flags:  []cli.Flag{holderFlag},
				Action: balanceAction,
			},
			{
				Name:   "audit",
				Usage:  "check the stored pool against its holders and the bank",
				Action: auditAction,
			},
			{
				Name:      "replay",
				Usage:     "run a YAML script of calls atomically",
				ArgsUsage: "<script.yaml>",
				Action:    replayAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func before(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.GlobalBool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.GlobalString(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		log.Info("metrics server started", "url", url)
		stopMetrics = closeFunc
	}
	return nil
}

func after(*cli.Context) error {
	stopMetrics()
	return nil
}

func queryCommand(name, usage string, call pool.Call) cli.Command {
	return cli.Command{
		Name:   name,
		Usage:  usage,
		Flags:  callFlags,
		Action: callAction(func(*node, *cli.Context) (pool.Call, error) { return call, nil }),
	}
}

func amountCall(build func(uint256.Int) pool.Call) func(*node, *cli.Context) (pool.Call, error) {
	return func(_ *node, ctx *cli.Context) (pool.Call, error) {
		if !ctx.IsSet(amountFlag.Name) {
			return nil, errors.Errorf("-%s is required", amountFlag.Name)
		}
		return build(*uint256.NewInt(ctx.Uint64(amountFlag.Name))), nil
	}
}

func withdrawCall(_ *node, ctx *cli.Context) (pool.Call, error) {
	shares, err := fixed.Parse(ctx.String(sharesFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "-"+sharesFlag.Name)
	}
	return pool.Withdraw{Shares: shares}, nil
}

func holderCall(_ *node, ctx *cli.Context) (pool.Call, error) {
	name := holderFlag.Name
	if !ctx.IsSet(name) {
		name = callerFlag.Name
	}
	id, err := idFlag(ctx, name)
	if err != nil {
		return nil, err
	}
	return pool.QueryHolder{Holder: id}, nil
}

// callAction executes the built call as a single transaction at the next height.
func callAction(build func(*node, *cli.Context) (pool.Call, error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		n, err := openNode(ctx)
		if err != nil {
			return err
		}
		defer n.Close()

		call, err := build(n, ctx)
		if err != nil {
			return err
		}

		var caller ledger.ID
		if pool.Mutating(call) || ctx.IsSet(callerFlag.Name) {
			if caller, err = idFlag(ctx, callerFlag.Name); err != nil {
				return err
			}
		}
		height, err := n.height(ctx)
		if err != nil {
			return err
		}

		resp, err := n.rt.Execute(n.cfg.Contract, caller, height, codec.EncodeCall(call))
		if err != nil {
			if ctx.Bool(rawFlag.Name) {
				return errors.Wrapf(err, "%v reverted with %x", call.Opcode(), resp)
			}
			return errors.Wrapf(err, "%v reverted", call.Opcode())
		}
		if pool.Mutating(call) {
			tip, err := n.tip()
			if err != nil {
				return err
			}
			if height > tip {
				if err := n.setTip(height); err != nil {
					return err
				}
			}
		}
		return printResponse(os.Stdout, call.Opcode(), resp, ctx.Bool(rawFlag.Name))
	}
}

func mintAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	to, err := idFlag(ctx, toFlag.Name)
	if err != nil {
		return err
	}
	amount := uint256.NewInt(ctx.Uint64(amountFlag.Name))

	s := n.rt.NewSession()
	defer s.Release()
	if err := s.Mint(n.cfg.Asset, to, amount); err != nil {
		return errors.Wrap(err, "mint")
	}
	if err := s.Commit(); err != nil {
		return err
	}
	return balanceOf(n, to)
}

func balanceAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	id, err := idFlag(ctx, holderFlag.Name)
	if err != nil {
		return err
	}
	return balanceOf(n, id)
}

func balanceOf(n *node, id ledger.ID) error {
	bal, err := n.rt.BalanceOf(n.cfg.Asset, id)
	if err != nil {
		return err
	}
	return printNode(os.Stdout, &newMapping().add("account", id).add("asset", n.cfg.Asset).add("balance", bal).node)
}
