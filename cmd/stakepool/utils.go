// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/forgestake/stakepool/codec"
	"github.com/forgestake/stakepool/config"
	"github.com/forgestake/stakepool/host"
	"github.com/forgestake/stakepool/kv"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/log"
	"github.com/forgestake/stakepool/lvldb"
	"github.com/forgestake/stakepool/pool"
)

const metaBucket = kv.Bucket("/meta/")

var tipKey = []byte("tip")

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stakepool")
}

func initLogger(ctx *cli.Context) {
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.TerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(handler)
}

// node is an opened pool database with its runtime.
type node struct {
	cfg  *config.Config
	db   kv.StoreCloser
	rt   *host.Runtime
	meta kv.Store
}

func openNode(ctx *cli.Context) (*node, error) {
	cfg, err := config.Load(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "-config")
	}

	dataDir := cfg.DataDir
	if ctx.GlobalIsSet(dataDirFlag.Name) || dataDir == "" {
		dataDir = ctx.GlobalString(dataDirFlag.Name)
	}
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}

	dir := filepath.Join(dataDir, "pool.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: 16, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.Wrapf(err, "open pool database at '%v'", dir)
	}
	log.Info("database opened", "dir", dir, "contract", cfg.Contract, "asset", cfg.Asset)
	return newNode(cfg, db), nil
}

func newNode(cfg *config.Config, db kv.StoreCloser) *node {
	return &node{
		cfg:  cfg,
		db:   db,
		rt:   host.New(db, pool.NewDispatcher(cfg.Params()), cfg.Host.FuelLimit),
		meta: metaBucket.NewStore(db),
	}
}

func (n *node) Close() error {
	return n.db.Close()
}

// tip returns the height of the last mutating call.
func (n *node) tip() (uint64, error) {
	val, err := n.meta.Get(tipKey)
	if err != nil {
		if n.meta.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "load tip")
	}
	return binary.BigEndian.Uint64(val), nil
}

func (n *node) setTip(height uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], height)
	return errors.Wrap(n.meta.Put(tipKey, b[:]), "save tip")
}

func (n *node) height(ctx *cli.Context) (uint64, error) {
	if h := ctx.Uint64(heightFlag.Name); h != 0 {
		return h, nil
	}
	tip, err := n.tip()
	if err != nil {
		return 0, err
	}
	return tip + 1, nil
}

func idFlag(ctx *cli.Context, name string) (ledger.ID, error) {
	s := ctx.String(name)
	if s == "" {
		return ledger.ID{}, errors.Errorf("-%s is required", name)
	}
	id, err := ledger.ParseID(s)
	if err != nil {
		return ledger.ID{}, errors.Wrap(err, "-"+name)
	}
	return id, nil
}

func printResponse(w io.Writer, op pool.Opcode, resp []byte, raw bool) error {
	if raw {
		fmt.Fprintln(w, "raw:", hexutil.Encode(resp))
	}
	res, err := codec.DecodeResponse(op, resp)
	if err != nil {
		return err
	}
	return printNode(w, resultNode(op, res))
}

func printNode(w io.Writer, n *yaml.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}

type mapping struct {
	node yaml.Node
}

func newMapping() *mapping {
	return &mapping{node: yaml.Node{Kind: yaml.MappingNode}}
}

func (m *mapping) add(key string, val any) *mapping {
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(val)},
	)
	return m
}

func resultNode(op pool.Opcode, res pool.Result) *yaml.Node {
	m := newMapping().add("op", op)

	switch r := res.(type) {
	case pool.InitializeResult:
		m.add("asset", r.Asset).add("owner", r.Owner)
	case pool.DepositResult:
		m.add("minted", r.Minted).add("shares", r.Shares)
	case pool.WithdrawResult:
		m.add("burned", r.Burned).
			add("principal", &r.Principal).
			add("reward", &r.Reward).
			add("shares", r.Shares)
	case pool.InjectResult:
		m.add("rewardIndex", r.RewardIndex).add("pendingReward", r.PendingReward)
	case pool.ClaimResult:
		m.add("reward", &r.Reward)
	case pool.PoolView:
		p := &r.Pool
		m.add("asset", p.Asset).
			add("owner", p.Owner).
			add("totalShares", p.TotalShares).
			add("totalPrincipal", p.TotalPrincipal).
			add("rewardIndex", p.RewardIndex).
			add("rewardBalance", p.RewardBalance).
			add("pendingReward", p.PendingReward).
			add("lastUpdateHeight", p.LastUpdateHeight).
			add("sharePrice", r.SharePrice)
	case pool.HolderView:
		m.add("holder", r.Holder).
			add("shares", r.Shares).
			add("value", r.Value).
			add("claimable", r.Claimable).
			add("unlockHeight", r.UnlockHeight)
	case pool.PriceView:
		m.add("price", r.Price)
	case pool.TextResult:
		m.add("text", r.Text)
	case pool.SupplyResult:
		m.add("totalShares", r.TotalShares)
	}
	return &m.node
}
