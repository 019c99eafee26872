// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/forgestake/stakepool/codec"
	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/host"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/pool"
)

// script is a replayable list of calls. Either every step matches its expectation
// and the whole script is committed, or nothing is.
type script struct {
	Mint []struct {
		To     ledger.ID `yaml:"to"`
		Amount uint64    `yaml:"amount"`
	} `yaml:"mint"`
	Steps []step `yaml:"steps"`
	// Pool lists expected fields of the pool query after the last step.
	Pool map[string]string `yaml:"pool"`
}

type step struct {
	Op     string        `yaml:"op"`
	From   ledger.ID     `yaml:"from"`
	Holder ledger.ID     `yaml:"holder"`
	Amount uint64        `yaml:"amount"`
	Shares fixed.Decimal `yaml:"shares"`
	Height uint64        `yaml:"height"`
	Expect string        `yaml:"expect"`
}

func (st *step) call(asset ledger.ID) (pool.Call, error) {
	op, ok := pool.ParseOpcode(st.Op)
	if !ok {
		return nil, errors.Errorf("unknown op %q", st.Op)
	}
	return st.callOf(op, asset)
}

func (st *step) callOf(op pool.Opcode, asset ledger.ID) (pool.Call, error) {
	amount := *uint256.NewInt(st.Amount)

	switch op {
	case pool.OpInitialize:
		return pool.Initialize{Asset: asset}, nil
	case pool.OpDeposit:
		return pool.Deposit{Amount: amount}, nil
	case pool.OpWithdraw:
		return pool.Withdraw{Shares: st.Shares}, nil
	case pool.OpRedeem:
		return pool.Redeem{Amount: amount}, nil
	case pool.OpInjectReward:
		return pool.InjectReward{Amount: amount}, nil
	case pool.OpClaim:
		return pool.Claim{}, nil
	case pool.OpQueryPool:
		return pool.QueryPool{}, nil
	case pool.OpQueryHolder:
		holder := st.Holder
		if holder.IsZero() {
			holder = st.From
		}
		return pool.QueryHolder{Holder: holder}, nil
	case pool.OpQuerySharePrice:
		return pool.QuerySharePrice{}, nil
	case pool.OpGetName:
		return pool.GetName{}, nil
	case pool.OpGetSymbol:
		return pool.GetSymbol{}, nil
	case pool.OpGetTotalSupply:
		return pool.GetTotalSupply{}, nil
	default:
		return nil, errors.Errorf("unsupported op %v", op)
	}
}

// outcome names a call result the way scripts expect it.
func outcome(err error) string {
	if errors.Is(err, host.ErrOutOfFuel) {
		return "out of fuel"
	}
	return pool.Outcome(err)
}

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	return &sc, nil
}

// replay runs sc in one session and commits it if every step turns out as expected.
// It returns the height of the last step.
func replay(n *node, sc *script, progress bool) (uint64, error) {
	s := n.rt.NewSession()
	defer s.Release()

	for _, m := range sc.Mint {
		if err := s.Mint(n.cfg.Asset, m.To, uint256.NewInt(m.Amount)); err != nil {
			return 0, errors.Wrapf(err, "mint %v", m.To)
		}
	}

	height, err := n.tip()
	if err != nil {
		return 0, err
	}

	bar := pb.New(len(sc.Steps)).SetMaxWidth(90)
	if progress {
		bar.Output = os.Stderr
	} else {
		bar.NotPrint = true
		bar.ManualUpdate = true
	}
	bar.Start()
	defer bar.Finish()

	for i := range sc.Steps {
		st := &sc.Steps[i]
		call, err := st.call(n.cfg.Asset)
		if err != nil {
			return 0, errors.Wrapf(err, "step %d", i)
		}
		if st.Height != 0 {
			height = st.Height
		} else {
			height++
		}

		_, err = s.Execute(n.cfg.Contract, st.From, height, codec.EncodeCall(call))
		want := st.Expect
		if want == "" {
			want = "ok"
		}
		if got := outcome(err); got != want {
			return 0, errors.Errorf("step %d %v: got %q, want %q", i, call.Opcode(), got, want)
		}
		bar.Increment()
	}

	if len(sc.Pool) > 0 {
		if err := checkPool(s, n.cfg.Contract, height, sc.Pool); err != nil {
			return 0, err
		}
	}
	if err := s.Commit(); err != nil {
		return 0, err
	}
	return height, nil
}

func checkPool(s *host.Session, contract ledger.ID, height uint64, want map[string]string) error {
	resp, err := s.Execute(contract, ledger.ID{}, height, codec.EncodeCall(pool.QueryPool{}))
	if err != nil {
		return errors.Wrap(err, "query pool")
	}
	res, err := codec.DecodeResponse(pool.OpQueryPool, resp)
	if err != nil {
		return err
	}

	got := make(map[string]string)
	fields := resultNode(pool.OpQueryPool, res).Content
	for i := 0; i+1 < len(fields); i += 2 {
		if _, ok := want[fields[i].Value]; ok {
			got[fields[i].Value] = fields[i+1].Value
		}
	}

	a, b := listing(want), listing(got)
	if a == b {
		return nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  1,
	})
	if err != nil {
		return err
	}
	return errors.Errorf("pool mismatch:\n%s", diff)
}

func listing(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s\n", k, m[k])
	}
	return sb.String()
}

func replayAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one script file")
	}
	sc, err := loadScript(ctx.Args().First())
	if err != nil {
		return err
	}

	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	tip, err := n.tip()
	if err != nil {
		return err
	}
	height, err := replay(n, sc, isatty.IsTerminal(os.Stderr.Fd()))
	if err != nil {
		return err
	}
	if height > tip {
		if err := n.setTip(height); err != nil {
			return err
		}
	}
	fmt.Printf("replayed %d steps, tip at %d\n", len(sc.Steps), height)
	return nil
}
