// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/forgestake/stakepool/fixed"
	"github.com/forgestake/stakepool/ledger"
	"github.com/forgestake/stakepool/rewards"
	"github.com/forgestake/stakepool/shares"
)

type auditReport struct {
	pool     *ledger.Pool
	holders  int
	shares   fixed.Decimal
	owed     fixed.Decimal
	balance  *uint256.Int
	problems []string
}

func (r *auditReport) problem(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

// audit cross checks the committed pool record, its holder accounts and the contract's bank balance.
func audit(n *node) (*auditReport, error) {
	store := n.rt.ContractStore(n.cfg.Contract)
	p, err := ledger.NewStore(store).LoadPool()
	if err != nil {
		return nil, err
	}
	bal, err := n.rt.BalanceOf(n.cfg.Asset, n.cfg.Contract)
	if err != nil {
		return nil, err
	}

	r := &auditReport{pool: p, balance: bal}
	if !p.Initialized() {
		if !bal.IsZero() {
			r.problem("pool not initialized but holds %v", bal)
		}
		return r, nil
	}
	if err := shares.CheckPool(p); err != nil {
		r.problem("pool: %v", err)
	}

	err = ledger.Holders(store, func(id ledger.ID, h *ledger.Holder) error {
		r.holders++
		if err := shares.CheckHolder(p, h); err != nil {
			r.problem("holder %v: %v", id, err)
			return nil
		}
		owed, err := rewards.Preview(p, h)
		if err != nil {
			r.problem("holder %v: %v", id, err)
			return nil
		}
		if r.shares, err = r.shares.Add(h.Shares); err != nil {
			return err
		}
		r.owed, err = r.owed.Add(owed)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan holders")
	}

	if r.shares.Cmp(p.TotalShares) != 0 {
		r.problem("holder shares %v, pool total %v", r.shares, p.TotalShares)
	}
	if r.owed.Cmp(p.RewardBalance) > 0 {
		r.problem("owed rewards %v exceed reward balance %v", r.owed, p.RewardBalance)
	}
	held, err := p.TotalPrincipal.Add(p.RewardBalance)
	if err != nil {
		return nil, err
	}
	if held.Units().Cmp(bal) != 0 {
		r.problem("bank balance %v, pool accounts for %v", bal, held)
	}
	return r, nil
}

func auditAction(ctx *cli.Context) error {
	n, err := openNode(ctx)
	if err != nil {
		return err
	}
	defer n.Close()

	r, err := audit(n)
	if err != nil {
		return err
	}

	m := newMapping().
		add("contract", n.cfg.Contract).
		add("initialized", r.pool.Initialized()).
		add("holders", r.holders).
		add("shares", r.shares).
		add("owed", r.owed).
		add("balance", r.balance).
		add("problems", len(r.problems))
	if err := printNode(os.Stdout, &m.node); err != nil {
		return err
	}
	for _, p := range r.problems {
		fmt.Fprintln(os.Stderr, "problem:", p)
	}
	if len(r.problems) > 0 {
		return errors.Errorf("audit found %d problem(s)", len(r.problems))
	}
	return nil
}
