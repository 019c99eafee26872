// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/pkg/errors"
)

// Policy is the treatment of rewards injected while no shares exist.
type Policy uint8

const (
	// PolicyReject fails the injection with NoShareholders.
	PolicyReject Policy = iota
	// PolicyPending keeps the reward aside for the first depositor.
	PolicyPending
)

// ParsePolicy parses "reject" or "pending". The empty string is PolicyReject.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reject":
		return PolicyReject, nil
	case "pending":
		return PolicyPending, nil
	default:
		return 0, errors.Errorf("unknown zero-shareholder policy %q", s)
	}
}

func (p Policy) String() string {
	if p == PolicyPending {
		return "pending"
	}
	return "reject"
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
