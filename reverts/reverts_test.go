// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/forgestake/stakepool/fixed"
)

func Test_Reverts(t *testing.T) {
	revert := New(InvalidAmount, "zero")
	assert.Equal(t, "invalid amount: zero", revert.Error())
	assert.Equal(t, "unauthorized", New(Unauthorized, "").Error())
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		code uint8
	}{
		{nil, CodeOK},
		{errors.New("boom"), CodeInternal},
		{New(MalformedPayload, ""), 21},
		{New(UnknownHolder, ""), 29},
		{New(Locked, "until 9"), 30},
		{errors.Wrap(New(StaleHeight, "h"), "dispatch"), 28},
		{Invariant("shares %d", 1), CodeInvariant},
		{Storage(errors.New("disk"), "load pool"), CodeStorage},
		{fixed.ErrDivisionByZero, CodeDivisionByZero},
		{errors.Wrap(fixed.ErrOverflow, "mint"), CodeOverflow},
		{fixed.ErrUnderflow, CodeUnderflow},
		{fixed.ErrScaleMismatch, CodeScaleMismatch},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err), "%v", tt.err)
	}
}

func TestStorage(t *testing.T) {
	assert.Nil(t, Storage(nil, "noop"))

	cause := errors.New("disk full")
	err := Storage(cause, "save holder")
	assert.Equal(t, "storage: save holder: disk full", err.Error())
	assert.Equal(t, cause, errors.Cause(errors.Unwrap(err)))
}

func TestReasonOf(t *testing.T) {
	r, ok := ReasonOf(errors.Wrap(New(NoShareholders, ""), "inject"))
	assert.True(t, ok)
	assert.Equal(t, NoShareholders, r)
	assert.True(t, IsReason(New(NoShareholders, ""), NoShareholders))

	_, ok = ReasonOf(Invariant("x"))
	assert.False(t, ok)
	assert.Equal(t, "reason(99)", Reason(99).String())
}
