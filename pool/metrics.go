// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/forgestake/stakepool/metrics"
	"github.com/forgestake/stakepool/reverts"
)

var (
	metricCalls  = metrics.LazyLoadCounterVec("pool_calls_count", []string{"op", "outcome"})
	metricWrites = metrics.LazyLoadHistogram("pool_storage_writes", metrics.BucketStorageOps)
)

// Outcome names the result of a call as counted by the call metric.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if reason, ok := reverts.ReasonOf(err); ok {
		return reason.String()
	}
	switch reverts.Code(err) {
	case reverts.CodeInvariant:
		return "invariant"
	case reverts.CodeStorage:
		return "storage"
	case reverts.CodeInternal:
		return "internal"
	default:
		return "arithmetic"
	}
}
