// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// DiscardHandler returns a handler that drops every record.
func DiscardHandler() slog.Handler {
	return discard{}
}

type discard struct{}

func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (d discard) WithGroup(string) slog.Handler           { return d }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }

// TerminalHandlerWithLevel returns a handler for humans reading a terminal, coloring levels when useColor is set.
// Records above lvl are dropped.
//
//	LEVEL [TIME] MESSAGE key=value key=value ...
func TerminalHandlerWithLevel(wr io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	h := ethlog.NewGlogHandler(ethlog.NewTerminalHandler(wr, useColor))
	h.Verbosity(lvl)
	return h
}

// JSONHandlerWithLevel returns a handler printing one JSON object per record at or above level.
func JSONHandlerWithLevel(wr io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replacer(false),
		Level:       level,
	})
}

// LogfmtHandlerWithLevel returns a handler printing key=value lines at or above level.
func LogfmtHandlerWithLevel(wr io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replacer(true),
		Level:       level,
	})
}

// replacer renames the time and level keys the way the terminal handler prints them,
// and renders amounts, ids and decimals as plain strings.
func replacer(logfmt bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() != slog.KindTime {
				break
			}
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		case slog.LevelKey:
			if l, ok := attr.Value.Any().(slog.Level); ok {
				return slog.String("lvl", LevelString(l))
			}
		}

		switch v := attr.Value.Any().(type) {
		case time.Time:
			if logfmt {
				attr.Value = slog.StringValue(v.Format(timeFormat))
			}
		case *uint256.Int:
			if v == nil {
				attr.Value = slog.StringValue("<nil>")
			} else {
				attr.Value = slog.StringValue(v.Dec())
			}
		case fmt.Stringer:
			attr.Value = slog.StringValue(stringOf(v))
		}
		return attr
	}
}

func stringOf(v fmt.Stringer) string {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "<nil>"
	}
	return v.String()
}
