// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, kvs ...string) *MemStore {
	m := NewMemStore()
	for i := 0; i+1 < len(kvs); i += 2 {
		require.NoError(t, m.Put([]byte(kvs[i]), []byte(kvs[i+1])))
	}
	return m
}

func TestBucket_GetterGet(t *testing.T) {
	m := seed(t, "k1", "v1", "k2", "v2")

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket(""), "k2", "v2"},
		{Bucket("k"), "k1", ""},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, err := tt.b.NewGetter(m).Get([]byte(tt.key))
			if tt.want == "" {
				assert.True(t, m.IsNotFound(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestBucket_GetterHas(t *testing.T) {
	m := seed(t, "k1", "v1", "k2", "v2")

	tests := []struct {
		b    Bucket
		key  string
		want bool
	}{
		{Bucket(""), "k1", true},
		{Bucket(""), "k2", true},
		{Bucket("k"), "k1", false},
		{Bucket("k"), "1", true},
		{Bucket("k"), "2", true},
		{Bucket("k1"), "", true},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, err := tt.b.NewGetter(m).Has([]byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket_GetPutter(t *testing.T) {
	m := NewMemStore()
	gp := Bucket("/holders/").NewGetPutter(m)

	require.NoError(t, gp.Put([]byte("a"), []byte("1")))
	val, err := m.Get([]byte("/holders/a"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(val))

	require.NoError(t, gp.Delete([]byte("a")))
	ok, err := m.Has([]byte("/holders/a"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, Bucket("/pool/holders/"), Bucket("/pool").Sub("/holders/"))
}

func TestBucket_StoreIterate(t *testing.T) {
	m := seed(t, "a1", "x", "b1", "y", "b2", "z", "c1", "w")
	st := Bucket("b").NewStore(m)

	it := st.Iterate(Range{})
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"1", "2"}, keys)

	bulk := st.Bulk()
	require.NoError(t, bulk.Put([]byte("3"), []byte("v")))
	ok, _ := m.Has([]byte("b3"))
	assert.False(t, ok, "bulk must not write before Write")
	require.NoError(t, bulk.Write())
	ok, _ = m.Has([]byte("b3"))
	assert.True(t, ok)

	snap := st.Snapshot()
	defer snap.Release()
	require.NoError(t, st.Delete([]byte("1")))
	val, err := snap.Get([]byte("1"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(val))
}
