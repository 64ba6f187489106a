// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, IsNotFound(err))
	}
}

func TestLevelDBBatchAndBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	a, b := Bucket("a"), Bucket("b")
	batch := db.NewBatch()
	batch.Put(a.Key([]byte{2}), []byte("a2"))
	batch.Put(a.Key([]byte{1}), []byte("a1"))
	batch.Put(b.Key([]byte{1}), []byte("b1"))
	assert.Equal(t, 3, batch.Len())

	_, err = db.Get(a.Key([]byte{1}))
	assert.True(t, IsNotFound(err), "batch not written yet")
	require.NoError(t, batch.Write())

	var values []string
	require.NoError(t, db.Iterate([]byte(a), func(_, v []byte) bool {
		values = append(values, string(v))
		return true
	}))
	assert.Equal(t, []string{"a1", "a2"}, values)

	values = values[:0]
	require.NoError(t, db.Iterate([]byte(a), func(_, v []byte) bool {
		values = append(values, string(v))
		return false
	}))
	assert.Equal(t, []string{"a1"}, values)
}
