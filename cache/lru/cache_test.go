// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/evmindex/ids"
)

func TestCacheEviction(t *testing.T) {
	require := require.New(t)

	c := NewCache[ids.ID, int](2)

	id1 := ids.ID{1}
	id2 := ids.ID{2}
	id3 := ids.ID{3}

	c.Put(id1, 1)
	c.Put(id2, 2)
	require.Equal(2, c.Len())
	require.Equal(1.0, c.PortionFilled())

	// id1 becomes the most recently used entry.
	val, ok := c.Get(id1)
	require.True(ok)
	require.Equal(1, val)

	c.Put(id3, 3)
	require.Equal(2, c.Len())

	_, ok = c.Get(id2)
	require.False(ok)
	val, ok = c.Get(id1)
	require.True(ok)
	require.Equal(1, val)
	val, ok = c.Get(id3)
	require.True(ok)
	require.Equal(3, val)
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	require := require.New(t)

	c := NewCache[ids.ID, int](2)
	c.Put(ids.ID{1}, 1)
	c.Put(ids.ID{2}, 2)
	c.Put(ids.ID{2}, 3)

	val, ok := c.Get(ids.ID{1})
	require.True(ok)
	require.Equal(1, val)
	val, ok = c.Get(ids.ID{2})
	require.True(ok)
	require.Equal(3, val)
}

func TestCacheEvictAndFlush(t *testing.T) {
	require := require.New(t)

	c := NewCache[ids.ID, int](0)
	c.Put(ids.ID{1}, 1)
	c.Put(ids.ID{2}, 2)
	require.Equal(1, c.Len())

	c.Evict(ids.ID{2})
	require.Zero(c.Len())

	c.Put(ids.ID{3}, 3)
	c.Flush()
	require.Zero(c.Len())
	_, ok := c.Get(ids.ID{3})
	require.False(ok)
}
