// Copyright 2024 The go-unity Authors
// This file is part of the go-unity library.
//
// The go-unity library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-unity library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-unity library. If not, see <http://www.gnu.org/licenses/>.

package bloomchain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/unitychain/go-unity/core/types"
)

type memoryGroups map[GroupPosition]*types.BloomGroup

func (m memoryGroups) BloomsAt(pos GroupPosition) *types.BloomGroup {
	return m[pos]
}

func (m memoryGroups) apply(update map[GroupPosition]*types.BloomGroup) {
	for pos, group := range update {
		m[pos] = group
	}
}

func bloomOf(data ...string) types.Bloom {
	var b types.Bloom
	for _, d := range data {
		b.Add([]byte(d))
	}
	return b
}

func TestPositions(t *testing.T) {
	c := DefaultConfig
	require.Equal(t, Position{Level: 0, Index: 300}, c.position(300, 0))
	require.Equal(t, Position{Level: 1, Index: 18}, c.position(300, 1))
	require.Equal(t, Position{Level: 2, Index: 1}, c.position(300, 2))

	gp, slot := groupPosition(Position{Level: 1, Index: 18})
	require.Equal(t, GroupPosition{Level: 1, Index: 1}, gp)
	require.Equal(t, 2, slot)

	lower := c.lowerPositions(Position{Level: 2, Index: 1})
	require.Len(t, lower, 16)
	require.Equal(t, Position{Level: 1, Index: 16}, lower[0])
	require.Equal(t, Position{Level: 1, Index: 31}, lower[15])
}

func TestInsertAndQuery(t *testing.T) {
	var (
		db    = memoryGroups{}
		chain = New(DefaultConfig, db)
		b1    = bloomOf("alpha")
		b2    = bloomOf("beta")
	)
	db.apply(chain.Insert(23, b1))
	db.apply(chain.Insert(300, b2))
	db.apply(chain.Insert(301, b1))

	require.Equal(t, []uint64{23, 301}, chain.WithBloom(0, 1000, b1))
	require.Equal(t, []uint64{300}, chain.WithBloom(0, 1000, b2))
	require.Equal(t, []uint64{301}, chain.WithBloom(24, 1000, b1))
	require.Empty(t, chain.WithBloom(0, 22, b1))
	require.Empty(t, chain.WithBloom(0, 1000, bloomOf("gamma")))

	// The level 2 bloom covering 256..511 is the union of both blocks.
	top, ok := chain.bloomAt(Position{Level: 2, Index: 1})
	require.True(t, ok)
	require.True(t, top.ContainsBloom(b1))
	require.True(t, top.ContainsBloom(b2))
}

func TestReplace(t *testing.T) {
	var (
		db    = memoryGroups{}
		chain = New(DefaultConfig, db)
		b1    = bloomOf("alpha")
		b2    = bloomOf("beta")
		b3    = bloomOf("gamma")
	)
	db.apply(chain.Insert(1, b1))
	db.apply(chain.Insert(2, b2))
	db.apply(chain.Insert(3, b3))
	require.Equal(t, []uint64{3}, chain.WithBloom(0, 10, b3))

	// Blocks 2 and 3 are replaced by a single block carrying b1.
	db.apply(chain.Replace(2, 3, []types.Bloom{b1}))
	require.Equal(t, []uint64{1, 2}, chain.WithBloom(0, 10, b1))
	require.Empty(t, chain.WithBloom(0, 10, b2))
	require.Empty(t, chain.WithBloom(0, 10, b3))

	// The stale higher level blooms are gone as well.
	for level := 1; level < DefaultConfig.Levels; level++ {
		b, ok := chain.bloomAt(DefaultConfig.position(3, level))
		require.True(t, ok)
		require.False(t, b.ContainsBloom(b3), "level %d still holds a retracted bloom", level)
	}
}

func TestReplaceAcrossGroups(t *testing.T) {
	var (
		db    = memoryGroups{}
		chain = New(DefaultConfig, db)
		old   = bloomOf("old")
		fresh = bloomOf("fresh")
	)
	for n := uint64(10); n < 40; n++ {
		db.apply(chain.Insert(n, old))
	}
	blooms := make([]types.Bloom, 20)
	for i := range blooms {
		blooms[i] = fresh
	}
	db.apply(chain.Replace(15, 39, blooms))

	var want []uint64
	for n := uint64(10); n < 15; n++ {
		want = append(want, n)
	}
	require.Equal(t, want, chain.WithBloom(0, 100, old))
	require.Len(t, chain.WithBloom(0, 100, fresh), 20)
	require.Equal(t, uint64(34), chain.WithBloom(0, 100, fresh)[19])
}

func TestGroupKeepsStoredSlots(t *testing.T) {
	var (
		db    = memoryGroups{}
		chain = New(DefaultConfig, db)
		b1    = bloomOf("alpha")
		b2    = bloomOf("beta")
	)
	db.apply(chain.Insert(0, b1))
	stored := *db[GroupPosition{Level: 0, Index: 0}]

	update := chain.Insert(1, b2)
	group := update[GroupPosition{Level: 0, Index: 0}]
	require.Equal(t, b1, group.Blooms[0])
	require.Equal(t, b2, group.Blooms[1])

	// The stored group is not mutated until the update is applied.
	require.Equal(t, stored, *db[GroupPosition{Level: 0, Index: 0}])
}
