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
	"github.com/unitychain/go-unity/core/types"
)

// GroupDatabase provides read access to persisted bloom groups. A nil result
// means the group was never written.
type GroupDatabase interface {
	BloomsAt(pos GroupPosition) *types.BloomGroup
}

// Chain computes index updates and answers range queries on top of a
// GroupDatabase. Updates are returned to the caller rather than written.
type Chain struct {
	config Config
	db     GroupDatabase
}

// New creates a Chain reading groups from db.
func New(config Config, db GroupDatabase) *Chain {
	return &Chain{config: config, db: db}
}

func (c *Chain) bloomAt(pos Position) (types.Bloom, bool) {
	gp, slot := groupPosition(pos)
	group := c.db.BloomsAt(gp)
	if group == nil {
		return types.Bloom{}, false
	}
	return group.Blooms[slot], true
}

// Insert folds the bloom of block number into every level and returns the
// modified groups.
func (c *Chain) Insert(number uint64, bloom types.Bloom) map[GroupPosition]*types.BloomGroup {
	modified := make(map[Position]types.Bloom, c.config.Levels)
	for level := 0; level < c.config.Levels; level++ {
		pos := c.config.position(number, level)
		merged := bloom
		if old, ok := c.bloomAt(pos); ok {
			merged.Accrue(old)
		}
		modified[pos] = merged
	}
	return c.group(modified)
}

// Replace rewrites the blooms of blocks from..to inclusive. blooms[i] becomes
// the bloom of block from+i, blocks past the supplied blooms are reset. All
// higher level blooms touching the range are recomputed from scratch.
func (c *Chain) Replace(from, to uint64, blooms []types.Bloom) map[GroupPosition]*types.BloomGroup {
	end := to
	if n := uint64(len(blooms)); n > 0 && from+n-1 > end {
		end = from + n - 1
	}
	if end < from {
		return map[GroupPosition]*types.BloomGroup{}
	}
	modified := make(map[Position]types.Bloom)
	for i, bloom := range blooms {
		modified[Position{Level: 0, Index: from + uint64(i)}] = bloom
	}
	for number := from + uint64(len(blooms)); number <= end; number++ {
		modified[Position{Level: 0, Index: number}] = types.Bloom{}
	}
	for level := 1; level < c.config.Levels; level++ {
		first := c.config.position(from, level).Index
		last := c.config.position(end, level).Index
		for index := first; index <= last; index++ {
			pos := Position{Level: level, Index: index}
			var bloom types.Bloom
			for _, lower := range c.config.lowerPositions(pos) {
				if b, ok := modified[lower]; ok {
					bloom.Accrue(b)
				} else if b, ok := c.bloomAt(lower); ok {
					bloom.Accrue(b)
				}
			}
			modified[pos] = bloom
		}
	}
	return c.group(modified)
}

// WithBloom returns the numbers of the blocks within from..to inclusive whose
// bloom contains the given one, in ascending order.
func (c *Chain) WithBloom(from, to uint64, bloom types.Bloom) []uint64 {
	if to < from {
		return nil
	}
	var (
		top    = c.config.Levels - 1
		size   = c.config.levelSize(top)
		result []uint64
	)
	for index := from / size; index <= to/size; index++ {
		result = append(result, c.blocks(from, to, bloom, Position{Level: top, Index: index})...)
	}
	return result
}

func (c *Chain) blocks(from, to uint64, bloom types.Bloom, pos Position) []uint64 {
	stored, ok := c.bloomAt(pos)
	if !ok || !stored.ContainsBloom(bloom) {
		return nil
	}
	if pos.Level == 0 {
		return []uint64{pos.Index}
	}
	var (
		size   = c.config.levelSize(pos.Level - 1)
		result []uint64
	)
	for _, lower := range c.config.lowerPositions(pos) {
		start := lower.Index * size
		if start > to || start+size-1 < from {
			continue
		}
		result = append(result, c.blocks(from, to, bloom, lower)...)
	}
	return result
}

// group packs single blooms into their persisted groups, starting from the
// stored version of every group touched.
func (c *Chain) group(blooms map[Position]types.Bloom) map[GroupPosition]*types.BloomGroup {
	groups := make(map[GroupPosition]*types.BloomGroup)
	for pos, bloom := range blooms {
		gp, slot := groupPosition(pos)
		group, ok := groups[gp]
		if !ok {
			group = new(types.BloomGroup)
			if stored := c.db.BloomsAt(gp); stored != nil {
				*group = *stored
			}
			groups[gp] = group
		}
		group.Blooms[slot] = bloom
	}
	return groups
}
