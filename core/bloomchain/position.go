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

// Package bloomchain implements the hierarchical log bloom index. Level 0
// holds one bloom per block; every bloom of a higher level is the union of
// ElementsPerIndex blooms of the level below. Blooms are persisted in groups
// of types.BloomGroupSize consecutive entries.
package bloomchain

import (
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
)

// Config describes the shape of the index.
type Config struct {
	Levels           int
	ElementsPerIndex int
}

// DefaultConfig is the layout used by the block chain.
var DefaultConfig = Config{
	Levels:           params.BloomLevels,
	ElementsPerIndex: params.BloomElementsPerIndex,
}

// Position addresses a single bloom of the index.
type Position struct {
	Level int
	Index uint64
}

// GroupPosition addresses a persisted group of blooms.
type GroupPosition struct {
	Level uint8
	Index uint32
}

// groupPosition maps a bloom position to its group and the slot within it.
func groupPosition(pos Position) (GroupPosition, int) {
	return GroupPosition{
		Level: uint8(pos.Level),
		Index: uint32(pos.Index / types.BloomGroupSize),
	}, int(pos.Index % types.BloomGroupSize)
}

// levelSize is the number of blocks covered by one bloom of the level.
func (c Config) levelSize(level int) uint64 {
	size := uint64(1)
	for i := 0; i < level; i++ {
		size *= uint64(c.ElementsPerIndex)
	}
	return size
}

// position returns the bloom of the level covering block number.
func (c Config) position(number uint64, level int) Position {
	return Position{Level: level, Index: number / c.levelSize(level)}
}

// lowerPositions returns the blooms one level down that fold into pos.
func (c Config) lowerPositions(pos Position) []Position {
	if pos.Level == 0 {
		panic("bloomchain: level 0 has no lower positions")
	}
	var (
		n     = uint64(c.ElementsPerIndex)
		start = pos.Index * n
		res   = make([]Position, 0, n)
	)
	for i := uint64(0); i < n; i++ {
		res = append(res, Position{Level: pos.Level - 1, Index: start + i})
	}
	return res
}
