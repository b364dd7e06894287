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

package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// BloomGroupSize is the number of consecutive blooms stored together.
const BloomGroupSize = 16

// BlockDetails holds the familial and difficulty details of a known block.
// Children is the only field amended after creation.
type BlockDetails struct {
	Number             uint64
	TotalDifficulty    *big.Int
	PowTotalDifficulty *uint256.Int
	PosTotalDifficulty *uint256.Int
	Parent             common.Hash
	Children           []common.Hash
	// AntiSealParent is the nearest ancestor sealed by the other algorithm.
	AntiSealParent common.Hash
}

// TotalDifficultyOf combines the cumulative per-algorithm difficulties into
// the chain weight pow * max(pos, 1).
func TotalDifficultyOf(pow, pos *uint256.Int) *big.Int {
	td := pow.ToBig()
	if pos.IsZero() {
		return td
	}
	return td.Mul(td, pos.ToBig())
}

// Copy returns a deep copy of the details.
func (d *BlockDetails) Copy() *BlockDetails {
	cpy := *d
	cpy.TotalDifficulty = new(big.Int).Set(d.TotalDifficulty)
	cpy.PowTotalDifficulty = new(uint256.Int).Set(d.PowTotalDifficulty)
	cpy.PosTotalDifficulty = new(uint256.Int).Set(d.PosTotalDifficulty)
	cpy.Children = append([]common.Hash(nil), d.Children...)
	return &cpy
}

// HasChild reports whether hash is a known child of the block.
func (d *BlockDetails) HasChild(hash common.Hash) bool {
	for _, child := range d.Children {
		if child == hash {
			return true
		}
	}
	return false
}

// Size returns the approximate memory used by the details.
func (d *BlockDetails) Size() common.StorageSize {
	return common.StorageSize(8 + 3*32 + 2*common.HashLength + len(d.Children)*common.HashLength)
}

// TransactionAddress locates a transaction within a block.
type TransactionAddress struct {
	BlockHash common.Hash
	Index     uint64
}

// BloomGroup is a batch of BloomGroupSize consecutive blooms of one level.
type BloomGroup struct {
	Blooms [BloomGroupSize]Bloom
}

// Size returns the memory used by the group.
func (g *BloomGroup) Size() common.StorageSize {
	return BloomGroupSize * BloomByteLength
}

// Accrue merges every bloom of other into g.
func (g *BloomGroup) Accrue(other *BloomGroup) {
	for i := range g.Blooms {
		g.Blooms[i].Accrue(other.Blooms[i])
	}
}
