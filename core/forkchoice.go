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

package core

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/unitychain/go-unity/core/types"
)

// LocationKind tells where an imported block ends up.
type LocationKind uint8

const (
	// CanonChain means the block extends the canonical chain.
	CanonChain LocationKind = iota
	// Branch means the block extends a side chain that stays side.
	Branch
	// BranchBecomingCanonChain means the block turns its branch canonical.
	BranchBecomingCanonChain
)

func (k LocationKind) String() string {
	switch k {
	case CanonChain:
		return "canon"
	case Branch:
		return "branch"
	case BranchBecomingCanonChain:
		return "reorg"
	default:
		return fmt.Sprintf("LocationKind(%d)", uint8(k))
	}
}

// BlockLocation describes where a block is placed by the fork choice. The
// route fields are only set for BranchBecomingCanonChain.
type BlockLocation struct {
	Kind LocationKind

	// Ancestor is the common ancestor of the old and the new head.
	Ancestor common.Hash
	// Enacted lists the blocks becoming canonical, ascending, ending at the
	// imported block.
	Enacted []common.Hash
	// Retracted lists the blocks leaving the canonical chain, from the old
	// head downwards.
	Retracted []common.Hash
}

// BlockInfo is the classification of an imported block.
type BlockInfo struct {
	Hash               common.Hash
	Number             uint64
	TotalDifficulty    *big.Int
	PowTotalDifficulty *uint256.Int
	PosTotalDifficulty *uint256.Int
	Location           BlockLocation
}

// ImportRoute reports the canonical chain changes caused by an import.
type ImportRoute struct {
	Enacted   []common.Hash
	Retracted []common.Hash
	Omitted   []common.Hash
}

// newImportRoute derives the import route of a classified block.
func newImportRoute(info *BlockInfo) *ImportRoute {
	switch info.Location.Kind {
	case CanonChain:
		return &ImportRoute{Enacted: []common.Hash{info.Hash}}
	case Branch:
		return &ImportRoute{Omitted: []common.Hash{info.Hash}}
	default:
		return &ImportRoute{
			Enacted:   append([]common.Hash(nil), info.Location.Enacted...),
			Retracted: append([]common.Hash(nil), info.Location.Retracted...),
		}
	}
}

// accumulateDifficulty adds the difficulty of header to the cumulative sum
// of its seal algorithm.
func accumulateDifficulty(pow, pos *uint256.Int, header *types.Header) (*uint256.Int, *uint256.Int, error) {
	var (
		overflow bool
		diff     = header.Difficulty
	)
	if diff == nil {
		diff = new(uint256.Int)
	}
	pow, pos = new(uint256.Int).Set(pow), new(uint256.Int).Set(pos)
	switch header.Algorithm() {
	case types.SealPoS:
		_, overflow = pos.AddOverflow(pos, diff)
	default:
		_, overflow = pow.AddOverflow(pow, diff)
	}
	if overflow {
		return nil, nil, fmt.Errorf("%w: block #%d", ErrDifficultyOverflow, header.Number)
	}
	return pow, pos, nil
}

// blockInfo classifies a block whose parent is known. The caller must make
// sure the parent details exist.
func (bc *BlockChain) blockInfo(header *types.Header) (*BlockInfo, error) {
	var (
		hash   = header.Hash()
		parent = bc.GetBlockDetails(header.ParentHash)
	)
	if parent == nil {
		panic(fmt.Sprintf("invalid parent hash: %x", header.ParentHash))
	}
	pow, pos, err := accumulateDifficulty(parent.PowTotalDifficulty, parent.PosTotalDifficulty, header)
	if err != nil {
		return nil, err
	}
	info := &BlockInfo{
		Hash:               hash,
		Number:             header.Number,
		TotalDifficulty:    types.TotalDifficultyOf(pow, pos),
		PowTotalDifficulty: pow,
		PosTotalDifficulty: pos,
		Location:           BlockLocation{Kind: Branch},
	}
	best := bc.bestBlock()
	if info.TotalDifficulty.Cmp(best.TotalDifficulty) <= 0 {
		return info, nil
	}
	// The block becomes the new head, move all its ancestors to the
	// canonical chain.
	route := bc.TreeRoute(best.Hash, header.ParentHash)
	if route == nil {
		log.Warn("Missing tree route to new head", "number", header.Number, "hash", hash, "head", best.Hash)
		return nil, fmt.Errorf("%w: from %x to %x", ErrNoTreeRoute, best.Hash, header.ParentHash)
	}
	if header.Number != parent.Number+1 {
		panic(fmt.Sprintf("block #%d does not follow its parent #%d", header.Number, parent.Number))
	}
	if len(route.Blocks) == 0 {
		info.Location = BlockLocation{Kind: CanonChain}
		return info, nil
	}
	enacted := make([]common.Hash, 0, len(route.Blocks)-route.Index+1)
	enacted = append(enacted, route.Blocks[route.Index:]...)
	info.Location = BlockLocation{
		Kind:      BranchBecomingCanonChain,
		Ancestor:  route.Ancestor,
		Enacted:   append(enacted, hash),
		Retracted: append([]common.Hash(nil), route.Blocks[:route.Index]...),
	}
	return info, nil
}
