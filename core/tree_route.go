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
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// TreeRoute is the path between two blocks of the block tree.
//
// For the chain A1 -> A2 -> A3 -> A4 forked at A2 into B3 -> B4, the route
// from B4 to A4 is {Blocks: [B4, B3, A3, A4], Ancestor: A2, Index: 2}.
type TreeRoute struct {
	// Blocks lists the route, first the from side up to but excluding the
	// ancestor, then the to side down from the ancestor.
	Blocks []common.Hash
	// Ancestor is the nearest common ancestor.
	Ancestor common.Hash
	// Index is the number of from side blocks in Blocks.
	Index int
}

// TreeRoute returns the route between from and to. It returns nil if either
// block or any block walked is unknown.
func (bc *BlockChain) TreeRoute(from, to common.Hash) *TreeRoute {
	fromDetails := bc.GetBlockDetails(from)
	if fromDetails == nil {
		return nil
	}
	toDetails := bc.GetBlockDetails(to)
	if toDetails == nil {
		return nil
	}
	var (
		fromBranch, toBranch []common.Hash
		curFrom, curTo       = from, to
	)
	// Bring both sides to the same height
	for fromDetails.Number > toDetails.Number {
		fromBranch = append(fromBranch, curFrom)
		curFrom = fromDetails.Parent
		if fromDetails = bc.GetBlockDetails(curFrom); fromDetails == nil {
			return nil
		}
	}
	for toDetails.Number > fromDetails.Number {
		toBranch = append(toBranch, curTo)
		curTo = toDetails.Parent
		if toDetails = bc.GetBlockDetails(curTo); toDetails == nil {
			return nil
		}
	}
	// Walk both sides up to the shared parent
	for curFrom != curTo {
		fromBranch = append(fromBranch, curFrom)
		curFrom = fromDetails.Parent
		if fromDetails = bc.GetBlockDetails(curFrom); fromDetails == nil {
			return nil
		}
		toBranch = append(toBranch, curTo)
		curTo = toDetails.Parent
		if toDetails = bc.GetBlockDetails(curTo); toDetails == nil {
			return nil
		}
	}
	index := len(fromBranch)
	slices.Reverse(toBranch)
	return &TreeRoute{
		Blocks:   append(fromBranch, toBranch...),
		Ancestor: curFrom,
		Index:    index,
	}
}
