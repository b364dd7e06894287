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

import "errors"

var (
	// ErrKnownBlock is returned when a block to import is already known locally.
	ErrKnownBlock = errors.New("block already known")

	// ErrBannedHash is returned if a block to import is on the banned list.
	ErrBannedHash = errors.New("banned hash")

	// ErrNoGenesis is returned when there is no Genesis Block.
	ErrNoGenesis = errors.New("genesis not found in chain")

	// ErrGenesisMismatch is returned when the supplied genesis differs from
	// the one already stored.
	ErrGenesisMismatch = errors.New("genesis mismatch")

	// ErrNoBestBlock is returned when the best block pointer refers to data
	// the database does not hold.
	ErrNoBestBlock = errors.New("best block not found")

	// ErrUnknownAncestor is returned when the parent of a block to import is
	// not known locally.
	ErrUnknownAncestor = errors.New("unknown ancestor")

	// ErrNoTreeRoute is returned when a reorg would have to cross blocks
	// whose details are no longer available.
	ErrNoTreeRoute = errors.New("no tree route to new head")

	// ErrDifficultyOverflow is returned when a cumulative per-algorithm
	// difficulty no longer fits into 256 bits.
	ErrDifficultyOverflow = errors.New("cumulative difficulty overflow")

	// ErrRevertTarget is returned when reverting to a block above the head.
	ErrRevertTarget = errors.New("revert target above best block")

	// ErrChainStopped is returned when importing into a closed chain.
	ErrChainStopped = errors.New("blockchain is stopped")

	errInvalidReceipts = errors.New("receipt count does not match block count")
)
