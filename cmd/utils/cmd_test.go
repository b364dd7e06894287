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

package utils

import (
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/unitychain/go-unity/core"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
)

func newChain(t *testing.T, genesis *types.Block) *core.BlockChain {
	t.Helper()
	chain, err := core.NewBlockChain(rawdb.NewMemoryDatabase(), nil, genesis)
	require.NoError(t, err)
	t.Cleanup(chain.Close)
	return chain
}

// makeBlocks extends parent with n empty proof-of-work blocks.
func makeBlocks(parent *types.Block, n int) (types.Blocks, []types.Receipts) {
	var (
		blocks   types.Blocks
		receipts []types.Receipts
	)
	for i := 0; i < n; i++ {
		header := &types.Header{
			ParentHash:  parent.Hash(),
			Difficulty:  parent.Difficulty(),
			Number:      parent.NumberU64() + 1,
			EnergyLimit: parent.Header().EnergyLimit,
			Time:        parent.Time() + 10,
			SealType:    types.SealPoW,
		}
		block := types.NewBlock(header, nil, nil)
		blocks = append(blocks, block)
		receipts = append(receipts, types.Receipts{})
		parent = block
	}
	return blocks, receipts
}

func TestExportImportChain(t *testing.T) {
	genesis := (&core.Genesis{Timestamp: 1000, Difficulty: uint256.NewInt(1)}).ToBlock()
	blocks, receipts := makeBlocks(genesis, 12)

	src := newChain(t, genesis)
	_, err := src.InsertChain(blocks, receipts)
	require.NoError(t, err)

	for _, name := range []string{"chain.rlp", "chain.rlp.gz"} {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(t.TempDir(), name)
			require.NoError(t, ExportChain(src, fn))

			dst := newChain(t, genesis)
			require.NoError(t, ImportChain(dst, fn))
			require.Equal(t, src.BestBlockHash(), dst.BestBlockHash())
			require.Equal(t, src.BestBlockTotalDifficulty(), dst.BestBlockTotalDifficulty())

			// A second import only finds known blocks.
			require.NoError(t, ImportChain(dst, fn))
			require.Equal(t, uint64(12), dst.BestBlockNumber())
		})
	}
}

func TestExportAppendChain(t *testing.T) {
	genesis := (&core.Genesis{Timestamp: 1000, Difficulty: uint256.NewInt(1)}).ToBlock()
	blocks, receipts := makeBlocks(genesis, 6)

	src := newChain(t, genesis)
	_, err := src.InsertChain(blocks, receipts)
	require.NoError(t, err)

	fn := filepath.Join(t.TempDir(), "chain.rlp")
	require.NoError(t, ExportAppendChain(src, fn, 0, 3, false))
	require.NoError(t, ExportAppendChain(src, fn, 4, 6, true))

	dst := newChain(t, genesis)
	require.NoError(t, ImportChain(dst, fn))
	require.Equal(t, blocks[5].Hash(), dst.BestBlockHash())

	require.Error(t, ExportAppendChain(src, fn, 5, 2, false))
}

func TestImportMissingFile(t *testing.T) {
	genesis := (&core.Genesis{Timestamp: 1000, Difficulty: uint256.NewInt(1)}).ToBlock()
	require.Error(t, ImportChain(newChain(t, genesis), filepath.Join(t.TempDir(), "absent.rlp")))
}
