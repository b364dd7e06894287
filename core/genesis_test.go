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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
)

func TestGenesisDefaults(t *testing.T) {
	block := (&Genesis{Timestamp: 42}).ToBlock()
	require.Equal(t, uint64(0), block.NumberU64())
	require.Equal(t, types.SealPoW, block.SealType())
	require.Equal(t, params.GenesisEnergyLimit, block.Header().EnergyLimit)
	require.Equal(t, uint256.NewInt(params.GenesisDifficulty), block.Difficulty())

	// The built-in genesis is stable across calls.
	require.Equal(t, DefaultGenesisBlock().ToBlock().Hash(), DefaultGenesisBlock().ToBlock().Hash())
	require.NotEqual(t, block.Hash(), DefaultGenesisBlock().ToBlock().Hash())
}

func TestLoadGenesis(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		file := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(file, []byte(content), 0644))
		return file
	}
	good := write("genesis.json", `{
  "timestamp": 1700000000,
  "extraData": "0x01020304",
  "difficulty": "0x400",
  "coinbase": "0x00000000000000000000000000000000000000aa"
}`)
	genesis, err := LoadGenesis(good)
	require.NoError(t, err)
	require.Equal(t, uint64(1700000000), genesis.Timestamp)
	require.Equal(t, []byte{1, 2, 3, 4}, []byte(genesis.ExtraData))
	require.Equal(t, uint256.NewInt(1024), genesis.Difficulty)
	require.Equal(t, common.HexToAddress("0xaa"), genesis.Coinbase)

	block := genesis.ToBlock()
	require.Equal(t, uint256.NewInt(1024), block.Difficulty())
	require.Equal(t, common.HexToAddress("0xaa"), block.Coinbase())

	// The same file always yields the same genesis hash.
	again, err := LoadGenesis(good)
	require.NoError(t, err)
	require.Equal(t, block.Hash(), again.ToBlock().Hash())

	long := write("long.json", `{"extraData": "0x`+common.Bytes2Hex(make([]byte, params.MaximumExtraDataSize+1))+`"}`)
	_, err = LoadGenesis(long)
	require.Error(t, err)

	_, err = LoadGenesis(write("broken.json", `{"timestamp": `))
	require.Error(t, err)

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestGenesisHexOrDecimal(t *testing.T) {
	file := filepath.Join(t.TempDir(), "genesis.json")
	content := `{"timestamp": "0x6553f100", "energyLimit": "0x989680", "number": "0", "difficulty": "1024", "extraData": "0x"}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	genesis, err := LoadGenesis(file)
	require.NoError(t, err)
	require.Equal(t, uint64(1700000000), genesis.Timestamp)
	require.Equal(t, uint64(10000000), genesis.EnergyLimit)
	require.Equal(t, uint256.NewInt(1024), genesis.Difficulty)

	// Marshalling and loading again yields the same block.
	out, err := json.Marshal(genesis)
	require.NoError(t, err)
	require.Contains(t, string(out), `"timestamp":"0x6553f100"`)
	require.NoError(t, os.WriteFile(file, out, 0644))

	again, err := LoadGenesis(file)
	require.NoError(t, err)
	require.Equal(t, genesis.ToBlock().Hash(), again.ToBlock().Hash())
}
