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
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
)

//go:generate go run github.com/fjl/gencodec -type Genesis -field-override genesisSpecMarshaling -out gen_genesis.go

// Genesis specifies the header fields of a genesis block.
type Genesis struct {
	Timestamp   uint64         `json:"timestamp"`
	ExtraData   []byte         `json:"extraData"`
	EnergyLimit uint64         `json:"energyLimit"`
	Difficulty  *uint256.Int   `json:"difficulty"`
	Coinbase    common.Address `json:"coinbase"`
	StateRoot   common.Hash    `json:"stateRoot"`

	// These fields are used for consensus tests. Please don't use them
	// in actual genesis blocks.
	Number     uint64      `json:"number"`
	ParentHash common.Hash `json:"parentHash"`
}

// field type overrides for gencodec
type genesisSpecMarshaling struct {
	Timestamp   math.HexOrDecimal64
	ExtraData   hexutil.Bytes
	EnergyLimit math.HexOrDecimal64
	Number      math.HexOrDecimal64
}

// ToBlock creates the genesis block. The seal type of a genesis is always
// proof-of-work.
func (g *Genesis) ToBlock() *types.Block {
	head := &types.Header{
		ParentHash:  g.ParentHash,
		Coinbase:    g.Coinbase,
		StateRoot:   g.StateRoot,
		Difficulty:  g.Difficulty,
		Number:      g.Number,
		EnergyLimit: g.EnergyLimit,
		Time:        g.Timestamp,
		Extra:       g.ExtraData,
		SealType:    types.SealPoW,
	}
	if g.EnergyLimit == 0 {
		head.EnergyLimit = params.GenesisEnergyLimit
	}
	if g.Difficulty == nil {
		head.Difficulty = uint256.NewInt(params.GenesisDifficulty)
	}
	return types.NewBlock(head, nil, nil)
}

// DefaultGenesisBlock returns the built-in genesis.
func DefaultGenesisBlock() *Genesis {
	return &Genesis{
		Timestamp:   1609459200,
		ExtraData:   hexutil.MustDecode("0x756e697479"),
		EnergyLimit: params.GenesisEnergyLimit,
		Difficulty:  uint256.NewInt(params.GenesisDifficulty),
	}
}

// LoadGenesis reads a JSON genesis description from file.
func LoadGenesis(file string) (*Genesis, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}
	genesis := new(Genesis)
	if err := json.Unmarshal(data, genesis); err != nil {
		return nil, fmt.Errorf("invalid genesis file: %w", err)
	}
	if uint64(len(genesis.ExtraData)) > params.MaximumExtraDataSize {
		return nil, fmt.Errorf("genesis extra data too long: %d > %d", len(genesis.ExtraData), params.MaximumExtraDataSize)
	}
	return genesis, nil
}
