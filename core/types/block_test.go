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
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

func testBlock() *Block {
	header := &Header{
		ParentHash: common.HexToHash("0x01"),
		Coinbase:   common.HexToAddress("0xaa"),
		Difficulty: uint256.NewInt(131072),
		Number:     7,
		Time:       1546300800,
		Extra:      []byte("unity"),
		SealType:   SealPoS,
		Seal:       [][]byte{{0x01, 0x02}, {0x03}},
	}
	txs := []*Transaction{
		NewTransaction(0, common.HexToAddress("0xbb"), big.NewInt(10), 21000, big.NewInt(1), nil),
		NewContractCreation(1, nil, 50000, big.NewInt(1), []byte{0x60, 0x60}).WithSignature(1546300801, []byte{0xde, 0xad}),
	}
	return NewBlock(header, txs, nil)
}

func TestBlockEncoding(t *testing.T) {
	block := testBlock()
	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		t.Fatal("encode error: ", err)
	}
	var dec Block
	if err := rlp.DecodeBytes(enc, &dec); err != nil {
		t.Fatal("decode error: ", err)
	}
	if dec.Hash() != block.Hash() {
		t.Errorf("hash mismatch: have %x, want %x", dec.Hash(), block.Hash())
	}
	if dec.Size() != uint64(len(enc)) {
		t.Errorf("size mismatch: have %d, want %d", dec.Size(), len(enc))
	}
	if len(dec.Transactions()) != 2 {
		t.Fatalf("transaction count mismatch: have %d, want 2", len(dec.Transactions()))
	}
	if dec.Transactions()[1].To() != nil {
		t.Errorf("contract creation gained a recipient")
	}
	if dec.SealType() != SealPoS {
		t.Errorf("seal type mismatch: have %v, want %v", dec.SealType(), SealPoS)
	}
	if dec.TxRoot() != DeriveRoot(block.Transactions()) {
		t.Errorf("tx root mismatch")
	}
	reenc, _ := rlp.EncodeToBytes(&dec)
	if !bytes.Equal(enc, reenc) {
		t.Errorf("re-encoding mismatch")
	}
}

func TestHeaderHashChangesWithSeal(t *testing.T) {
	h := testBlock().Header()
	before := h.Hash()
	h.Seal[0][0] = 0xff
	if h.Hash() == before {
		t.Fatal("seal change did not alter the hash")
	}
	cpy := CopyHeader(h)
	cpy.Seal[0][0] = 0x00
	cpy.Difficulty.SetUint64(1)
	if h.Seal[0][0] != 0xff || h.Difficulty.Uint64() != 131072 {
		t.Fatal("CopyHeader shares memory with the original")
	}
}

func TestSealTypeNormalize(t *testing.T) {
	tests := []struct {
		in, want SealType
	}{
		{0, SealPoW},
		{SealPoW, SealPoW},
		{SealPoS, SealPoS},
		{0x7f, SealPoW},
	}
	for _, tt := range tests {
		if have := tt.in.Normalize(); have != tt.want {
			t.Errorf("normalize %d: have %v, want %v", tt.in, have, tt.want)
		}
	}
}

func TestTotalDifficultyOf(t *testing.T) {
	if td := TotalDifficultyOf(uint256.NewInt(5), uint256.NewInt(0)); td.Cmp(big.NewInt(5)) != 0 {
		t.Errorf("pos zero: have %v, want 5", td)
	}
	if td := TotalDifficultyOf(uint256.NewInt(5), uint256.NewInt(3)); td.Cmp(big.NewInt(15)) != 0 {
		t.Errorf("product: have %v, want 15", td)
	}
	// The product must not wrap around at 256 bits.
	full := new(uint256.Int).SetAllOne()
	td := TotalDifficultyOf(full, uint256.NewInt(2))
	if td.BitLen() != 257 {
		t.Errorf("product overflowed: bitlen %d", td.BitLen())
	}
}

func TestBlockDetailsCopy(t *testing.T) {
	d := &BlockDetails{
		Number:             1,
		TotalDifficulty:    big.NewInt(10),
		PowTotalDifficulty: uint256.NewInt(10),
		PosTotalDifficulty: uint256.NewInt(0),
		Children:           []common.Hash{{0x01}},
	}
	cpy := d.Copy()
	cpy.Children = append(cpy.Children, common.Hash{0x02})
	cpy.TotalDifficulty.SetInt64(1)
	if len(d.Children) != 1 || d.TotalDifficulty.Int64() != 10 {
		t.Fatal("copy shares memory with the original")
	}
	if !cpy.HasChild(common.Hash{0x02}) || d.HasChild(common.Hash{0x02}) {
		t.Fatal("child lookup mismatch")
	}
}

func TestHeaderJSON(t *testing.T) {
	header := testBlock().Header()
	enc, err := json.Marshal(header)
	if err != nil {
		t.Fatal("marshal error: ", err)
	}
	if !strings.Contains(string(enc), `"number":"0x7"`) {
		t.Errorf("number not hex encoded: %s", enc)
	}
	if !strings.Contains(string(enc), header.Hash().Hex()) {
		t.Errorf("hash missing from %s", enc)
	}
	var dec Header
	if err := json.Unmarshal(enc, &dec); err != nil {
		t.Fatal("unmarshal error: ", err)
	}
	if dec.Hash() != header.Hash() {
		t.Errorf("hash mismatch: have %x, want %x", dec.Hash(), header.Hash())
	}
	if err := json.Unmarshal([]byte(`{"parentHash":"0x0000000000000000000000000000000000000000000000000000000000000000"}`), &dec); err == nil {
		t.Error("expected error for header without required fields")
	}
}
