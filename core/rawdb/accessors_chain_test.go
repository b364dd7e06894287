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

package rawdb

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/types"
)

// Tests block header storage and retrieval operations.
func TestHeaderStorage(t *testing.T) {
	db := NewMemoryDatabase()

	header := &types.Header{Number: 42, Extra: []byte("test header"), Difficulty: uint256.NewInt(7)}
	if entry := ReadHeader(db, header.Hash()); entry != nil {
		t.Fatalf("Non existent header returned: %v", entry)
	}
	WriteHeader(db, header)
	if entry := ReadHeader(db, header.Hash()); entry == nil {
		t.Fatalf("Stored header not found")
	} else if entry.Hash() != header.Hash() {
		t.Fatalf("Retrieved header mismatch: have %v, want %v", entry, header)
	}
	if entry := ReadHeaderRLP(db, header.Hash()); entry == nil {
		t.Fatalf("Stored header RLP not found")
	} else {
		want, _ := rlp.EncodeToBytes(header)
		if !bytes.Equal(entry, want) {
			t.Fatalf("Retrieved RLP header mismatch: have %x, want %x", entry, want)
		}
	}
	// The stored blob is compressed.
	raw, _ := db.Get(headerKey(header.Hash()))
	if bytes.Equal(raw, ReadHeaderRLP(db, header.Hash())) {
		t.Fatalf("Header stored uncompressed")
	}
	DeleteHeader(db, header.Hash())
	if entry := ReadHeader(db, header.Hash()); entry != nil {
		t.Fatalf("Deleted header returned: %v", entry)
	}
}

// Tests block body storage and retrieval operations.
func TestBodyStorage(t *testing.T) {
	db := NewMemoryDatabase()

	tx := types.NewTransaction(1, common.BytesToAddress([]byte{0x11}), big.NewInt(111), 1111, big.NewInt(11111), []byte{0x11, 0x11, 0x11})
	body := &types.Body{Transactions: []*types.Transaction{tx}}
	hash := common.HexToHash("0xdeadbeef")

	if entry := ReadBody(db, hash); entry != nil {
		t.Fatalf("Non existent body returned: %v", entry)
	}
	WriteBody(db, hash, body)
	if entry := ReadBody(db, hash); entry == nil {
		t.Fatalf("Stored body not found")
	} else if len(entry.Transactions) != 1 || entry.Transactions[0].Hash() != tx.Hash() {
		t.Fatalf("Retrieved body mismatch: have %v, want %v", entry, body)
	}
	if !HasBody(db, hash) {
		t.Fatalf("Stored body not reported")
	}
	DeleteBody(db, hash)
	if entry := ReadBody(db, hash); entry != nil {
		t.Fatalf("Deleted body returned: %v", entry)
	}
}

// Tests block storage and retrieval operations.
func TestBlockStorage(t *testing.T) {
	db := NewMemoryDatabase()

	block := types.NewBlockWithHeader(&types.Header{
		Extra:      []byte("test block"),
		Difficulty: uint256.NewInt(1),
		SealType:   types.SealPoS,
	})
	if entry := ReadBlock(db, block.Hash()); entry != nil {
		t.Fatalf("Non existent block returned: %v", entry)
	}
	WriteBlock(db, block)
	if entry := ReadBlock(db, block.Hash()); entry == nil {
		t.Fatalf("Stored block not found")
	} else if entry.Hash() != block.Hash() {
		t.Fatalf("Retrieved block mismatch: have %v, want %v", entry, block)
	}
	DeleteBlock(db, block.Hash())
	if HasHeader(db, block.Hash()) || HasBody(db, block.Hash()) {
		t.Fatalf("Deleted block still present")
	}
}

func TestChainPointers(t *testing.T) {
	db := NewMemoryDatabase()

	if ReadBestBlockHash(db) != nil || ReadFirstBlockHash(db) != nil || ReadAncientBlockHash(db) != nil {
		t.Fatalf("Pointers present in empty database")
	}
	best, first, ancient := common.Hash{1}, common.Hash{2}, common.Hash{3}
	WriteBestBlockHash(db, best)
	WriteFirstBlockHash(db, first)
	WriteAncientBlockHash(db, ancient)
	if have := ReadBestBlockHash(db); have == nil || *have != best {
		t.Fatalf("Best block mismatch: have %v, want %v", have, best)
	}
	if have := ReadFirstBlockHash(db); have == nil || *have != first {
		t.Fatalf("First block mismatch: have %v, want %v", have, first)
	}
	if have := ReadAncientBlockHash(db); have == nil || *have != ancient {
		t.Fatalf("Ancient block mismatch: have %v, want %v", have, ancient)
	}
	DeleteFirstBlockHash(db)
	DeleteAncientBlockHash(db)
	if ReadFirstBlockHash(db) != nil || ReadAncientBlockHash(db) != nil {
		t.Fatalf("Deleted pointers still present")
	}
}

func TestExtrasStorage(t *testing.T) {
	db := NewMemoryDatabase()

	hash := common.Hash{0xaa}
	details := &types.BlockDetails{
		Number:             3,
		TotalDifficulty:    big.NewInt(12),
		PowTotalDifficulty: uint256.NewInt(4),
		PosTotalDifficulty: uint256.NewInt(3),
		Parent:             common.Hash{0xbb},
		Children:           []common.Hash{{0xcc}},
		AntiSealParent:     common.Hash{0xdd},
	}
	WriteBlockDetails(db, hash, details)
	have := ReadBlockDetails(db, hash)
	if have == nil || have.TotalDifficulty.Cmp(details.TotalDifficulty) != 0 || have.PosTotalDifficulty.Cmp(details.PosTotalDifficulty) != 0 ||
		have.AntiSealParent != details.AntiSealParent || len(have.Children) != 1 {
		t.Fatalf("Block details mismatch: have %+v, want %+v", have, details)
	}

	WriteCanonicalHash(db, hash, 3)
	if h := ReadCanonicalHash(db, 3); h != hash {
		t.Fatalf("Canonical hash mismatch: have %x, want %x", h, hash)
	}
	if !HasCanonicalHash(db, 3) || HasCanonicalHash(db, 4) {
		t.Fatalf("Canonical hash presence mismatch")
	}
	DeleteCanonicalHash(db, 3)
	if h := ReadCanonicalHash(db, 3); h != (common.Hash{}) {
		t.Fatalf("Deleted canonical hash returned: %x", h)
	}

	txHash := common.Hash{0xee}
	WriteTransactionAddress(db, txHash, &types.TransactionAddress{BlockHash: hash, Index: 2})
	if addr := ReadTransactionAddress(db, txHash); addr == nil || addr.BlockHash != hash || addr.Index != 2 {
		t.Fatalf("Transaction address mismatch: %+v", addr)
	}
	DeleteTransactionAddress(db, txHash)
	if addr := ReadTransactionAddress(db, txHash); addr != nil {
		t.Fatalf("Deleted transaction address returned: %+v", addr)
	}

	log := &types.Log{Address: common.Address{0x1}, Topics: []common.Hash{{0x2}}, Data: []byte{0x3}}
	receipts := types.Receipts{types.NewReceipt(false, 21000, []*types.Log{log})}
	WriteReceipts(db, hash, receipts)
	if rs := ReadReceipts(db, hash); len(rs) != 1 || rs[0].Bloom != receipts[0].Bloom || len(rs[0].Logs) != 1 {
		t.Fatalf("Receipts mismatch: %+v", rs)
	}
	DeleteReceipts(db, hash)
	if rs := ReadReceipts(db, hash); rs != nil {
		t.Fatalf("Deleted receipts returned: %+v", rs)
	}

	pos := bloomchain.GroupPosition{Level: 1, Index: 9}
	group := new(types.BloomGroup)
	group.Blooms[4].Add([]byte("topic"))
	WriteBloomGroup(db, pos, group)
	if g := ReadBloomGroup(db, pos); g == nil || *g != *group {
		t.Fatalf("Bloom group mismatch")
	}
	if g := ReadBloomGroup(db, bloomchain.GroupPosition{Level: 0, Index: 9}); g != nil {
		t.Fatalf("Bloom group of another level returned")
	}
}

func TestKeyLayout(t *testing.T) {
	hash := common.Hash{0x01}
	if key := canonicalHashKey(0x01020304); !bytes.Equal(key, []byte{'e', 0x01, 0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("canonical hash key mismatch: %x", key)
	}
	if key := bloomGroupKey(bloomchain.GroupPosition{Level: 2, Index: 5}); !bytes.Equal(key, []byte{'e', 0x03, 0x02, 0, 0, 0, 0x05}) {
		t.Fatalf("bloom group key mismatch: %x", key)
	}
	if key := blockDetailsKey(hash); len(key) != 2+common.HashLength || key[1] != 0x00 {
		t.Fatalf("details key mismatch: %x", key)
	}
	if key := headerKey(hash); key[0] != 'h' || len(key) != 1+common.HashLength {
		t.Fatalf("header key mismatch: %x", key)
	}
}

func TestInspectDatabase(t *testing.T) {
	db := NewMemoryDatabase()
	block := types.NewBlockWithHeader(&types.Header{Difficulty: uint256.NewInt(1)})
	WriteBlock(db, block)
	WriteCanonicalHash(db, block.Hash(), 0)
	WriteBestBlockHash(db, block.Hash())

	var out strings.Builder
	if err := InspectDatabase(db, &out); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"Headers", "Canonical hashes", "Chain pointers"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("inspect output misses %q:\n%s", want, out.String())
		}
	}
}
