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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/unitydb"
)

// ReadBlockDetails retrieves the details of a known block.
func ReadBlockDetails(db unitydb.KeyValueReader, hash common.Hash) *types.BlockDetails {
	data := get(db, blockDetailsKey(hash))
	if len(data) == 0 {
		return nil
	}
	details := new(types.BlockDetails)
	if err := rlp.Decode(bytes.NewReader(data), details); err != nil {
		log.Error("Invalid block details RLP", "hash", hash, "err", err)
		return nil
	}
	return details
}

// WriteBlockDetails stores the details of a block.
func WriteBlockDetails(db unitydb.KeyValueWriter, hash common.Hash, details *types.BlockDetails) {
	data, err := rlp.EncodeToBytes(details)
	if err != nil {
		log.Crit("Failed to RLP encode block details", "err", err)
	}
	put(db, blockDetailsKey(hash), data, "block details")
}

// DeleteBlockDetails removes the details of a block.
func DeleteBlockDetails(db unitydb.KeyValueWriter, hash common.Hash) {
	del(db, blockDetailsKey(hash), "block details")
}

// ReadCanonicalHash retrieves the hash assigned to a canonical block number.
func ReadCanonicalHash(db unitydb.KeyValueReader, number uint64) common.Hash {
	data := get(db, canonicalHashKey(number))
	if len(data) == 0 {
		return common.Hash{}
	}
	return common.BytesToHash(data)
}

// HasCanonicalHash reports whether a canonical hash is stored for the number.
func HasCanonicalHash(db unitydb.KeyValueReader, number uint64) bool {
	return has(db, canonicalHashKey(number))
}

// WriteCanonicalHash stores the hash assigned to a canonical block number.
func WriteCanonicalHash(db unitydb.KeyValueWriter, hash common.Hash, number uint64) {
	put(db, canonicalHashKey(number), hash.Bytes(), "number to hash mapping")
}

// DeleteCanonicalHash removes the number to hash canonical mapping.
func DeleteCanonicalHash(db unitydb.KeyValueWriter, number uint64) {
	del(db, canonicalHashKey(number), "number to hash mapping")
}

// ReadTransactionAddress retrieves the canonical position of a transaction.
func ReadTransactionAddress(db unitydb.KeyValueReader, hash common.Hash) *types.TransactionAddress {
	data := get(db, txAddressKey(hash))
	if len(data) == 0 {
		return nil
	}
	addr := new(types.TransactionAddress)
	if err := rlp.Decode(bytes.NewReader(data), addr); err != nil {
		log.Error("Invalid transaction address RLP", "hash", hash, "err", err)
		return nil
	}
	return addr
}

// WriteTransactionAddress stores the canonical position of a transaction.
func WriteTransactionAddress(db unitydb.KeyValueWriter, hash common.Hash, addr *types.TransactionAddress) {
	data, err := rlp.EncodeToBytes(addr)
	if err != nil {
		log.Crit("Failed to RLP encode transaction address", "err", err)
	}
	put(db, txAddressKey(hash), data, "transaction address")
}

// DeleteTransactionAddress removes the position of a transaction.
func DeleteTransactionAddress(db unitydb.KeyValueWriter, hash common.Hash) {
	del(db, txAddressKey(hash), "transaction address")
}

// ReadReceipts retrieves the receipts of a block.
func ReadReceipts(db unitydb.KeyValueReader, hash common.Hash) types.Receipts {
	data := get(db, blockReceiptsKey(hash))
	if len(data) == 0 {
		return nil
	}
	var receipts types.Receipts
	if err := rlp.Decode(bytes.NewReader(data), &receipts); err != nil {
		log.Error("Invalid receipt array RLP", "hash", hash, "err", err)
		return nil
	}
	return receipts
}

// WriteReceipts stores the receipts of a block.
func WriteReceipts(db unitydb.KeyValueWriter, hash common.Hash, receipts types.Receipts) {
	data, err := rlp.EncodeToBytes(receipts)
	if err != nil {
		log.Crit("Failed to encode block receipts", "err", err)
	}
	put(db, blockReceiptsKey(hash), data, "block receipts")
}

// DeleteReceipts removes the receipts of a block.
func DeleteReceipts(db unitydb.KeyValueWriter, hash common.Hash) {
	del(db, blockReceiptsKey(hash), "block receipts")
}

// ReadBloomGroup retrieves a group of the bloom index.
func ReadBloomGroup(db unitydb.KeyValueReader, pos bloomchain.GroupPosition) *types.BloomGroup {
	data := get(db, bloomGroupKey(pos))
	if len(data) == 0 {
		return nil
	}
	group := new(types.BloomGroup)
	if err := rlp.Decode(bytes.NewReader(data), group); err != nil {
		log.Error("Invalid bloom group RLP", "level", pos.Level, "index", pos.Index, "err", err)
		return nil
	}
	return group
}

// WriteBloomGroup stores a group of the bloom index.
func WriteBloomGroup(db unitydb.KeyValueWriter, pos bloomchain.GroupPosition, group *types.BloomGroup) {
	data, err := rlp.EncodeToBytes(group)
	if err != nil {
		log.Crit("Failed to encode bloom group", "err", err)
	}
	put(db, bloomGroupKey(pos), data, "bloom group")
}
