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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unitychain/go-unity/core/bloomchain"
)

// The fields below define the low level database schema prefixing. The chain
// store keeps three logical columns in a single keyspace.
var (
	headerPrefix = []byte("h") // headerPrefix + hash -> snappy(header RLP)
	bodyPrefix   = []byte("b") // bodyPrefix + hash -> snappy(body RLP)
	extraPrefix  = []byte("e") // extraPrefix + index byte + ... -> extras

	// bestBlockKey tracks the hash of the best canonical block.
	bestBlockKey = []byte("ebest")

	// firstBlockKey tracks the lowest block of the contiguous canonical run
	// ending at the best block, when it is not the genesis.
	firstBlockKey = []byte("efirst")

	// ancientBlockKey tracks the highest block below an unfilled gap.
	ancientBlockKey = []byte("eancient")
)

// Extras index bytes following extraPrefix.
const (
	detailsIndex  byte = 0x00 // + hash -> BlockDetails RLP
	hashIndex     byte = 0x01 // + num (uint32 big endian) -> hash
	txAddrIndex   byte = 0x02 // + tx hash -> TransactionAddress RLP
	bloomIndex    byte = 0x03 // + level + index (uint32 big endian) -> BloomGroup RLP
	receiptsIndex byte = 0x04 // + hash -> receipts RLP
)

// encodeBlockNumber encodes a block number as a 4 byte big endian value.
func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 4)
	binary.BigEndian.PutUint32(enc, uint32(number))
	return enc
}

// headerKey = headerPrefix + hash
func headerKey(hash common.Hash) []byte {
	return append(append([]byte{}, headerPrefix...), hash.Bytes()...)
}

// bodyKey = bodyPrefix + hash
func bodyKey(hash common.Hash) []byte {
	return append(append([]byte{}, bodyPrefix...), hash.Bytes()...)
}

func extraKey(index byte, suffix ...[]byte) []byte {
	key := append(append([]byte{}, extraPrefix...), index)
	for _, s := range suffix {
		key = append(key, s...)
	}
	return key
}

// blockDetailsKey = extraPrefix + detailsIndex + hash
func blockDetailsKey(hash common.Hash) []byte {
	return extraKey(detailsIndex, hash.Bytes())
}

// canonicalHashKey = extraPrefix + hashIndex + num (uint32 big endian)
func canonicalHashKey(number uint64) []byte {
	return extraKey(hashIndex, encodeBlockNumber(number))
}

// txAddressKey = extraPrefix + txAddrIndex + tx hash
func txAddressKey(hash common.Hash) []byte {
	return extraKey(txAddrIndex, hash.Bytes())
}

// bloomGroupKey = extraPrefix + bloomIndex + level + index (uint32 big endian)
func bloomGroupKey(pos bloomchain.GroupPosition) []byte {
	index := make([]byte, 4)
	binary.BigEndian.PutUint32(index, pos.Index)
	return extraKey(bloomIndex, []byte{pos.Level}, index)
}

// blockReceiptsKey = extraPrefix + receiptsIndex + hash
func blockReceiptsKey(hash common.Hash) []byte {
	return extraKey(receiptsIndex, hash.Bytes())
}
