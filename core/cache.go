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
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unitychain/go-unity/core/bloomchain"
)

type cacheKind uint8

const (
	cacheHeader cacheKind = iota
	cacheBody
	cacheDetails
	cacheHashes
	cacheTxAddress
	cacheBlooms
	cacheReceipts
)

// cacheID identifies an entry of one of the chain caches.
type cacheID struct {
	kind   cacheKind
	hash   common.Hash              // header, body, details, tx address, receipts
	number uint64                   // hashes
	bloom  bloomchain.GroupPosition // blooms
}

func hashID(kind cacheKind, hash common.Hash) cacheID {
	return cacheID{kind: kind, hash: hash}
}

func (bc *BlockChain) noteUsed(id cacheID) {
	bc.cacheMu.Lock()
	bc.cacheMan.NoteUsed(id)
	bc.cacheMu.Unlock()
}

// readWithCache returns the cached value of key, falling back to load and
// caching what it returns. A value cached concurrently is never overwritten,
// it is at least as recent as the loaded one.
func readWithCache[K comparable, V any](mu *sync.RWMutex, cache map[K]V, key K, load func(K) (V, bool)) (V, bool) {
	mu.RLock()
	v, ok := cache[key]
	mu.RUnlock()
	if ok {
		return v, true
	}
	if v, ok = load(key); !ok {
		return v, false
	}
	mu.Lock()
	if cached, exists := cache[key]; exists {
		v = cached
	} else {
		cache[key] = v
	}
	mu.Unlock()
	return v, true
}

// CacheSize is the memory held by the chain caches, per table.
type CacheSize struct {
	Blocks               common.StorageSize
	BlockDetails         common.StorageSize
	BlockHashes          common.StorageSize
	TransactionAddresses common.StorageSize
	Blooms               common.StorageSize
	Receipts             common.StorageSize
}

// Total returns the memory held by all tables.
func (s CacheSize) Total() common.StorageSize {
	return s.Blocks + s.BlockDetails + s.BlockHashes + s.TransactionAddresses + s.Blooms + s.Receipts
}

// CacheSize returns the current memory used by the caches.
func (bc *BlockChain) CacheSize() CacheSize {
	var size CacheSize

	bc.headersMu.RLock()
	bc.bodiesMu.RLock()
	size.Blocks = bc.blocksSize()
	bc.bodiesMu.RUnlock()
	bc.headersMu.RUnlock()

	bc.detailsMu.RLock()
	size.BlockDetails = bc.detailsSize()
	bc.detailsMu.RUnlock()

	bc.hashesMu.RLock()
	size.BlockHashes = bc.hashesSize()
	bc.hashesMu.RUnlock()

	bc.txAddrsMu.RLock()
	size.TransactionAddresses = bc.txAddrsSize()
	bc.txAddrsMu.RUnlock()

	bc.bloomsMu.RLock()
	size.Blooms = bc.bloomsSize()
	bc.bloomsMu.RUnlock()

	bc.receiptsMu.RLock()
	size.Receipts = bc.receiptsSize()
	bc.receiptsMu.RUnlock()

	return size
}

// The size helpers below expect the lock of their table to be held.

func (bc *BlockChain) blocksSize() common.StorageSize {
	var size common.StorageSize
	for _, blob := range bc.headers {
		size += common.StorageSize(common.HashLength + len(blob))
	}
	for _, blob := range bc.bodies {
		size += common.StorageSize(common.HashLength + len(blob))
	}
	return size
}

func (bc *BlockChain) detailsSize() common.StorageSize {
	var size common.StorageSize
	for _, details := range bc.details {
		size += common.HashLength + details.Size()
	}
	return size
}

func (bc *BlockChain) hashesSize() common.StorageSize {
	return common.StorageSize(len(bc.hashes) * (8 + common.HashLength))
}

func (bc *BlockChain) txAddrsSize() common.StorageSize {
	return common.StorageSize(len(bc.txAddrs) * (common.HashLength + common.HashLength + 8))
}

func (bc *BlockChain) bloomsSize() common.StorageSize {
	var size common.StorageSize
	for _, group := range bc.blooms {
		size += 5 + group.Size()
	}
	return size
}

func (bc *BlockChain) receiptsSize() common.StorageSize {
	var size common.StorageSize
	for _, receipts := range bc.receipts {
		size += common.HashLength + receipts.Size()
	}
	return size
}

// CollectGarbage ticks the cache manager, evicting the least recently used
// entries while the caches exceed their budget.
func (bc *BlockChain) CollectGarbage() {
	current := bc.CacheSize().Total()

	bc.headersMu.Lock()
	defer bc.headersMu.Unlock()
	bc.bodiesMu.Lock()
	defer bc.bodiesMu.Unlock()
	bc.detailsMu.Lock()
	defer bc.detailsMu.Unlock()
	bc.hashesMu.Lock()
	defer bc.hashesMu.Unlock()
	bc.txAddrsMu.Lock()
	defer bc.txAddrsMu.Unlock()
	bc.bloomsMu.Lock()
	defer bc.bloomsMu.Unlock()
	bc.receiptsMu.Lock()
	defer bc.receiptsMu.Unlock()

	bc.cacheMu.Lock()
	defer bc.cacheMu.Unlock()

	after := current
	bc.cacheMan.CollectGarbage(int(current), func(ids []cacheID) int {
		for _, id := range ids {
			switch id.kind {
			case cacheHeader:
				delete(bc.headers, id.hash)
			case cacheBody:
				delete(bc.bodies, id.hash)
			case cacheDetails:
				delete(bc.details, id.hash)
			case cacheHashes:
				delete(bc.hashes, id.number)
			case cacheTxAddress:
				delete(bc.txAddrs, id.hash)
			case cacheBlooms:
				delete(bc.blooms, id.bloom)
			case cacheReceipts:
				delete(bc.receipts, id.hash)
			}
		}
		after = bc.blocksSize() + bc.detailsSize() + bc.hashesSize() + bc.txAddrsSize() + bc.bloomsSize() + bc.receiptsSize()
		return int(after)
	})
	cacheSizeGauge.Update(int64(after))
}
