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
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
)

// bestBlock returns the current head, nil while the chain is being loaded.
func (bc *BlockChain) bestBlock() *BestBlock {
	bc.bestMu.RLock()
	defer bc.bestMu.RUnlock()
	return bc.best
}

// GetHeaderRLP retrieves the RLP encoded header of any known block.
func (bc *BlockChain) GetHeaderRLP(hash common.Hash) rlp.RawValue {
	bc.headersMu.RLock()
	blob, ok := bc.headers[hash]
	bc.headersMu.RUnlock()
	if ok {
		return blob
	}
	if best := bc.bestBlock(); best != nil && best.Hash == hash {
		return best.headerRLP
	}
	blob = rawdb.ReadHeaderRLP(bc.db, hash)
	if blob != nil {
		bc.headersMu.Lock()
		bc.headers[hash] = blob
		bc.headersMu.Unlock()
		bc.noteUsed(hashID(cacheHeader, hash))
	}
	return blob
}

// GetHeader retrieves a block header by hash, caching it if found. The
// returned header must not be modified.
func (bc *BlockChain) GetHeader(hash common.Hash) *types.Header {
	if header, ok := bc.headerCache.Get(hash); ok {
		return header
	}
	blob := bc.GetHeaderRLP(hash)
	if len(blob) == 0 {
		return nil
	}
	header := new(types.Header)
	if err := rlp.Decode(bytes.NewReader(blob), header); err != nil {
		log.Error("Invalid block header RLP", "hash", hash, "err", err)
		return nil
	}
	bc.headerCache.Add(hash, header)
	return header
}

// HasHeader checks if a block header is present in the database or not.
func (bc *BlockChain) HasHeader(hash common.Hash) bool {
	return bc.GetHeaderRLP(hash) != nil
}

// GetBodyRLP retrieves a block body in RLP encoding from the database by hash.
func (bc *BlockChain) GetBodyRLP(hash common.Hash) rlp.RawValue {
	bc.bodiesMu.RLock()
	blob, ok := bc.bodies[hash]
	bc.bodiesMu.RUnlock()
	if ok {
		return blob
	}
	if best := bc.bestBlock(); best != nil && best.Hash == hash {
		return best.bodyRLP
	}
	blob = rawdb.ReadBodyRLP(bc.db, hash)
	if blob != nil {
		bc.bodiesMu.Lock()
		bc.bodies[hash] = blob
		bc.bodiesMu.Unlock()
		bc.noteUsed(hashID(cacheBody, hash))
	}
	return blob
}

// GetBody retrieves a block body (transactions) from the database by hash.
func (bc *BlockChain) GetBody(hash common.Hash) *types.Body {
	blob := bc.GetBodyRLP(hash)
	if len(blob) == 0 {
		return nil
	}
	body := new(types.Body)
	if err := rlp.Decode(bytes.NewReader(blob), body); err != nil {
		log.Error("Invalid block body RLP", "hash", hash, "err", err)
		return nil
	}
	return body
}

// GetBlock retrieves a block from the database by hash.
func (bc *BlockChain) GetBlock(hash common.Hash) *types.Block {
	header := bc.GetHeader(hash)
	if header == nil {
		return nil
	}
	body := bc.GetBody(hash)
	if body == nil {
		return nil
	}
	return types.NewBlockWithHeader(header).WithBody(*body)
}

// GetBlockByNumber retrieves the canonical block with the given number.
func (bc *BlockChain) GetBlockByNumber(number uint64) *types.Block {
	hash := bc.GetBlockHash(number)
	if hash == (common.Hash{}) {
		return nil
	}
	return bc.GetBlock(hash)
}

// GetBlockDetails retrieves the familial details of any known block. The
// returned details must not be modified.
func (bc *BlockChain) GetBlockDetails(hash common.Hash) *types.BlockDetails {
	details, ok := readWithCache(&bc.detailsMu, bc.details, hash, func(hash common.Hash) (*types.BlockDetails, bool) {
		details := rawdb.ReadBlockDetails(bc.db, hash)
		return details, details != nil
	})
	if ok {
		bc.noteUsed(hashID(cacheDetails, hash))
	}
	return details
}

// GetBlockHash retrieves the hash of the canonical block with the given
// number, the zero hash if there is none.
func (bc *BlockChain) GetBlockHash(number uint64) common.Hash {
	hash, ok := readWithCache(&bc.hashesMu, bc.hashes, number, func(number uint64) (common.Hash, bool) {
		hash := rawdb.ReadCanonicalHash(bc.db, number)
		return hash, hash != (common.Hash{})
	})
	if ok {
		bc.noteUsed(cacheID{kind: cacheHashes, number: number})
	}
	return hash
}

// GetTransactionAddress retrieves the canonical position of a transaction.
func (bc *BlockChain) GetTransactionAddress(hash common.Hash) *types.TransactionAddress {
	addr, ok := readWithCache(&bc.txAddrsMu, bc.txAddrs, hash, func(hash common.Hash) (*types.TransactionAddress, bool) {
		addr := rawdb.ReadTransactionAddress(bc.db, hash)
		return addr, addr != nil
	})
	if ok {
		bc.noteUsed(hashID(cacheTxAddress, hash))
	}
	return addr
}

// GetBlockReceipts retrieves the receipts of any known block.
func (bc *BlockChain) GetBlockReceipts(hash common.Hash) types.Receipts {
	receipts, ok := readWithCache(&bc.receiptsMu, bc.receipts, hash, func(hash common.Hash) (types.Receipts, bool) {
		receipts := rawdb.ReadReceipts(bc.db, hash)
		return receipts, receipts != nil
	})
	if ok {
		bc.noteUsed(hashID(cacheReceipts, hash))
	}
	return receipts
}

// BloomsAt retrieves a group of the log bloom index.
func (bc *BlockChain) BloomsAt(pos bloomchain.GroupPosition) *types.BloomGroup {
	group, ok := readWithCache(&bc.bloomsMu, bc.blooms, pos, func(pos bloomchain.GroupPosition) (*types.BloomGroup, bool) {
		group := rawdb.ReadBloomGroup(bc.db, pos)
		return group, group != nil
	})
	if ok {
		bc.noteUsed(cacheID{kind: cacheBlooms, bloom: pos})
	}
	return group
}

// GetBlockNumber returns the number of any known block.
func (bc *BlockChain) GetBlockNumber(hash common.Hash) *uint64 {
	details := bc.GetBlockDetails(hash)
	if details == nil {
		return nil
	}
	number := details.Number
	return &number
}

// IsKnown reports whether the block is known, though not necessarily a part
// of the canonical chain.
func (bc *BlockChain) IsKnown(hash common.Hash) bool {
	return bc.GetBlockDetails(hash) != nil
}

// HasBlock checks if a block is fully present in the database or not.
func (bc *BlockChain) HasBlock(hash common.Hash) bool {
	return bc.IsKnown(hash) && bc.GetBodyRLP(hash) != nil
}

// isKnownChild reports whether hash is recorded as a child of parent.
func (bc *BlockChain) isKnownChild(parent, hash common.Hash) bool {
	details := bc.GetBlockDetails(parent)
	return details != nil && details.HasChild(hash)
}

// GetTransaction retrieves the transaction at the given address.
func (bc *BlockChain) GetTransaction(addr *types.TransactionAddress) *types.Transaction {
	body := bc.GetBody(addr.BlockHash)
	if body == nil || addr.Index >= uint64(len(body.Transactions)) {
		return nil
	}
	return body.Transactions[addr.Index]
}

// GetTransactionByHash retrieves a canonical transaction along with its
// position.
func (bc *BlockChain) GetTransactionByHash(hash common.Hash) (*types.Transaction, *types.TransactionAddress) {
	addr := bc.GetTransactionAddress(hash)
	if addr == nil {
		return nil, nil
	}
	tx := bc.GetTransaction(addr)
	if tx == nil {
		return nil, nil
	}
	return tx, addr
}

// GetReceipt retrieves the receipt of the transaction at the given address.
func (bc *BlockChain) GetReceipt(addr *types.TransactionAddress) *types.Receipt {
	receipts := bc.GetBlockReceipts(addr.BlockHash)
	if addr.Index >= uint64(len(receipts)) {
		return nil
	}
	return receipts[addr.Index]
}

// GetTransactions retrieves the transactions of any known block.
func (bc *BlockChain) GetTransactions(hash common.Hash) types.Transactions {
	body := bc.GetBody(hash)
	if body == nil {
		return nil
	}
	return body.Transactions
}

// Ancestors walks from hash towards the genesis, returning at most n hashes
// starting with hash itself. Unknown blocks end the walk.
func (bc *BlockChain) Ancestors(hash common.Hash, n int) []common.Hash {
	var hashes []common.Hash
	for len(hashes) < n && hash != (common.Hash{}) {
		details := bc.GetBlockDetails(hash)
		if details == nil {
			break
		}
		hashes = append(hashes, hash)
		hash = details.Parent
	}
	return hashes
}

// Genesis retrieves the chain's genesis block.
func (bc *BlockChain) Genesis() *types.Block {
	return bc.genesisBlock
}

// GenesisHash returns the hash of the canonical block 0.
func (bc *BlockChain) GenesisHash() common.Hash {
	return bc.genesisBlock.Hash()
}

// GenesisHeader returns the header of the genesis block.
func (bc *BlockChain) GenesisHeader() *types.Header {
	return bc.genesisBlock.Header()
}

// BestBlockHash returns the hash of the head block.
func (bc *BlockChain) BestBlockHash() common.Hash {
	return bc.bestBlock().Hash
}

// BestBlockNumber returns the number of the head block.
func (bc *BlockChain) BestBlockNumber() uint64 {
	return bc.bestBlock().Number
}

// BestBlockTimestamp returns the timestamp of the head block.
func (bc *BlockChain) BestBlockTimestamp() uint64 {
	return bc.bestBlock().Timestamp
}

// BestBlockTotalDifficulty returns the total difficulty of the head block.
func (bc *BlockChain) BestBlockTotalDifficulty() *big.Int {
	return new(big.Int).Set(bc.bestBlock().TotalDifficulty)
}

// BestBlockHeader returns the header of the head block.
func (bc *BlockChain) BestBlockHeader() *types.Header {
	return bc.bestBlock().Block.Header()
}

// BestBlock returns the head block.
func (bc *BlockChain) BestBlock() *types.Block {
	return bc.bestBlock().Block
}

// FirstBlock returns the lowest block of the canonical run ending at the head,
// nil if that run starts at the genesis. Blocks below it are not guaranteed
// to be available.
func (bc *BlockChain) FirstBlock() *common.Hash {
	return bc.firstBlock
}

// FirstBlockNumber returns the number of the first block.
func (bc *BlockChain) FirstBlockNumber() *uint64 {
	if bc.firstBlock == nil {
		return nil
	}
	return bc.GetBlockNumber(*bc.firstBlock)
}

// BestAncientBlock returns the highest block below the gap left by an out
// of order import, nil if there is no gap.
func (bc *BlockChain) BestAncientBlock() *BestAncientBlock {
	bc.ancientMu.RLock()
	defer bc.ancientMu.RUnlock()
	if bc.ancient == nil {
		return nil
	}
	cpy := *bc.ancient
	return &cpy
}

// SealParentHeader returns the nearest ancestor sealed like a child of
// parentHash sealed with sealType: the parent itself when the seal types
// match, the parent's anti seal parent otherwise.
func (bc *BlockChain) SealParentHeader(parentHash common.Hash, sealType types.SealType) *types.Header {
	parent := bc.GetHeader(parentHash)
	if parent == nil {
		return nil
	}
	if parent.Algorithm() == sealType.Normalize() {
		return parent
	}
	details := bc.GetBlockDetails(parentHash)
	if details == nil {
		return nil
	}
	return bc.GetHeader(details.AntiSealParent)
}

// BestBlockHeaderWithSealType returns the most recent canonical header sealed
// with sealType.
func (bc *BlockChain) BestBlockHeaderWithSealType(sealType types.SealType) *types.Header {
	best := bc.bestBlock()
	header := best.Block.Header()
	if header.Algorithm() == sealType.Normalize() {
		return header
	}
	details := bc.GetBlockDetails(best.Hash)
	if details == nil {
		return nil
	}
	return bc.GetHeader(details.AntiSealParent)
}

// ChainInfo summarizes the state of the chain.
type ChainInfo struct {
	TotalDifficulty        *big.Int
	PowTotalDifficulty     *uint256.Int
	PosTotalDifficulty     *uint256.Int
	PendingTotalDifficulty *big.Int
	GenesisHash            common.Hash
	BestBlockHash          common.Hash
	BestBlockNumber        uint64
	BestBlockTimestamp     uint64
	FirstBlockHash         *common.Hash
	FirstBlockNumber       *uint64
	AncientBlockHash       *common.Hash
	AncientBlockNumber     *uint64
}

// ChainInfo returns general blockchain information.
func (bc *BlockChain) ChainInfo() *ChainInfo {
	// Snapshot the head and the ancient pointer together
	bc.bestMu.RLock()
	bc.ancientMu.RLock()
	best, ancient := bc.best, bc.ancient
	bc.ancientMu.RUnlock()
	bc.bestMu.RUnlock()

	info := &ChainInfo{
		TotalDifficulty:        new(big.Int).Set(best.TotalDifficulty),
		PowTotalDifficulty:     new(uint256.Int).Set(best.PowTotalDifficulty),
		PosTotalDifficulty:     new(uint256.Int).Set(best.PosTotalDifficulty),
		PendingTotalDifficulty: new(big.Int).Set(best.TotalDifficulty),
		GenesisHash:            bc.GenesisHash(),
		BestBlockHash:          best.Hash,
		BestBlockNumber:        best.Number,
		BestBlockTimestamp:     best.Timestamp,
		FirstBlockHash:         bc.FirstBlock(),
		FirstBlockNumber:       bc.FirstBlockNumber(),
	}
	if ancient != nil {
		hash, number := ancient.Hash, ancient.Number
		info.AncientBlockHash, info.AncientBlockNumber = &hash, &number
	}
	return info
}
