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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/unitydb"
)

const errPendingImport = "chain: another import is pending commit"

// extrasUpdate is the complete change set of one import.
type extrasUpdate struct {
	info     *BlockInfo
	block    *types.Block
	hashes   map[uint64]common.Hash // zero hash drops the mapping
	details  map[common.Hash]*types.BlockDetails
	receipts map[common.Hash]types.Receipts
	blooms   map[bloomchain.GroupPosition]*types.BloomGroup
	txAddrs  map[common.Hash]*types.TransactionAddress // nil drops the address
}

// extrasDelta is the part of an update staged for Commit.
type extrasDelta struct {
	best    *BestBlock
	hashes  map[uint64]common.Hash
	details map[common.Hash]*types.BlockDetails
	txAddrs map[common.Hash]*types.TransactionAddress
}

func (bc *BlockChain) assertIdle() {
	bc.pendingMu.Lock()
	pending := bc.pending != nil
	bc.pendingMu.Unlock()
	if pending {
		panic(errPendingImport)
	}
}

// InsertBlock stages a verified block into batch and the pending delta. The
// caller must hold the writer lock, write the batch and then call Commit
// before staging the next block. A block already recorded as a child of its
// parent yields an empty route and stages nothing.
//
// The parent of the block must be known.
func (bc *BlockChain) InsertBlock(batch unitydb.Batch, block *types.Block, receipts types.Receipts) (*ImportRoute, error) {
	hash := block.Hash()
	if bc.isKnownChild(block.ParentHash(), hash) {
		return new(ImportRoute), nil
	}
	bc.assertIdle()

	info, err := bc.blockInfo(block.Header())
	if err != nil {
		return nil, err
	}
	rawdb.WriteBlock(batch, block)

	if loc := info.Location; loc.Kind == BranchBecomingCanonChain {
		logFn := log.Info
		if len(loc.Retracted) > 63 {
			logFn = log.Warn
		}
		logFn("Chain reorg detected", "number", info.Number, "hash", hash, "ancestor", loc.Ancestor,
			"drop", len(loc.Retracted), "add", len(loc.Enacted))
		blockReorgMeter.Mark(1)
		blockReorgAddMeter.Mark(int64(len(loc.Enacted)))
		blockReorgDropMeter.Mark(int64(len(loc.Retracted)))
	}
	update := bc.newExtrasUpdate(block, receipts, info, bc.prepareBlockDetails(block, info))
	bc.prepareUpdate(batch, update, true)

	return newImportRoute(info), nil
}

// InsertUnorderedBlock stages a verified canonical block that may arrive out
// of order, as during snapshot restoration. The parent total difficulties
// are only used, and then mandatory, when the parent is unknown. isBest
// moves the head to the block, isAncient advances the ancient pointer.
//
// It returns whether the block is disconnected from any known parent.
func (bc *BlockChain) InsertUnorderedBlock(batch unitydb.Batch, block *types.Block, receipts types.Receipts, parentPowTD, parentPosTD *uint256.Int, isBest, isAncient bool) (bool, error) {
	var (
		hash   = block.Hash()
		header = block.Header()
	)
	if bc.IsKnown(hash) {
		return false, nil
	}
	bc.assertIdle()

	parent := bc.GetBlockDetails(header.ParentHash)
	if parent == nil {
		if parentPowTD == nil || parentPosTD == nil {
			panic(fmt.Sprintf("parent total difficulties required for disconnected block #%d", header.Number))
		}
		info, err := newCanonInfo(header, parentPowTD, parentPosTD)
		if err != nil {
			return false, err
		}
		details := map[common.Hash]*types.BlockDetails{
			hash: {
				Number:             info.Number,
				TotalDifficulty:    info.TotalDifficulty,
				PowTotalDifficulty: info.PowTotalDifficulty,
				PosTotalDifficulty: info.PosTotalDifficulty,
				Parent:             header.ParentHash,
			},
		}
		rawdb.WriteBlock(batch, block)
		bc.prepareUpdate(batch, bc.newExtrasUpdate(block, receipts, info, details), isBest)
		return true, nil
	}
	info, err := newCanonInfo(header, parent.PowTotalDifficulty, parent.PosTotalDifficulty)
	if err != nil {
		return false, err
	}
	rawdb.WriteBlock(batch, block)
	bc.prepareUpdate(batch, bc.newExtrasUpdate(block, receipts, info, bc.prepareBlockDetails(block, info)), isBest)

	if isAncient {
		bc.ancientMu.Lock()
		var number uint64
		if bc.ancient != nil {
			number = bc.ancient.Number
		}
		if bc.GetBlockHash(header.Number+1) != (common.Hash{}) {
			// The gap above is closed.
			rawdb.DeleteAncientBlockHash(batch)
			bc.ancient = nil
		} else if header.Number > number {
			rawdb.WriteAncientBlockHash(batch, hash)
			bc.ancient = &BestAncientBlock{Hash: hash, Number: header.Number}
		}
		bc.ancientMu.Unlock()
	}
	return false, nil
}

// newCanonInfo classifies a block as extending the canonical chain.
func newCanonInfo(header *types.Header, parentPow, parentPos *uint256.Int) (*BlockInfo, error) {
	pow, pos, err := accumulateDifficulty(parentPow, parentPos, header)
	if err != nil {
		return nil, err
	}
	return &BlockInfo{
		Hash:               header.Hash(),
		Number:             header.Number,
		TotalDifficulty:    types.TotalDifficultyOf(pow, pos),
		PowTotalDifficulty: pow,
		PosTotalDifficulty: pos,
		Location:           BlockLocation{Kind: CanonChain},
	}, nil
}

func (bc *BlockChain) newExtrasUpdate(block *types.Block, receipts types.Receipts, info *BlockInfo, details map[common.Hash]*types.BlockDetails) *extrasUpdate {
	if receipts == nil {
		receipts = types.Receipts{}
	}
	return &extrasUpdate{
		info:     info,
		block:    block,
		hashes:   bc.prepareBlockHashes(info),
		details:  details,
		receipts: map[common.Hash]types.Receipts{info.Hash: receipts},
		blooms:   bc.prepareBlockBlooms(block, info),
		txAddrs:  bc.prepareTransactionAddresses(block, info),
	}
}

// ancestorNumber returns the number of the common ancestor of a reorg.
func (bc *BlockChain) ancestorNumber(loc BlockLocation) uint64 {
	number := bc.GetBlockNumber(loc.Ancestor)
	if number == nil {
		panic(fmt.Sprintf("reorg ancestor %x not found", loc.Ancestor))
	}
	return *number
}

// prepareBlockHashes returns the canonical number to hash changes.
func (bc *BlockChain) prepareBlockHashes(info *BlockInfo) map[uint64]common.Hash {
	hashes := make(map[uint64]common.Hash)
	switch info.Location.Kind {
	case CanonChain:
		hashes[info.Number] = info.Hash
	case BranchBecomingCanonChain:
		start := bc.ancestorNumber(info.Location) + 1
		for i, hash := range info.Location.Enacted {
			hashes[start+uint64(i)] = hash
		}
		// A shorter branch leaves mappings of the old chain above the new head.
		for n := info.Number + 1; n <= bc.BestBlockNumber(); n++ {
			hashes[n] = common.Hash{}
		}
	}
	return hashes
}

// prepareBlockDetails returns the details of the block and the updated
// details of its parent.
func (bc *BlockChain) prepareBlockDetails(block *types.Block, info *BlockInfo) map[common.Hash]*types.BlockDetails {
	parentHash := block.ParentHash()
	parent := bc.GetBlockDetails(parentHash)
	if parent == nil {
		panic(fmt.Sprintf("invalid parent hash: %x", parentHash))
	}
	parent = parent.Copy()
	parent.Children = append(parent.Children, info.Hash)

	parentHeader := bc.GetHeader(parentHash)
	if parentHeader == nil {
		panic(fmt.Sprintf("missing parent header %x", parentHash))
	}
	antiSealParent := parentHash
	if block.SealType() == parentHeader.Algorithm() {
		antiSealParent = parent.AntiSealParent
	}
	return map[common.Hash]*types.BlockDetails{
		parentHash: parent,
		info.Hash: {
			Number:             info.Number,
			TotalDifficulty:    info.TotalDifficulty,
			PowTotalDifficulty: info.PowTotalDifficulty,
			PosTotalDifficulty: info.PosTotalDifficulty,
			Parent:             parentHash,
			AntiSealParent:     antiSealParent,
		},
	}
}

// prepareTransactionAddresses returns the transaction address changes. On a
// reorg the transactions of retracted blocks are dropped unless an enacted
// block includes them again.
func (bc *BlockChain) prepareTransactionAddresses(block *types.Block, info *BlockInfo) map[common.Hash]*types.TransactionAddress {
	addrs := make(map[common.Hash]*types.TransactionAddress)
	enact := func(hash common.Hash, txs []*types.Transaction) {
		for i, tx := range txs {
			addrs[tx.Hash()] = &types.TransactionAddress{BlockHash: hash, Index: uint64(i)}
		}
	}
	switch loc := info.Location; loc.Kind {
	case CanonChain:
		enact(info.Hash, block.Transactions())
	case BranchBecomingCanonChain:
		for _, hash := range loc.Retracted {
			body := bc.GetBody(hash)
			if body == nil {
				panic(fmt.Sprintf("retracted block %x missing", hash))
			}
			for _, tx := range body.Transactions {
				addrs[tx.Hash()] = nil
			}
		}
		for _, hash := range loc.Enacted[:len(loc.Enacted)-1] {
			body := bc.GetBody(hash)
			if body == nil {
				panic(fmt.Sprintf("enacted block %x missing", hash))
			}
			enact(hash, body.Transactions)
		}
		enact(info.Hash, block.Transactions())
	}
	return addrs
}

// prepareBlockBlooms returns the modified groups of the log bloom index.
func (bc *BlockChain) prepareBlockBlooms(block *types.Block, info *BlockInfo) map[bloomchain.GroupPosition]*types.BloomGroup {
	chain := bloomchain.New(bc.bloomConfig, bc)
	switch loc := info.Location; loc.Kind {
	case CanonChain:
		bloom := block.Bloom()
		if bloom.IsZero() {
			return nil
		}
		return chain.Insert(info.Number, bloom)
	case BranchBecomingCanonChain:
		blooms := make([]types.Bloom, 0, len(loc.Enacted))
		for _, hash := range loc.Enacted[:len(loc.Enacted)-1] {
			header := bc.GetHeader(hash)
			if header == nil {
				panic(fmt.Sprintf("enacted block %x missing", hash))
			}
			blooms = append(blooms, header.Bloom)
		}
		blooms = append(blooms, block.Bloom())
		return chain.Replace(bc.ancestorNumber(loc)+1, bc.BestBlockNumber(), blooms)
	}
	return nil
}

// prepareUpdate writes the update into batch and stages the cached part of
// it for Commit. Bloom groups skip the staging and go live at once, a log
// query must not see the retracted branch once the reorg is decided.
func (bc *BlockChain) prepareUpdate(batch unitydb.Batch, update *extrasUpdate, isBest bool) {
	bc.pendingMu.Lock()
	defer bc.pendingMu.Unlock()

	if bc.pending != nil {
		panic(errPendingImport)
	}
	info := update.info

	bc.bloomsMu.Lock()
	switch info.Location.Kind {
	case CanonChain:
		for pos, group := range update.blooms {
			if cached, ok := bc.blooms[pos]; ok {
				merged := *cached
				merged.Accrue(group)
				group = &merged
			}
			rawdb.WriteBloomGroup(batch, pos, group)
			bc.blooms[pos] = group
		}
	case BranchBecomingCanonChain:
		// Cached groups may cover numbers above the new head.
		bc.blooms = make(map[bloomchain.GroupPosition]*types.BloomGroup, len(update.blooms))
		for pos, group := range update.blooms {
			rawdb.WriteBloomGroup(batch, pos, group)
			bc.blooms[pos] = group
		}
	}
	bc.bloomsMu.Unlock()

	bc.receiptsMu.Lock()
	for hash, receipts := range update.receipts {
		rawdb.WriteReceipts(batch, hash, receipts)
		delete(bc.receipts, hash)
	}
	bc.receiptsMu.Unlock()

	delta := &extrasDelta{
		hashes:  update.hashes,
		details: update.details,
		txAddrs: update.txAddrs,
	}
	if isBest && info.Location.Kind != Branch {
		rawdb.WriteBestBlockHash(batch, info.Hash)
		delta.best = newBestBlock(update.block, info.TotalDifficulty, info.PowTotalDifficulty, info.PosTotalDifficulty)
	}
	for hash, details := range update.details {
		rawdb.WriteBlockDetails(batch, hash, details)
	}
	for number, hash := range update.hashes {
		if hash == (common.Hash{}) {
			rawdb.DeleteCanonicalHash(batch, number)
		} else {
			rawdb.WriteCanonicalHash(batch, hash, number)
		}
	}
	for txHash, addr := range update.txAddrs {
		if addr == nil {
			rawdb.DeleteTransactionAddress(batch, txHash)
		} else {
			rawdb.WriteTransactionAddress(batch, txHash, addr)
		}
	}
	bc.pending = delta

	bc.cacheMu.Lock()
	for pos := range update.blooms {
		bc.cacheMan.NoteUsed(cacheID{kind: cacheBlooms, bloom: pos})
	}
	bc.cacheMu.Unlock()
}

// Commit publishes the staged import to the caches. It must only be called
// once the batch filled by the import is durably written. Without a staged
// import it does nothing.
func (bc *BlockChain) Commit() {
	bc.pendingMu.Lock()
	defer bc.pendingMu.Unlock()

	delta := bc.pending
	if delta == nil {
		return
	}
	bc.pending = nil

	bc.bestMu.Lock()
	defer bc.bestMu.Unlock()
	bc.detailsMu.Lock()
	defer bc.detailsMu.Unlock()
	bc.hashesMu.Lock()
	defer bc.hashesMu.Unlock()
	bc.txAddrsMu.Lock()
	defer bc.txAddrsMu.Unlock()

	if delta.best != nil {
		bc.best = delta.best
		headBlockGauge.Update(int64(delta.best.Number))
	}
	for number, hash := range delta.hashes {
		if hash == (common.Hash{}) {
			delete(bc.hashes, number)
		} else {
			bc.hashes[number] = hash
		}
	}
	for hash, details := range delta.details {
		bc.details[hash] = details
	}
	for txHash, addr := range delta.txAddrs {
		if addr == nil {
			delete(bc.txAddrs, txHash)
		} else {
			bc.txAddrs[txHash] = addr
		}
	}

	bc.cacheMu.Lock()
	defer bc.cacheMu.Unlock()
	for number, hash := range delta.hashes {
		if hash != (common.Hash{}) {
			bc.cacheMan.NoteUsed(cacheID{kind: cacheHashes, number: number})
		}
	}
	for txHash, addr := range delta.txAddrs {
		if addr != nil {
			bc.cacheMan.NoteUsed(hashID(cacheTxAddress, txHash))
		}
	}
	for hash := range delta.details {
		bc.cacheMan.NoteUsed(hashID(cacheDetails, hash))
	}
}
