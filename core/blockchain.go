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

// Package core implements the Unity chain store and fork choice.
package core

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	cachemgr "github.com/unitychain/go-unity/common/lru"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/internal/syncx"
	"github.com/unitychain/go-unity/params"
	"github.com/unitychain/go-unity/unitydb"
)

var (
	headBlockGauge = metrics.NewRegisteredGauge("chain/head/block", nil)
	cacheSizeGauge = metrics.NewRegisteredGauge("chain/cache/size", nil)

	blockInsertTimer = metrics.NewRegisteredTimer("chain/inserts", nil)

	blockReorgMeter     = metrics.NewRegisteredMeter("chain/reorg/executes", nil)
	blockReorgAddMeter  = metrics.NewRegisteredMeter("chain/reorg/add", nil)
	blockReorgDropMeter = metrics.NewRegisteredMeter("chain/reorg/drop", nil)
)

const (
	statsReportLimit = 8 * time.Second

	// gcInterval is the number of imported blocks between two cache
	// collections within a single InsertChain call.
	gcInterval = 256
)

// CacheConfig contains the memory budget of the chain caches.
type CacheConfig struct {
	PrefCacheSize    int // Size (bytes) the caches are steered towards
	MaxCacheSize     int // Size (bytes) the caches are never left above after a collection
	HeaderCacheItems int // Number of decoded headers kept around
}

// DefaultCacheConfig are the default caching values if none are specified by
// the user (also used during testing).
var DefaultCacheConfig = NewCacheConfig(params.DefaultChainCacheSize)

// NewCacheConfig derives a cache configuration from a memory allowance in
// megabytes.
func NewCacheConfig(mb int) *CacheConfig {
	return &CacheConfig{
		PrefCacheSize:    mb * 1024 * 1024 * 3 / 4,
		MaxCacheSize:     mb * 1024 * 1024,
		HeaderCacheItems: 512,
	}
}

// BestBlock is the head of the canonical chain together with its weight.
type BestBlock struct {
	Hash               common.Hash
	Number             uint64
	TotalDifficulty    *big.Int
	PowTotalDifficulty *uint256.Int
	PosTotalDifficulty *uint256.Int
	Timestamp          uint64
	Block              *types.Block

	headerRLP rlp.RawValue
	bodyRLP   rlp.RawValue
}

func newBestBlock(block *types.Block, td *big.Int, pow, pos *uint256.Int) *BestBlock {
	header, err := rlp.EncodeToBytes(block.Header())
	if err != nil {
		log.Crit("Failed to RLP encode header", "err", err)
	}
	body, err := rlp.EncodeToBytes(block.Body())
	if err != nil {
		log.Crit("Failed to RLP encode body", "err", err)
	}
	return &BestBlock{
		Hash:               block.Hash(),
		Number:             block.NumberU64(),
		TotalDifficulty:    td,
		PowTotalDifficulty: pow,
		PosTotalDifficulty: pos,
		Timestamp:          block.Time(),
		Block:              block,
		headerRLP:          header,
		bodyRLP:            body,
	}
}

// BestAncientBlock is the highest block below a gap left by an out of order
// import.
type BestAncientBlock struct {
	Hash   common.Hash
	Number uint64
}

// BlockChain represents the canonical chain given a database with a genesis
// block. It keeps the blocks of every known branch together with the indices
// needed to serve the canonical one, and decides which branch is canonical.
//
// Imports follow a two phase protocol. InsertBlock stages every change into a
// database batch and a pending delta, the caller writes the batch and then
// calls Commit to publish the delta to the live caches. Only one import may
// be staged at a time; InsertChain wraps the whole sequence under the writer
// lock.
//
// Lock order: pending, best, ancient, headers, bodies, details, hashes,
// txAddrs, blooms, receipts, cache manager.
type BlockChain struct {
	db          unitydb.Database
	cacheConfig *CacheConfig
	bloomConfig bloomchain.Config

	// This mutex synchronizes chain write operations.
	// Readers don't need to take it, they can just read the caches.
	chainmu  *syncx.ClosableMutex
	stopping atomic.Bool

	pendingMu sync.Mutex
	pending   *extrasDelta // staged by prepare, consumed by Commit

	bestMu sync.RWMutex
	best   *BestBlock

	ancientMu sync.RWMutex
	ancient   *BestAncientBlock

	genesisBlock *types.Block
	firstBlock   *common.Hash

	headersMu sync.RWMutex
	headers   map[common.Hash]rlp.RawValue
	bodiesMu  sync.RWMutex
	bodies    map[common.Hash]rlp.RawValue

	detailsMu  sync.RWMutex
	details    map[common.Hash]*types.BlockDetails
	hashesMu   sync.RWMutex
	hashes     map[uint64]common.Hash
	txAddrsMu  sync.RWMutex
	txAddrs    map[common.Hash]*types.TransactionAddress
	bloomsMu   sync.RWMutex
	blooms     map[bloomchain.GroupPosition]*types.BloomGroup
	receiptsMu sync.RWMutex
	receipts   map[common.Hash]types.Receipts

	headerCache *lru.Cache[common.Hash, *types.Header] // decoded headers

	cacheMu  sync.Mutex
	cacheMan *cachemgr.Manager[cacheID]
}

// NewBlockChain returns a fully initialised block chain using information
// available in the database. A fresh database is initialised with genesis,
// an existing one is checked against it when given.
func NewBlockChain(db unitydb.Database, cacheConfig *CacheConfig, genesis *types.Block) (*BlockChain, error) {
	if cacheConfig == nil {
		cacheConfig = DefaultCacheConfig
	}
	headerCache, err := lru.New[common.Hash, *types.Header](max(cacheConfig.HeaderCacheItems, 1))
	if err != nil {
		return nil, err
	}
	bc := &BlockChain{
		db:          db,
		cacheConfig: cacheConfig,
		bloomConfig: bloomchain.DefaultConfig,
		chainmu:     syncx.NewClosableMutex(),
		headers:     make(map[common.Hash]rlp.RawValue),
		bodies:      make(map[common.Hash]rlp.RawValue),
		details:     make(map[common.Hash]*types.BlockDetails),
		hashes:      make(map[uint64]common.Hash),
		txAddrs:     make(map[common.Hash]*types.TransactionAddress),
		blooms:      make(map[bloomchain.GroupPosition]*types.BloomGroup),
		receipts:    make(map[common.Hash]types.Receipts),
		headerCache: headerCache,
		cacheMan:    cachemgr.NewManager[cacheID](cacheConfig.PrefCacheSize, cacheConfig.MaxCacheSize, params.CacheBytesPerEntry),
	}
	if err := bc.setupGenesis(genesis); err != nil {
		return nil, err
	}
	if err := bc.loadLastState(); err != nil {
		return nil, err
	}
	return bc, nil
}

// setupGenesis writes the genesis block into an empty database, or verifies
// that an initialised database starts with it.
func (bc *BlockChain) setupGenesis(genesis *types.Block) error {
	if rawdb.ReadBestBlockHash(bc.db) != nil {
		stored := rawdb.ReadCanonicalHash(bc.db, 0)
		if genesis != nil && stored != (common.Hash{}) && stored != genesis.Hash() {
			return fmt.Errorf("%w: database %x, supplied %x", ErrGenesisMismatch, stored, genesis.Hash())
		}
		return nil
	}
	if genesis == nil {
		return ErrNoGenesis
	}
	var (
		hash    = genesis.Hash()
		header  = genesis.Header()
		details = &types.BlockDetails{
			Number:             header.Number,
			TotalDifficulty:    header.Difficulty.ToBig(),
			PowTotalDifficulty: new(uint256.Int).Set(header.Difficulty),
			PosTotalDifficulty: new(uint256.Int),
			Parent:             header.ParentHash,
		}
		batch = bc.db.NewBatch()
	)
	rawdb.WriteBlock(batch, genesis)
	rawdb.WriteBlockDetails(batch, hash, details)
	rawdb.WriteCanonicalHash(batch, hash, header.Number)
	rawdb.WriteBestBlockHash(batch, hash)
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to write genesis block: %w", err)
	}
	log.Info("Wrote genesis block", "number", header.Number, "hash", hash)
	return nil
}

// loadLastState loads the best block, the ancient pointer and the first block
// of the database into memory.
func (bc *BlockChain) loadLastState() error {
	head := rawdb.ReadBestBlockHash(bc.db)
	if head == nil {
		return ErrNoBestBlock
	}
	details := bc.GetBlockDetails(*head)
	if details == nil {
		return fmt.Errorf("%w: missing details of %x", ErrNoBestBlock, *head)
	}
	block := bc.GetBlock(*head)
	if block == nil {
		return fmt.Errorf("%w: missing block %x", ErrNoBestBlock, *head)
	}
	bc.genesisBlock = bc.GetBlockByNumber(0)
	if bc.genesisBlock == nil {
		return ErrNoGenesis
	}
	bc.best = newBestBlock(block, details.TotalDifficulty, details.PowTotalDifficulty, details.PosTotalDifficulty)
	headBlockGauge.Update(int64(block.NumberU64()))

	// A long chain without block 1 was imported out of order from a snapshot,
	// treat the genesis as the top of the ancient segment.
	if ancient := rawdb.ReadAncientBlockHash(bc.db); ancient != nil {
		if number := bc.GetBlockNumber(*ancient); number != nil {
			bc.ancient = &BestAncientBlock{Hash: *ancient, Number: *number}
		}
	} else if bc.best.Number > 1 && bc.GetBlockHash(1) == (common.Hash{}) {
		bc.ancient = &BestAncientBlock{Hash: bc.genesisBlock.Hash(), Number: 0}
	}

	if first := rawdb.ReadFirstBlockHash(bc.db); first != nil {
		bc.firstBlock = first
	} else {
		// Binary search for the lowest block of the canonical run ending
		// at the head.
		var (
			lo   uint64
			hi   = bc.best.Number
			hash = bc.best.Hash
		)
		if bc.ancient != nil {
			lo = bc.ancient.Number
		}
		for lo < hi {
			mid := lo + (hi-lo)/2
			if h := bc.GetBlockHash(mid); h != (common.Hash{}) {
				hi, hash = mid, h
			} else {
				lo = mid + 1
			}
		}
		if hash != bc.genesisBlock.Hash() {
			log.Debug("Located first block", "number", hi, "hash", hash)
			batch := bc.db.NewBatch()
			rawdb.WriteFirstBlockHash(batch, hash)
			if err := batch.Write(); err != nil {
				return fmt.Errorf("failed to store first block: %w", err)
			}
			bc.firstBlock = &hash
		}
	}
	log.Info("Loaded most recent local block", "number", bc.best.Number, "hash", bc.best.Hash,
		"td", bc.best.TotalDifficulty, "age", common.PrettyAge(time.Unix(int64(bc.best.Timestamp), 0)))
	return nil
}

// InsertChain attempts to insert the given batch of blocks in to the chain,
// running the whole two phase import for every block under the writer lock.
// If an error is returned it will return the index number of the failing
// block as well an error describing what went wrong.
func (bc *BlockChain) InsertChain(chain types.Blocks, receipts []types.Receipts) (int, error) {
	// Sanity check that we have something meaningful to import
	if len(chain) == 0 {
		return 0, nil
	}
	if len(receipts) != len(chain) {
		return 0, fmt.Errorf("%w: %d blocks, %d receipt lists", errInvalidReceipts, len(chain), len(receipts))
	}
	// Do a sanity check that the provided chain is actually ordered and linked.
	for i := 1; i < len(chain); i++ {
		block, prev := chain[i], chain[i-1]
		if block.NumberU64() != prev.NumberU64()+1 || block.ParentHash() != prev.Hash() {
			log.Error("Non contiguous block insert",
				"number", block.Number(),
				"hash", block.Hash(),
				"parent", block.ParentHash(),
				"prevnumber", prev.Number(),
				"prevhash", prev.Hash(),
			)
			return 0, fmt.Errorf("non contiguous insert: item %d is #%d [%x..], item %d is #%d [%x..] (parent [%x..])", i-1, prev.NumberU64(),
				prev.Hash().Bytes()[:4], i, block.NumberU64(), block.Hash().Bytes()[:4], block.ParentHash().Bytes()[:4])
		}
	}
	// Pre-check passed, start the full block imports.
	if !bc.chainmu.TryLock() {
		return 0, ErrChainStopped
	}
	defer bc.chainmu.Unlock()
	defer bc.CollectGarbage()

	var (
		start    = time.Now()
		reported = time.Now()
		stats    insertStats
	)
	for i, block := range chain {
		route, err := bc.insertOne(block, receipts[i])
		if err != nil {
			return i, err
		}
		stats.add(route, block)
		if i > 0 && i%gcInterval == 0 {
			bc.CollectGarbage()
		}
		if time.Since(reported) >= statsReportLimit || i == len(chain)-1 {
			stats.report(bc.BestBlockNumber(), start)
			reported, stats = time.Now(), insertStats{}
		}
	}
	return len(chain), nil
}

// insertOne runs classify, prepare, durable write and commit for one block.
func (bc *BlockChain) insertOne(block *types.Block, receipts types.Receipts) (*ImportRoute, error) {
	start := time.Now()
	hash := block.Hash()
	if BadHashes[hash] {
		return nil, fmt.Errorf("%w: %x", ErrBannedHash, hash)
	}
	if err := block.SanityCheck(); err != nil {
		return nil, err
	}
	if len(receipts) != len(block.Transactions()) {
		return nil, fmt.Errorf("%w: block #%d has %d transactions, %d receipts", errInvalidReceipts, block.NumberU64(), len(block.Transactions()), len(receipts))
	}
	if bc.GetBlockDetails(block.ParentHash()) == nil {
		return nil, fmt.Errorf("%w: #%d [%x..] parent %x", ErrUnknownAncestor, block.NumberU64(), hash.Bytes()[:4], block.ParentHash())
	}
	batch := bc.db.NewBatch()
	route, err := bc.InsertBlock(batch, block, receipts)
	if err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		log.Crit("Failed to write block into disk", "err", err)
	}
	bc.Commit()
	blockInsertTimer.UpdateSince(start)
	return route, nil
}

// Close stops the chain. Imports in progress finish first, later ones fail
// with ErrChainStopped.
func (bc *BlockChain) Close() {
	if !bc.stopping.CompareAndSwap(false, true) {
		return
	}
	bc.chainmu.Close()
	log.Info("Blockchain stopped")
}

// ExportedBlock is the record layout of chain export files.
type ExportedBlock struct {
	Block    *types.Block
	Receipts types.Receipts
}

// Export writes the active chain to the given writer.
func (bc *BlockChain) Export(w io.Writer) error {
	return bc.ExportN(w, uint64(0), bc.BestBlockNumber())
}

// ExportN writes a subset of the active chain to the given writer.
func (bc *BlockChain) ExportN(w io.Writer, first uint64, last uint64) error {
	if first > last {
		return fmt.Errorf("export failed: first (%d) is greater than last (%d)", first, last)
	}
	log.Info("Exporting batch of blocks", "count", last-first+1)

	var (
		parentHash common.Hash
		start      = time.Now()
		reported   = time.Now()
	)
	for nr := first; nr <= last; nr++ {
		block := bc.GetBlockByNumber(nr)
		if block == nil {
			return fmt.Errorf("export failed on #%d: not found", nr)
		}
		if nr > first && block.ParentHash() != parentHash {
			return errors.New("export failed: chain reorg during export")
		}
		parentHash = block.Hash()
		receipts := bc.GetBlockReceipts(block.Hash())
		if receipts == nil {
			receipts = types.Receipts{}
		}
		if err := rlp.Encode(w, &ExportedBlock{Block: block, Receipts: receipts}); err != nil {
			return err
		}
		if time.Since(reported) >= statsReportLimit {
			log.Info("Exporting blocks", "exported", block.NumberU64()-first, "elapsed", common.PrettyDuration(time.Since(start)))
			reported = time.Now()
		}
	}
	return nil
}

// insertStats tracks and reports on block insertion.
type insertStats struct {
	queued, reorgs, txs int
	last                *types.Block
}

func (st *insertStats) add(route *ImportRoute, block *types.Block) {
	st.queued++
	st.txs += len(block.Transactions())
	st.last = block
	if route != nil && len(route.Retracted) > 0 {
		st.reorgs++
	}
}

func (st *insertStats) report(head uint64, start time.Time) {
	if st.last == nil {
		return
	}
	context := []interface{}{
		"blocks", st.queued, "txs", st.txs, "reorgs", st.reorgs,
		"elapsed", common.PrettyDuration(time.Since(start)),
		"number", st.last.NumberU64(), "hash", st.last.Hash(), "head", head,
	}
	if timestamp := time.Unix(int64(st.last.Time()), 0); time.Since(timestamp) > time.Minute {
		context = append(context, []interface{}{"age", common.PrettyAge(timestamp)}...)
	}
	log.Info("Imported new chain segment", context...)
}
