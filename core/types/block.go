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

// Package types contains data types related to the Unity chain store.
package types

import (
	"fmt"
	"hash"
	"io"
	"math/big"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"
)

// SealType identifies which of the two hybrid consensus algorithms sealed a
// block.
type SealType uint8

const (
	// SealPoW is Algorithm-A, the proof-of-work seal.
	SealPoW SealType = 0x01
	// SealPoS is Algorithm-B, the proof-of-stake seal.
	SealPoS SealType = 0x02
)

// Normalize maps unset or unknown seal bytes onto the default, SealPoW.
func (s SealType) Normalize() SealType {
	if s == SealPoS {
		return SealPoS
	}
	return SealPoW
}

func (s SealType) String() string {
	switch s.Normalize() {
	case SealPoS:
		return "pos"
	default:
		return "pow"
	}
}

//go:generate go run github.com/fjl/gencodec -type Header -field-override headerMarshaling -out gen_header_json.go

// Header represents a block header in the Unity blockchain.
type Header struct {
	ParentHash   common.Hash    `json:"parentHash"       gencodec:"required"`
	Coinbase     common.Address `json:"miner"            gencodec:"required"`
	StateRoot    common.Hash    `json:"stateRoot"        gencodec:"required"`
	TxRoot       common.Hash    `json:"transactionsRoot" gencodec:"required"`
	ReceiptsRoot common.Hash    `json:"receiptsRoot"     gencodec:"required"`
	Bloom        Bloom          `json:"logsBloom"        gencodec:"required"`
	Difficulty   *uint256.Int   `json:"difficulty"       gencodec:"required"`
	Number       uint64         `json:"number"           gencodec:"required"`
	EnergyLimit  uint64         `json:"energyLimit"      gencodec:"required"`
	EnergyUsed   uint64         `json:"energyUsed"       gencodec:"required"`
	Time         uint64         `json:"timestamp"        gencodec:"required"`
	Extra        []byte         `json:"extraData"        gencodec:"required"`
	SealType     SealType       `json:"sealType"`
	Seal         [][]byte       `json:"seal"`
}

// field type overrides for gencodec
type headerMarshaling struct {
	Number      hexutil.Uint64
	EnergyLimit hexutil.Uint64
	EnergyUsed  hexutil.Uint64
	Time        hexutil.Uint64
	Extra       hexutil.Bytes
	SealType    hexutil.Uint64
	Seal        []hexutil.Bytes
	Hash        common.Hash `json:"hash"` // adds call to Hash() in MarshalJSON
}

// Hash returns the block hash of the header, which is the blake2b-256 hash of
// its RLP encoding.
func (h *Header) Hash() common.Hash {
	return rlpHash(h)
}

// Algorithm returns the normalized seal type of the header.
func (h *Header) Algorithm() SealType {
	return h.SealType.Normalize()
}

var headerSize = common.StorageSize(reflect.TypeOf(Header{}).Size())

// Size returns the approximate memory used by all internal contents. It is used
// to approximate and limit the memory consumption of various caches.
func (h *Header) Size() common.StorageSize {
	size := headerSize + common.StorageSize(len(h.Extra))
	for _, s := range h.Seal {
		size += common.StorageSize(len(s))
	}
	return size
}

// SanityCheck checks a few basic things -- these checks are way beyond what
// any 'sane' production values should hold, and can mainly be used to prevent
// that the unbounded fields are stuffed with junk data to add processing
// overhead
func (h *Header) SanityCheck() error {
	if h.Difficulty == nil {
		return fmt.Errorf("missing block difficulty")
	}
	if eLen := len(h.Extra); eLen > 100*1024 {
		return fmt.Errorf("too large block extradata: size %d", eLen)
	}
	return nil
}

// CopyHeader creates a deep copy of a block header to prevent side effects from
// modifying a header variable.
func CopyHeader(h *Header) *Header {
	cpy := *h
	if cpy.Difficulty = new(uint256.Int); h.Difficulty != nil {
		cpy.Difficulty.Set(h.Difficulty)
	}
	if len(h.Extra) > 0 {
		cpy.Extra = make([]byte, len(h.Extra))
		copy(cpy.Extra, h.Extra)
	}
	if len(h.Seal) > 0 {
		cpy.Seal = make([][]byte, len(h.Seal))
		for i, s := range h.Seal {
			cpy.Seal[i] = common.CopyBytes(s)
		}
	}
	return &cpy
}

// Body is a simple (mutable, non-safe) data container for storing and moving
// a block's data contents (transactions) together.
type Body struct {
	Transactions []*Transaction
}

// TransactionHashes returns the hashes of the body's transactions in order.
func (b *Body) TransactionHashes() []common.Hash {
	hashes := make([]common.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.Hash()
	}
	return hashes
}

// Block represents an entire block in the Unity blockchain.
type Block struct {
	header       *Header
	transactions Transactions

	// caches
	hash atomic.Pointer[common.Hash]
	size atomic.Uint64
}

// "external" block encoding. used for storage export and the best block blob.
type extblock struct {
	Header *Header
	Txs    []*Transaction
}

// NewBlock creates a new block. The input data is copied, changes to header
// and to the field values will not affect the block.
//
// The transaction root and the bloom of the header are derived from the
// supplied transactions and receipts.
func NewBlock(header *Header, txs []*Transaction, receipts []*Receipt) *Block {
	b := &Block{header: CopyHeader(header)}

	b.header.TxRoot = DeriveRoot(txs)
	if len(txs) > 0 {
		b.transactions = make(Transactions, len(txs))
		copy(b.transactions, txs)
	}
	if len(receipts) > 0 {
		b.header.Bloom = CreateBloom(receipts)
	}
	return b
}

// NewBlockWithHeader creates a block with the given header data. The
// header data is copied, changes to header and to the field values
// will not affect the block.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: CopyHeader(header)}
}

// WithBody returns a new block with the given transaction contents.
func (b *Block) WithBody(body Body) *Block {
	block := &Block{
		header:       b.header,
		transactions: make([]*Transaction, len(body.Transactions)),
	}
	copy(block.transactions, body.Transactions)
	return block
}

// DecodeRLP decodes a block from its external encoding.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	var eb extblock
	_, size, _ := s.Kind()
	if err := s.Decode(&eb); err != nil {
		return err
	}
	b.header, b.transactions = eb.Header, eb.Txs
	b.size.Store(rlp.ListSize(size))
	return nil
}

// EncodeRLP serializes b into the external RLP block format.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &extblock{
		Header: b.header,
		Txs:    b.transactions,
	})
}

func (b *Block) Transactions() Transactions { return b.transactions }

func (b *Block) Transaction(hash common.Hash) *Transaction {
	for _, transaction := range b.transactions {
		if transaction.Hash() == hash {
			return transaction
		}
	}
	return nil
}

func (b *Block) NumberU64() uint64         { return b.header.Number }
func (b *Block) Number() *big.Int          { return new(big.Int).SetUint64(b.header.Number) }
func (b *Block) Difficulty() *uint256.Int  { return new(uint256.Int).Set(b.header.Difficulty) }
func (b *Block) Time() uint64              { return b.header.Time }
func (b *Block) Bloom() Bloom              { return b.header.Bloom }
func (b *Block) Coinbase() common.Address  { return b.header.Coinbase }
func (b *Block) ParentHash() common.Hash   { return b.header.ParentHash }
func (b *Block) TxRoot() common.Hash       { return b.header.TxRoot }
func (b *Block) SealType() SealType        { return b.header.Algorithm() }
func (b *Block) Extra() []byte             { return common.CopyBytes(b.header.Extra) }
func (b *Block) Header() *Header           { return CopyHeader(b.header) }
func (b *Block) Body() *Body               { return &Body{b.transactions} }
func (b *Block) EnergyUsed() uint64        { return b.header.EnergyUsed }
func (b *Block) ReceiptsRoot() common.Hash { return b.header.ReceiptsRoot }

// TransactionHashes returns the hashes of the block's transactions in order.
func (b *Block) TransactionHashes() []common.Hash {
	return b.Body().TransactionHashes()
}

// Size returns the true RLP encoded storage size of the block, either by encoding
// and returning it, or returning a previously cached value.
func (b *Block) Size() uint64 {
	if size := b.size.Load(); size > 0 {
		return size
	}
	c := writeCounter(0)
	rlp.Encode(&c, b)
	b.size.Store(uint64(c))
	return uint64(c)
}

// SanityCheck can be used to prevent that unbounded fields are
// stuffed with junk data to add processing overhead
func (b *Block) SanityCheck() error {
	return b.header.SanityCheck()
}

type writeCounter uint64

func (c *writeCounter) Write(b []byte) (int, error) {
	*c += writeCounter(len(b))
	return len(b), nil
}

// Hash returns the blake2b hash of b's header.
// The hash is computed on the first call and cached thereafter.
func (b *Block) Hash() common.Hash {
	if hash := b.hash.Load(); hash != nil {
		return *hash
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

// Blocks is a list of blocks.
type Blocks []*Block

var hasherPool = sync.Pool{
	New: func() interface{} {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h
	},
}

// rlpHash encodes x and hashes the encoded bytes.
func rlpHash(x interface{}) (h common.Hash) {
	hw := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(hw)
	hw.Reset()
	rlp.Encode(hw, x)
	hw.Sum(h[:0])
	return h
}

// DeriveRoot commits to an ordered transaction list by hashing the
// concatenation of the transaction hashes.
func DeriveRoot(txs []*Transaction) common.Hash {
	if len(txs) == 0 {
		return EmptyRootHash
	}
	hashes := make([]common.Hash, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return rlpHash(hashes)
}

// EmptyRootHash is the transaction root of a block without transactions.
var EmptyRootHash = rlpHash([]common.Hash{})
