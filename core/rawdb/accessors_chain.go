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
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/unitychain/go-unity/common/compress"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/unitydb"
)

// get retrieves a raw value, treating absence as nil and any other failure
// of the backing store as fatal.
func get(db unitydb.KeyValueReader, key []byte) []byte {
	data, err := db.Get(key)
	if err != nil {
		if errors.Is(err, unitydb.ErrNotFound) {
			return nil
		}
		log.Crit("Failed to read from database", "key", hexutil.Encode(key), "err", err)
	}
	return data
}

func has(db unitydb.KeyValueReader, key []byte) bool {
	ok, err := db.Has(key)
	if err != nil {
		log.Crit("Failed to query database", "key", hexutil.Encode(key), "err", err)
	}
	return ok
}

func put(db unitydb.KeyValueWriter, key, value []byte, what string) {
	if err := db.Put(key, value); err != nil {
		log.Crit("Failed to store "+what, "err", err)
	}
}

func del(db unitydb.KeyValueWriter, key []byte, what string) {
	if err := db.Delete(key); err != nil {
		log.Crit("Failed to delete "+what, "err", err)
	}
}

// readCompressed loads and inflates a snappy compressed blob.
func readCompressed(db unitydb.KeyValueReader, key []byte) []byte {
	data := get(db, key)
	if len(data) == 0 {
		return nil
	}
	blob, err := compress.Decompress(data)
	if err != nil {
		log.Crit("Corrupted compressed blob", "key", hexutil.Encode(key), "err", err)
	}
	return blob
}

// ReadHeaderRLP retrieves the uncompressed RLP encoding of a block header.
func ReadHeaderRLP(db unitydb.KeyValueReader, hash common.Hash) rlp.RawValue {
	return readCompressed(db, headerKey(hash))
}

// HasHeader verifies the existence of a block header corresponding to the hash.
func HasHeader(db unitydb.KeyValueReader, hash common.Hash) bool {
	return has(db, headerKey(hash))
}

// ReadHeader retrieves the block header corresponding to the hash.
func ReadHeader(db unitydb.KeyValueReader, hash common.Hash) *types.Header {
	data := ReadHeaderRLP(db, hash)
	if len(data) == 0 {
		return nil
	}
	header := new(types.Header)
	if err := rlp.Decode(bytes.NewReader(data), header); err != nil {
		log.Error("Invalid block header RLP", "hash", hash, "err", err)
		return nil
	}
	return header
}

// WriteHeaderRLP stores an RLP encoded header in compressed form.
func WriteHeaderRLP(db unitydb.KeyValueWriter, hash common.Hash, data rlp.RawValue) {
	put(db, headerKey(hash), compress.Compress(data), "header")
}

// WriteHeader stores a block header into the database.
func WriteHeader(db unitydb.KeyValueWriter, header *types.Header) {
	data, err := rlp.EncodeToBytes(header)
	if err != nil {
		log.Crit("Failed to RLP encode header", "err", err)
	}
	WriteHeaderRLP(db, header.Hash(), data)
}

// DeleteHeader removes the block header associated with a hash.
func DeleteHeader(db unitydb.KeyValueWriter, hash common.Hash) {
	del(db, headerKey(hash), "header")
}

// ReadBodyRLP retrieves the uncompressed RLP encoding of a block body.
func ReadBodyRLP(db unitydb.KeyValueReader, hash common.Hash) rlp.RawValue {
	return readCompressed(db, bodyKey(hash))
}

// HasBody verifies the existence of a block body corresponding to the hash.
func HasBody(db unitydb.KeyValueReader, hash common.Hash) bool {
	return has(db, bodyKey(hash))
}

// ReadBody retrieves the block body corresponding to the hash.
func ReadBody(db unitydb.KeyValueReader, hash common.Hash) *types.Body {
	data := ReadBodyRLP(db, hash)
	if len(data) == 0 {
		return nil
	}
	body := new(types.Body)
	if err := rlp.Decode(bytes.NewReader(data), body); err != nil {
		log.Error("Invalid block body RLP", "hash", hash, "err", err)
		return nil
	}
	return body
}

// WriteBodyRLP stores an RLP encoded block body in compressed form.
func WriteBodyRLP(db unitydb.KeyValueWriter, hash common.Hash, data rlp.RawValue) {
	put(db, bodyKey(hash), compress.Compress(data), "block body")
}

// WriteBody stores a block body into the database.
func WriteBody(db unitydb.KeyValueWriter, hash common.Hash, body *types.Body) {
	data, err := rlp.EncodeToBytes(body)
	if err != nil {
		log.Crit("Failed to RLP encode body", "err", err)
	}
	WriteBodyRLP(db, hash, data)
}

// DeleteBody removes all block body data associated with a hash.
func DeleteBody(db unitydb.KeyValueWriter, hash common.Hash) {
	del(db, bodyKey(hash), "block body")
}

// ReadBlock retrieves an entire block corresponding to the hash, assembling it
// back from the stored header and body.
func ReadBlock(db unitydb.KeyValueReader, hash common.Hash) *types.Block {
	header := ReadHeader(db, hash)
	if header == nil {
		return nil
	}
	body := ReadBody(db, hash)
	if body == nil {
		return nil
	}
	return types.NewBlockWithHeader(header).WithBody(*body)
}

// WriteBlock serializes a block into the database, header and body separately.
func WriteBlock(db unitydb.KeyValueWriter, block *types.Block) {
	WriteBody(db, block.Hash(), block.Body())
	WriteHeader(db, block.Header())
}

// DeleteBlock removes all block data associated with a hash.
func DeleteBlock(db unitydb.KeyValueWriter, hash common.Hash) {
	DeleteHeader(db, hash)
	DeleteBody(db, hash)
}

func readMetaHash(db unitydb.KeyValueReader, key []byte) *common.Hash {
	data := get(db, key)
	if len(data) != common.HashLength {
		return nil
	}
	hash := common.BytesToHash(data)
	return &hash
}

// ReadBestBlockHash retrieves the hash of the best canonical block, nil on a
// fresh database.
func ReadBestBlockHash(db unitydb.KeyValueReader) *common.Hash {
	return readMetaHash(db, bestBlockKey)
}

// WriteBestBlockHash stores the hash of the best canonical block.
func WriteBestBlockHash(db unitydb.KeyValueWriter, hash common.Hash) {
	put(db, bestBlockKey, hash.Bytes(), "best block hash")
}

// ReadFirstBlockHash retrieves the first block pointer.
func ReadFirstBlockHash(db unitydb.KeyValueReader) *common.Hash {
	return readMetaHash(db, firstBlockKey)
}

// WriteFirstBlockHash stores the first block pointer.
func WriteFirstBlockHash(db unitydb.KeyValueWriter, hash common.Hash) {
	put(db, firstBlockKey, hash.Bytes(), "first block hash")
}

// DeleteFirstBlockHash removes the first block pointer.
func DeleteFirstBlockHash(db unitydb.KeyValueWriter) {
	del(db, firstBlockKey, "first block hash")
}

// ReadAncientBlockHash retrieves the best ancient block pointer.
func ReadAncientBlockHash(db unitydb.KeyValueReader) *common.Hash {
	return readMetaHash(db, ancientBlockKey)
}

// WriteAncientBlockHash stores the best ancient block pointer.
func WriteAncientBlockHash(db unitydb.KeyValueWriter, hash common.Hash) {
	put(db, ancientBlockKey, hash.Bytes(), "ancient block hash")
}

// DeleteAncientBlockHash removes the best ancient block pointer.
func DeleteAncientBlockHash(db unitydb.KeyValueWriter) {
	del(db, ancientBlockKey, "ancient block hash")
}
