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
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
	"golang.org/x/sync/errgroup"
)

// BlocksWithBloom returns the canonical blocks within from..to inclusive
// whose log bloom may contain bloom, in ascending order.
func (bc *BlockChain) BlocksWithBloom(bloom types.Bloom, from, to uint64) []uint64 {
	return bloomchain.New(bc.bloomConfig, bc).WithBloom(from, to, bloom)
}

// BlocksWithBlooms returns the union of BlocksWithBloom over every bloom.
func (bc *BlockChain) BlocksWithBlooms(blooms []types.Bloom, from, to uint64) []uint64 {
	var (
		chain  = bloomchain.New(bc.bloomConfig, bc)
		result []uint64
	)
	for _, bloom := range blooms {
		result = append(result, chain.WithBloom(from, to, bloom)...)
	}
	slices.Sort(result)
	return slices.Compact(result)
}

// Logs returns the logs of the given canonical blocks accepted by match, in
// chain order. With a positive limit only the most recent limit logs are
// returned. A nil match accepts every log.
func (bc *BlockChain) Logs(blocks []uint64, match func(*types.Log) bool, limit int) []*types.LocalizedLog {
	numbers := slices.Clone(blocks)
	slices.SortFunc(numbers, func(a, b uint64) int { return cmp.Compare(b, a) })

	var logs []*types.LocalizedLog
	for start := 0; start < len(numbers); start += params.LogsChunkSize {
		var (
			chunk   = numbers[start:min(start+params.LogsChunkSize, len(numbers))]
			results = make([][]*types.LocalizedLog, len(chunk))
			g       errgroup.Group
		)
		g.SetLimit(runtime.NumCPU())
		for i, number := range chunk {
			g.Go(func() error {
				results[i] = bc.blockLogs(number, match, limit)
				return nil
			})
		}
		g.Wait()

		for _, entries := range results {
			logs = append(logs, entries...)
			if limit > 0 && len(logs) >= limit {
				logs = logs[:limit]
				slices.Reverse(logs)
				return logs
			}
		}
	}
	slices.Reverse(logs)
	return logs
}

// blockLogs collects the matching logs of a canonical block, latest first.
func (bc *BlockChain) blockLogs(number uint64, match func(*types.Log) bool, limit int) []*types.LocalizedLog {
	hash := bc.GetBlockHash(number)
	if hash == (common.Hash{}) {
		return nil
	}
	receipts := bc.GetBlockReceipts(hash)
	if receipts == nil {
		return nil
	}
	body := bc.GetBody(hash)
	if body == nil {
		return nil
	}
	if len(receipts) != len(body.Transactions) {
		log.Warn("Block receipts and transactions mismatch", "number", number, "hash", hash,
			"receipts", len(receipts), "txs", len(body.Transactions))
		panic(fmt.Sprintf("receipts of block #%d do not match its %d transactions", number, len(body.Transactions)))
	}
	var logIndex int
	for _, receipt := range receipts {
		logIndex += len(receipt.Logs)
	}
	var logs []*types.LocalizedLog
	for i := len(receipts) - 1; i >= 0; i-- {
		var (
			txHash  = body.Transactions[i].Hash()
			entries = receipts[i].Logs
		)
		logIndex -= len(entries)
		for j := len(entries) - 1; j >= 0; j-- {
			if match != nil && !match(entries[j]) {
				continue
			}
			logs = append(logs, &types.LocalizedLog{
				Log:         entries[j],
				BlockHash:   hash,
				BlockNumber: number,
				TxHash:      txHash,
				TxIndex:     uint(i),
				TxLogIndex:  uint(j),
				Index:       uint(logIndex + j),
			})
			if limit > 0 && len(logs) == limit {
				return logs
			}
		}
	}
	return logs
}
