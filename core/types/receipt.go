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

package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ReceiptStatusFailed is the status code of a transaction if execution failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction if execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Log represents a contract log event. These events are generated by the
// executor and stored alongside the receipts.
type Log struct {
	// address of the contract that generated the event
	Address common.Address `json:"address"`
	// list of topics provided by the contract.
	Topics []common.Hash `json:"topics"`
	// supplied by the contract, usually ABI-encoded
	Data []byte `json:"data"`
}

// Receipt represents the results of a transaction.
type Receipt struct {
	Status               uint64 `json:"status"`
	CumulativeEnergyUsed uint64 `json:"cumulativeEnergyUsed"`
	EnergyUsed           uint64 `json:"energyUsed"`
	Bloom                Bloom  `json:"logsBloom"`
	Logs                 []*Log `json:"logs"`
}

// NewReceipt creates a receipt carrying the given logs and their bloom.
func NewReceipt(failed bool, cumulativeEnergyUsed uint64, logs []*Log) *Receipt {
	r := &Receipt{
		CumulativeEnergyUsed: cumulativeEnergyUsed,
		Logs:                 logs,
		Status:               ReceiptStatusSuccessful,
	}
	if failed {
		r.Status = ReceiptStatusFailed
	}
	r.Bloom = LogsBloom(logs)
	return r
}

// Size returns the approximate memory used by all internal contents.
func (r *Receipt) Size() common.StorageSize {
	size := common.StorageSize(BloomByteLength + 3*8)
	for _, log := range r.Logs {
		size += common.StorageSize(len(log.Topics)*common.HashLength + len(log.Data) + common.AddressLength)
	}
	return size
}

// Receipts implements DerivableList for receipts.
type Receipts []*Receipt

// Len returns the number of receipts in this list.
func (rs Receipts) Len() int { return len(rs) }

// Size returns the approximate memory used by the receipts.
func (rs Receipts) Size() common.StorageSize {
	var size common.StorageSize
	for _, r := range rs {
		size += r.Size()
	}
	return size
}

// LocalizedLog is a log positioned within the chain.
type LocalizedLog struct {
	*Log

	BlockHash   common.Hash `json:"blockHash"`
	BlockNumber uint64      `json:"blockNumber"`
	TxHash      common.Hash `json:"transactionHash"`
	// index of the transaction in the block
	TxIndex uint `json:"transactionIndex"`
	// index of the log within its transaction
	TxLogIndex uint `json:"transactionLogIndex"`
	// index of the log in the block
	Index uint `json:"logIndex"`
}
