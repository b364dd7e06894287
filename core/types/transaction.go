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
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Transaction is a signed value or contract call transfer. Execution semantics
// live outside the chain store, only the identity and ordering of transactions
// matter here.
type Transaction struct {
	data txdata

	// caches
	hash atomic.Pointer[common.Hash]
	size atomic.Uint64
}

type txdata struct {
	Nonce       uint64
	To          *common.Address `rlp:"nil"` // nil means contract creation
	Value       *big.Int
	Data        []byte
	EnergyLimit uint64
	EnergyPrice *big.Int
	Timestamp   uint64
	Sig         []byte
}

// NewTransaction creates a transaction calling or transferring to the given
// address.
func NewTransaction(nonce uint64, to common.Address, amount *big.Int, energyLimit uint64, energyPrice *big.Int, data []byte) *Transaction {
	return newTransaction(nonce, &to, amount, energyLimit, energyPrice, data)
}

// NewContractCreation creates a transaction without a recipient.
func NewContractCreation(nonce uint64, amount *big.Int, energyLimit uint64, energyPrice *big.Int, data []byte) *Transaction {
	return newTransaction(nonce, nil, amount, energyLimit, energyPrice, data)
}

func newTransaction(nonce uint64, to *common.Address, amount *big.Int, energyLimit uint64, energyPrice *big.Int, data []byte) *Transaction {
	d := txdata{
		Nonce:       nonce,
		To:          to,
		Value:       new(big.Int),
		Data:        common.CopyBytes(data),
		EnergyLimit: energyLimit,
		EnergyPrice: new(big.Int),
	}
	if amount != nil {
		d.Value.Set(amount)
	}
	if energyPrice != nil {
		d.EnergyPrice.Set(energyPrice)
	}
	return &Transaction{data: d}
}

// WithSignature returns a copy of the transaction carrying the given
// signature and timestamp.
func (tx *Transaction) WithSignature(timestamp uint64, sig []byte) *Transaction {
	cpy := &Transaction{data: tx.data}
	cpy.data.Timestamp = timestamp
	cpy.data.Sig = common.CopyBytes(sig)
	return cpy
}

// EncodeRLP implements rlp.Encoder
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &tx.data)
}

// DecodeRLP implements rlp.Decoder
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	_, size, _ := s.Kind()
	err := s.Decode(&tx.data)
	if err == nil {
		tx.size.Store(rlp.ListSize(size))
	}
	return err
}

func (tx *Transaction) Nonce() uint64         { return tx.data.Nonce }
func (tx *Transaction) Data() []byte          { return common.CopyBytes(tx.data.Data) }
func (tx *Transaction) EnergyLimit() uint64   { return tx.data.EnergyLimit }
func (tx *Transaction) EnergyPrice() *big.Int { return new(big.Int).Set(tx.data.EnergyPrice) }
func (tx *Transaction) Value() *big.Int       { return new(big.Int).Set(tx.data.Value) }
func (tx *Transaction) Timestamp() uint64     { return tx.data.Timestamp }
func (tx *Transaction) Signature() []byte     { return common.CopyBytes(tx.data.Sig) }

// To returns the recipient address of the transaction.
// It returns nil if the transaction is a contract creation.
func (tx *Transaction) To() *common.Address {
	if tx.data.To == nil {
		return nil
	}
	to := *tx.data.To
	return &to
}

// Hash hashes the RLP encoding of tx.
// It uniquely identifies the transaction.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	v := rlpHash(tx)
	tx.hash.Store(&v)
	return v
}

// Size returns the true RLP encoded storage size of the transaction, either by
// encoding and returning it, or returning a previously cached value.
func (tx *Transaction) Size() uint64 {
	if size := tx.size.Load(); size > 0 {
		return size
	}
	c := writeCounter(0)
	rlp.Encode(&c, &tx.data)
	tx.size.Store(uint64(c))
	return uint64(c)
}

// Transactions is a Transaction slice type for basic sorting.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }
