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
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBloom(t *testing.T) {
	positive := []string{
		"testtest",
		"test",
		"hallo",
		"other",
	}
	negative := []string{
		"tes",
		"lo",
	}

	var bloom Bloom
	for _, data := range positive {
		bloom.Add([]byte(data))
	}

	for _, data := range positive {
		if !bloom.Test([]byte(data)) {
			t.Error("expected", data, "to test true")
		}
	}
	for _, data := range negative {
		if bloom.Test([]byte(data)) {
			t.Error("did not expect", data, "to test true")
		}
	}
}

func TestBloomContains(t *testing.T) {
	var a, b Bloom
	a.Add([]byte("alpha"))
	b.Add([]byte("beta"))

	if a.ContainsBloom(b) {
		t.Fatal("disjoint bloom reported as contained")
	}
	ab := a
	ab.Accrue(b)
	if !ab.ContainsBloom(a) || !ab.ContainsBloom(b) {
		t.Fatal("accrued bloom misses a member")
	}
	if !a.ContainsBloom(Bloom{}) {
		t.Fatal("every bloom contains the empty bloom")
	}
	if !(Bloom{}).IsZero() || a.IsZero() {
		t.Fatal("zero check mismatch")
	}
}

func TestReceiptBloom(t *testing.T) {
	addr := common.HexToAddress("0x1234")
	topic := common.HexToHash("0xbeef")
	r := NewReceipt(false, 21000, []*Log{{Address: addr, Topics: []common.Hash{topic}}})

	if !BloomLookup(r.Bloom, addr) || !BloomLookup(r.Bloom, topic) {
		t.Fatal("receipt bloom misses its log")
	}
	if CreateBloom([]*Receipt{r}) != r.Bloom {
		t.Fatal("block bloom differs from the single receipt bloom")
	}
}

func TestBloomText(t *testing.T) {
	var b Bloom
	b.Add([]byte("unity"))
	text, err := b.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var dec Bloom
	if err := dec.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if dec != b {
		t.Fatal("text round trip mismatch")
	}
}
