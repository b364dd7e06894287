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
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/unitychain/go-unity/unitydb"
)

type counter uint64

func (c counter) String() string {
	return fmt.Sprintf("%d", c)
}

// stat stores sizes and count for a parameter
type stat struct {
	size  common.StorageSize
	count counter
}

// Add size to the stat and increase the counter by 1
func (s *stat) Add(size common.StorageSize) {
	s.size += size
	s.count++
}

func (s *stat) Size() string {
	return s.size.String()
}

func (s *stat) Count() string {
	return s.count.String()
}

// InspectDatabase traverses the entire database and writes the size and item
// count of every table to w.
func InspectDatabase(db unitydb.Database, w io.Writer) error {
	it := db.NewIterator(nil, nil)
	defer it.Release()

	var (
		count  int64
		start  = time.Now()
		logged = time.Now()

		headers  stat
		bodies   stat
		details  stat
		hashes   stat
		txAddrs  stat
		blooms   stat
		receipts stat
		metadata stat
		unknown  stat
	)
	for it.Next() {
		var (
			key  = it.Key()
			size = common.StorageSize(len(key) + len(it.Value()))
		)
		switch {
		case bytes.HasPrefix(key, headerPrefix) && len(key) == len(headerPrefix)+common.HashLength:
			headers.Add(size)
		case bytes.HasPrefix(key, bodyPrefix) && len(key) == len(bodyPrefix)+common.HashLength:
			bodies.Add(size)
		case bytes.Equal(key, bestBlockKey), bytes.Equal(key, firstBlockKey), bytes.Equal(key, ancientBlockKey):
			metadata.Add(size)
		case bytes.HasPrefix(key, extraPrefix) && len(key) > len(extraPrefix):
			switch key[len(extraPrefix)] {
			case detailsIndex:
				details.Add(size)
			case hashIndex:
				hashes.Add(size)
			case txAddrIndex:
				txAddrs.Add(size)
			case bloomIndex:
				blooms.Add(size)
			case receiptsIndex:
				receipts.Add(size)
			default:
				unknown.Add(size)
			}
		default:
			unknown.Add(size)
		}
		count++
		if count%1000 == 0 && time.Since(logged) > 8*time.Second {
			log.Info("Inspecting database", "count", count, "elapsed", common.PrettyDuration(time.Since(start)))
			logged = time.Now()
		}
	}
	if err := it.Error(); err != nil {
		return err
	}
	stats := [][]string{
		{"Blocks", "Headers", headers.Size(), headers.Count()},
		{"Blocks", "Bodies", bodies.Size(), bodies.Count()},
		{"Extras", "Block details", details.Size(), details.Count()},
		{"Extras", "Canonical hashes", hashes.Size(), hashes.Count()},
		{"Extras", "Transaction addresses", txAddrs.Size(), txAddrs.Count()},
		{"Extras", "Bloom groups", blooms.Size(), blooms.Count()},
		{"Extras", "Receipts", receipts.Size(), receipts.Count()},
		{"Extras", "Chain pointers", metadata.Size(), metadata.Count()},
	}
	total := headers.size + bodies.size + details.size + hashes.size + txAddrs.size + blooms.size + receipts.size + metadata.size + unknown.size
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Database", "Category", "Size", "Items"})
	table.SetFooter([]string{"", "Total", total.String(), " "})
	table.AppendBulk(stats)
	table.Render()

	if unknown.size > 0 {
		log.Error("Database contains unaccounted data", "size", unknown.size, "count", unknown.count)
	}
	return nil
}
