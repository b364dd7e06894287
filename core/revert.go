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
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/unitychain/go-unity/core/bloomchain"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
	"github.com/unitychain/go-unity/unitydb"
)

// dbGroups serves bloom groups straight from the database.
type dbGroups struct {
	db unitydb.KeyValueReader
}

func (g dbGroups) BloomsAt(pos bloomchain.GroupPosition) *types.BloomGroup {
	return rawdb.ReadBloomGroup(g.db, pos)
}

// RevertChain rewinds the canonical chain of an offline database to block
// to, removing every canonical block above it together with its indices.
// Side branches are left in place.
func RevertChain(db unitydb.Database, to uint64) error {
	head := rawdb.ReadBestBlockHash(db)
	if head == nil {
		return ErrNoBestBlock
	}
	best := rawdb.ReadBlockDetails(db, *head)
	if best == nil {
		return fmt.Errorf("%w: missing details of %x", ErrNoBestBlock, *head)
	}
	if to > best.Number {
		return fmt.Errorf("%w: target #%d, best #%d", ErrRevertTarget, to, best.Number)
	}
	target := rawdb.ReadCanonicalHash(db, to)
	if target == (common.Hash{}) {
		return fmt.Errorf("revert target #%d is not canonical", to)
	}
	details := rawdb.ReadBlockDetails(db, target)
	if details == nil {
		return fmt.Errorf("revert target #%d [%x..] has no details", to, target.Bytes()[:4])
	}
	log.Info("Reverting chain", "from", best.Number, "to", to, "hash", target)

	var (
		start    = time.Now()
		reported = time.Now()
		batch    = db.NewBatch()
		removed  int
	)
	for number := best.Number; number > to; number-- {
		hash := rawdb.ReadCanonicalHash(db, number)
		if hash == (common.Hash{}) {
			continue
		}
		if body := rawdb.ReadBody(db, hash); body != nil {
			for _, tx := range body.Transactions {
				rawdb.DeleteTransactionAddress(batch, tx.Hash())
			}
		}
		rawdb.DeleteReceipts(batch, hash)
		rawdb.DeleteBlock(batch, hash)
		rawdb.DeleteBlockDetails(batch, hash)
		rawdb.DeleteCanonicalHash(batch, number)

		if removed++; removed%params.RevertBatchBlocks == 0 {
			if err := batch.Write(); err != nil {
				return err
			}
			batch.Reset()
		}
		if time.Since(reported) >= statsReportLimit {
			log.Info("Reverting blocks", "number", number, "removed", removed, "elapsed", common.PrettyDuration(time.Since(start)))
			reported = time.Now()
		}
	}
	details = details.Copy()
	details.Children = nil
	rawdb.WriteBlockDetails(batch, target, details)
	rawdb.WriteBestBlockHash(batch, target)

	if first := rawdb.ReadFirstBlockHash(db); first != nil {
		if d := rawdb.ReadBlockDetails(db, *first); d == nil || d.Number > to {
			rawdb.DeleteFirstBlockHash(batch)
		}
	}
	if ancient := rawdb.ReadAncientBlockHash(db); ancient != nil {
		if d := rawdb.ReadBlockDetails(db, *ancient); d == nil || d.Number > to {
			rawdb.DeleteAncientBlockHash(batch)
		}
	}
	// Reset the log blooms of the removed range.
	for pos, group := range bloomchain.New(bloomchain.DefaultConfig, dbGroups{db}).Replace(to+1, best.Number, nil) {
		rawdb.WriteBloomGroup(batch, pos, group)
	}
	if err := batch.Write(); err != nil {
		return err
	}
	log.Info("Reverted chain", "number", to, "hash", target, "removed", removed, "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}
