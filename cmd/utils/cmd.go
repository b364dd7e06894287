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

package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/unitychain/go-unity/common/compress"
	"github.com/unitychain/go-unity/core"
	"github.com/unitychain/go-unity/core/types"
)

const (
	importBatchSize = 2500
)

// Fatalf formats a message to standard error and exits the program.
// The message is also printed to standard output if standard error
// is redirected to a different file.
func Fatalf(format string, args ...interface{}) {
	w := io.MultiWriter(os.Stdout, os.Stderr)
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		}
	}
	fmt.Fprintf(w, "Fatal: "+format+"\n", args...)
	os.Exit(1)
}

// ImportChain imports an export file into the chain. Files ending in ".gz"
// are decompressed on the fly.
func ImportChain(chain *core.BlockChain, fn string) error {
	// Watch for Ctrl-C while the import is running.
	// If a signal is received, the import will stop at the next batch.
	interrupt := make(chan os.Signal, 1)
	stop := make(chan struct{})
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	defer close(interrupt)
	go func() {
		if _, ok := <-interrupt; ok {
			log.Info("Interrupted during import, stopping at next batch")
		}
		close(stop)
	}()
	checkInterrupt := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}

	log.Info("Importing blockchain", "file", fn)

	fh, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	reader, err := compress.NewReader(fh, fn)
	if err != nil {
		return err
	}
	defer reader.Close()
	stream := rlp.NewStream(reader, 0)

	// Run actual the import.
	var (
		blocks   = make(types.Blocks, importBatchSize)
		receipts = make([]types.Receipts, importBatchSize)
		n        = 0
	)
	for batch := 0; ; batch++ {
		// Load a batch of RLP blocks.
		if checkInterrupt() {
			return errors.New("interrupted")
		}
		i := 0
		for ; i < importBatchSize; i++ {
			var record core.ExportedBlock
			if err := stream.Decode(&record); err == io.EOF {
				break
			} else if err != nil {
				return fmt.Errorf("at block %d: %v", n, err)
			}
			// Don't import the genesis block.
			if record.Block.NumberU64() == 0 {
				i--
				continue
			}
			blocks[i], receipts[i] = record.Block, record.Receipts
			n++
		}
		if i == 0 {
			break
		}
		// Import the batch.
		if checkInterrupt() {
			return errors.New("interrupted")
		}
		missing := missingBlocks(chain, blocks[:i])
		if len(missing) == 0 {
			log.Info("Skipping batch as all blocks present", "batch", batch, "first", blocks[0].Hash(), "last", blocks[i-1].Hash())
			continue
		}
		offset := i - len(missing)
		if failindex, err := chain.InsertChain(missing, receipts[offset:i]); err != nil {
			return fmt.Errorf("invalid block %d: %v", n-len(missing)+failindex, err)
		}
	}
	return nil
}

// missingBlocks returns the tail of the batch that is not yet in the chain.
func missingBlocks(chain *core.BlockChain, blocks []*types.Block) []*types.Block {
	for i, block := range blocks {
		if !chain.IsKnown(block.Hash()) {
			return blocks[i:]
		}
	}
	return nil
}

// ExportChain exports a blockchain into the specified file, truncating any data
// already present in the file.
func ExportChain(chain *core.BlockChain, fn string) error {
	return ExportAppendChain(chain, fn, 0, chain.BestBlockNumber(), false)
}

// ExportAppendChain exports a range of the canonical chain into the specified
// file. With append set the records are added after the existing content.
func ExportAppendChain(chain *core.BlockChain, fn string, first uint64, last uint64, append bool) error {
	log.Info("Exporting blockchain", "file", fn)

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if append {
		flags = os.O_CREATE | os.O_APPEND | os.O_WRONLY
	}
	fh, err := os.OpenFile(fn, flags, os.ModePerm)
	if err != nil {
		return err
	}
	defer fh.Close()

	writer := compress.NewWriter(fh, fn)
	if err := chain.ExportN(writer, first, last); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	log.Info("Exported blockchain", "file", fn)
	return nil
}
