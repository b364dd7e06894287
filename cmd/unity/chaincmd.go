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

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/unitychain/go-unity/cmd/utils"
	"github.com/unitychain/go-unity/core"
	"github.com/unitychain/go-unity/core/rawdb"
	"gopkg.in/urfave/cli.v1"
)

var (
	initCommand = cli.Command{
		Action:    utils.MigrateFlags(initChain),
		Name:      "init",
		Usage:     "Bootstrap and initialize a new chain database",
		ArgsUsage: " ",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
		Description: `
The init command writes the genesis block selected by --genesis (or the
built-in one) into an empty database. An existing database must hold the
same genesis.`,
	}
	importCommand = cli.Command{
		Action:    utils.MigrateFlags(importChain),
		Name:      "import",
		Usage:     "Import a blockchain file",
		ArgsUsage: "<filename> (<filename 2> ... <filename N>) ",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
		Description: `
The import command imports blocks and their receipts from an export file.
The file can be gzipped. If only one file is used, an import error will
result in failure. If several files are used, processing will proceed even
if an individual file fails to import.`,
	}
	exportCommand = cli.Command{
		Action:    utils.MigrateFlags(exportChain),
		Name:      "export",
		Usage:     "Export blockchain into file",
		ArgsUsage: "<filename> [<blockNumFirst> <blockNumLast>]",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
		Description: `
Requires a first argument of the file to write to.
Optional second and third arguments control the first and
last block to write. In this mode, the file will be appended
if already existing. If the file ends with .gz, the output will
be gzipped.`,
	}
	revertCommand = cli.Command{
		Action:    utils.MigrateFlags(revertChain),
		Name:      "revert",
		Usage:     "Roll the canonical chain back to a block number",
		ArgsUsage: "<blockNum>",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
		Description: `
The revert command removes every canonical block above the given number
together with its receipts, indexes and bloom entries. Blocks on side
branches are left in place.`,
	}
	infoCommand = cli.Command{
		Action:    utils.MigrateFlags(showInfo),
		Name:      "info",
		Usage:     "Print the chain head and pointers",
		ArgsUsage: " ",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
	}
	inspectCommand = cli.Command{
		Action:    utils.MigrateFlags(inspect),
		Name:      "inspect",
		Usage:     "Inspect the storage size for each type of data in the database",
		ArgsUsage: " ",
		Flags:     chainFlags,
		Category:  "BLOCKCHAIN COMMANDS",
	}
)

// initChain opens the chain once, which writes the genesis into an empty
// database or checks it against an existing one.
func initChain(ctx *cli.Context) error {
	chain, db := utils.MakeChain(ctx, false)
	defer db.Close()
	defer chain.Close()

	log.Info("Successfully wrote genesis state", "hash", chain.GenesisHash())
	return nil
}

func importChain(ctx *cli.Context) error {
	if len(ctx.Args()) < 1 {
		utils.Fatalf("This command requires an argument.")
	}
	chain, db := utils.MakeChain(ctx, false)
	defer db.Close()
	defer chain.Close()

	start := time.Now()
	var importErr error
	if len(ctx.Args()) == 1 {
		if err := utils.ImportChain(chain, ctx.Args().First()); err != nil {
			importErr = err
			log.Error("Import error", "err", err)
		}
	} else {
		for _, arg := range ctx.Args() {
			if err := utils.ImportChain(chain, arg); err != nil {
				importErr = err
				log.Error("Import error", "file", arg, "err", err)
			}
		}
	}
	chain.CollectGarbage()
	fmt.Printf("Import done in %v.\n\n", time.Since(start))

	size := chain.CacheSize()
	fmt.Printf("Cache usage: %v (blocks %v, details %v, hashes %v, tx addresses %v, blooms %v, receipts %v)\n",
		size.Total(), size.Blocks, size.BlockDetails, size.BlockHashes, size.TransactionAddresses, size.Blooms, size.Receipts)
	return importErr
}

func exportChain(ctx *cli.Context) error {
	if len(ctx.Args()) < 1 {
		utils.Fatalf("This command requires an argument.")
	}
	chain, db := utils.MakeChain(ctx, true)
	defer db.Close()
	defer chain.Close()

	start := time.Now()

	var err error
	fp := ctx.Args().First()
	if len(ctx.Args()) < 3 {
		err = utils.ExportChain(chain, fp)
	} else {
		// This can be improved to allow for numbers larger than 9223372036854775807
		first, ferr := strconv.ParseInt(ctx.Args().Get(1), 10, 64)
		last, lerr := strconv.ParseInt(ctx.Args().Get(2), 10, 64)
		if ferr != nil || lerr != nil {
			utils.Fatalf("Export error in parsing parameters: block number not an integer\n")
		}
		if first < 0 || last < 0 {
			utils.Fatalf("Export error: block number must be greater than 0\n")
		}
		if head := chain.BestBlockNumber(); last > int64(head) {
			utils.Fatalf("Export error: block number %d larger than head block %d\n", uint64(last), head)
		}
		err = utils.ExportAppendChain(chain, fp, uint64(first), uint64(last), true)
	}
	if err != nil {
		utils.Fatalf("Export error: %v\n", err)
	}
	fmt.Printf("Export done in %v\n", time.Since(start))
	return nil
}

func revertChain(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		utils.Fatalf("This command requires a block number.")
	}
	number, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil {
		utils.Fatalf("Invalid block number: %v", err)
	}
	db := utils.MakeChainDatabase(ctx, false)
	defer db.Close()

	start := time.Now()
	if err := core.RevertChain(db, number); err != nil {
		utils.Fatalf("Revert error: %v", err)
	}
	fmt.Printf("Revert done in %v\n", time.Since(start))
	return nil
}

func showInfo(ctx *cli.Context) error {
	chain, db := utils.MakeChain(ctx, true)
	defer db.Close()
	defer chain.Close()

	info := chain.ChainInfo()
	pointer := func(hash *common.Hash, number *uint64) string {
		if hash == nil || number == nil {
			return "-"
		}
		return fmt.Sprintf("#%d [%x..]", *number, hash.Bytes()[:4])
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"Genesis", info.GenesisHash.Hex()},
		{"Best block", fmt.Sprintf("#%d [%x..]", info.BestBlockNumber, info.BestBlockHash.Bytes()[:4])},
		{"Best block time", time.Unix(int64(info.BestBlockTimestamp), 0).UTC().Format(time.RFC3339)},
		{"Total difficulty", info.TotalDifficulty.String()},
		{"PoW difficulty", info.PowTotalDifficulty.Dec()},
		{"PoS difficulty", info.PosTotalDifficulty.Dec()},
		{"First block", pointer(info.FirstBlockHash, info.FirstBlockNumber)},
		{"Ancient block", pointer(info.AncientBlockHash, info.AncientBlockNumber)},
	})
	table.Render()
	return nil
}

func inspect(ctx *cli.Context) error {
	db := utils.MakeChainDatabase(ctx, true)
	defer db.Close()

	return rawdb.InspectDatabase(db, os.Stdout)
}
