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

// Package utils contains internal helper functions for go-unity commands.
package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/ethereum/go-ethereum/log"
	"github.com/unitychain/go-unity/core"
	"github.com/unitychain/go-unity/core/rawdb"
	"github.com/unitychain/go-unity/core/types"
	"github.com/unitychain/go-unity/params"
	"github.com/unitychain/go-unity/unitydb"
	"gopkg.in/urfave/cli.v1"
)

var (
	CommandHelpTemplate = `{{.cmd.Name}}{{if .cmd.Subcommands}} command{{end}}{{if .cmd.Flags}} [command options]{{end}} [arguments...]
{{if .cmd.Description}}{{.cmd.Description}}
{{end}}{{if .cmd.Subcommands}}
SUBCOMMANDS:
	{{range .cmd.Subcommands}}{{.Name}}{{with .ShortName}}, {{.}}{{end}}{{ "\t" }}{{.Usage}}
	{{end}}{{end}}{{if .categorizedFlags}}
{{range $idx, $categorized := .categorizedFlags}}{{$categorized.Name}} OPTIONS:
{{range $categorized.Flags}}{{"\t"}}{{.}}
{{end}}
{{end}}{{end}}`
)

func init() {
	cli.AppHelpTemplate = `{{.Name}} {{if .Flags}}[global options] {{end}}command{{if .Flags}} [command options]{{end}} [arguments...]

VERSION:
   {{.Version}}

COMMANDS:
   {{range .Commands}}{{.Name}}{{with .ShortName}}, {{.}}{{end}}{{ "\t" }}{{.Usage}}
   {{end}}{{if .Flags}}
GLOBAL OPTIONS:
   {{range .Flags}}{{.}}
   {{end}}{{end}}
`
	cli.CommandHelpTemplate = CommandHelpTemplate
}

// NewApp creates an app with sane defaults.
func NewApp(gitCommit, gitDate, usage string) *cli.App {
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.HelpName = "unity"
	app.Author = "The go-unity Authors"
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// General settings
	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the chain database",
		Value: DefaultDataDir(),
	}
	DBEngineFlag = cli.StringFlag{
		Name:  "db.engine",
		Usage: "Backing database implementation to use ('pebble' or 'leveldb')",
	}
	GenesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "JSON genesis file (default = built-in genesis)",
	}
	// Performance tuning settings
	CacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Megabytes of memory allocated to the chain caches",
		Value: params.DefaultChainCacheSize,
	}
	CacheDatabaseFlag = cli.IntFlag{
		Name:  "cache.database",
		Usage: "Megabytes of memory allocated to database io",
		Value: params.DefaultDatabaseCache,
	}
	DBHandlesFlag = cli.IntFlag{
		Name:  "db.handles",
		Usage: "Number of files the database may keep open",
		Value: params.DefaultDatabaseHandles,
	}
)

// DefaultDataDir is the default data directory to use for the databases.
func DefaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Unity")
	case "windows":
		if appdata := os.Getenv("LOCALAPPDATA"); appdata != "" {
			return filepath.Join(appdata, "Unity")
		}
		return filepath.Join(home, "AppData", "Local", "Unity")
	default:
		return filepath.Join(home, ".unity")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// MakeDataDir retrieves the currently requested data directory, terminating
// if none (or the empty string) is specified.
func MakeDataDir(ctx *cli.Context) string {
	if path := ctx.GlobalString(DataDirFlag.Name); path != "" {
		return path
	}
	Fatalf("Cannot determine default data directory, please set manually (--datadir)")
	return ""
}

// MakeChainDatabase opens the chain database using the flags passed to the
// client and will hard crash if it fails.
func MakeChainDatabase(ctx *cli.Context, readonly bool) unitydb.Database {
	db, err := rawdb.Open(rawdb.OpenOptions{
		Type:      ctx.GlobalString(DBEngineFlag.Name),
		Directory: filepath.Join(MakeDataDir(ctx), "chaindata"),
		Namespace: "unity/db/chaindata/",
		Cache:     ctx.GlobalInt(CacheDatabaseFlag.Name),
		Handles:   ctx.GlobalInt(DBHandlesFlag.Name),
		ReadOnly:  readonly,
	})
	if err != nil {
		Fatalf("Could not open database: %v", err)
	}
	return db
}

// MakeGenesis returns the genesis block selected by the flags.
func MakeGenesis(ctx *cli.Context) *types.Block {
	if file := ctx.GlobalString(GenesisFlag.Name); file != "" {
		genesis, err := core.LoadGenesis(file)
		if err != nil {
			Fatalf("%v", err)
		}
		return genesis.ToBlock()
	}
	return core.DefaultGenesisBlock().ToBlock()
}

// MakeChain creates a chain manager from set command line flags.
func MakeChain(ctx *cli.Context, readonly bool) (*core.BlockChain, unitydb.Database) {
	db := MakeChainDatabase(ctx, readonly)

	chain, err := core.NewBlockChain(db, core.NewCacheConfig(ctx.GlobalInt(CacheFlag.Name)), MakeGenesis(ctx))
	if err != nil {
		db.Close()
		Fatalf("Can't create BlockChain: %v", err)
	}
	log.Debug("Opened chain", "datadir", MakeDataDir(ctx), "head", chain.BestBlockNumber())
	return chain, db
}

// MigrateFlags sets the global flag from a local flag when it's set.
// This is a temporary function used for migrating old command/flags to the
// new format.
//
// e.g. unity import --datadir /tmp/chain chain.rlp
//
// is equivalent after calling this method with:
//
// unity --datadir /tmp/chain import chain.rlp
//
// This allows the use of the existing configuration functionality.
func MigrateFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}
