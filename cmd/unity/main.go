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

// unity is the command-line client for the go-unity chain store.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/unitychain/go-unity/cmd/utils"
	"github.com/unitychain/go-unity/internal/debug"
	"gopkg.in/urfave/cli.v1"
)

const (
	clientIdentifier = "unity"
)

var (
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(gitCommit, gitDate, "the go-unity chain store command line interface")
	// flags that configure the chain database
	chainFlags = []cli.Flag{
		configFileFlag,
		utils.DataDirFlag,
		utils.DBEngineFlag,
		utils.GenesisFlag,
		utils.CacheFlag,
		utils.CacheDatabaseFlag,
		utils.DBHandlesFlag,
	}
)

func init() {
	app.Action = showInfo
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2024-2026 The go-unity Authors"
	app.Commands = []cli.Command{
		// See chaincmd.go:
		initCommand,
		importCommand,
		exportCommand,
		revertCommand,
		infoCommand,
		inspectCommand,
		// See config.go
		dumpConfigCommand,
		// See misccmd.go:
		versionCommand,
		licenseCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = append(app.Flags, chainFlags...)
	app.Flags = append(app.Flags, debug.Flags...)

	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		return applyConfigFile(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
