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

// Package debug interfaces logging setup with the command line.
package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"
)

var (
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	vmoduleFlag = cli.StringFlag{
		Name:  "vmodule",
		Usage: "Per-module verbosity: comma-separated list of <pattern>=<level> (e.g. core/*=5)",
		Value: "",
	}
	logFileFlag = cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to a file instead of the terminal",
	}
	logNoColorFlag = cli.BoolFlag{
		Name:  "log.nocolor",
		Usage: "Disable terminal colours in the log output",
	}
)

// Flags holds all command-line flags required for debugging.
var Flags = []cli.Flag{
	verbosityFlag,
	vmoduleFlag,
	logFileFlag,
	logNoColorFlag,
}

var (
	glogger *log.GlogHandler
	logFile *os.File
)

func init() {
	glogger = log.NewGlogHandler(log.NewTerminalHandler(os.Stderr, false))
}

// Setup initializes logging based on the CLI flags.
// It should be called as early as possible in the program.
func Setup(ctx *cli.Context) error {
	var (
		output   io.Writer = os.Stderr
		useColor bool
	)
	if file := ctx.GlobalString(logFileFlag.Name); file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile, output = f, f
	} else {
		fd := os.Stderr.Fd()
		useColor = !ctx.GlobalBool(logNoColorFlag.Name) && os.Getenv("TERM") != "dumb" &&
			(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
		if useColor {
			output = colorable.NewColorableStderr()
		}
	}
	glogger = log.NewGlogHandler(log.NewTerminalHandler(output, useColor))

	// logging
	glogger.Verbosity(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))
	if err := glogger.Vmodule(ctx.GlobalString(vmoduleFlag.Name)); err != nil {
		return fmt.Errorf("invalid --%s: %w", vmoduleFlag.Name, err)
	}
	log.SetDefault(log.NewLogger(glogger))
	return nil
}

// Exit flushes and closes the log file, if any.
func Exit() {
	if logFile != nil {
		logFile.Sync()
		logFile.Close()
		logFile = nil
	}
}
