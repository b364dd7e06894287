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

package debug

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "unity.log")
	ctx := newContext(t, "--log.file", file, "--verbosity", "4")
	if err := Setup(ctx); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	defer log.SetDefault(log.NewLogger(log.DiscardHandler()))

	log.Debug("Written to file", "key", "value")
	Exit()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Written to file") {
		t.Fatalf("log file misses the record: %q", data)
	}
}

func TestSetupInvalidVmodule(t *testing.T) {
	ctx := newContext(t, "--log.file", filepath.Join(t.TempDir(), "unity.log"), "--vmodule", "core=x")
	if err := Setup(ctx); err == nil {
		t.Fatal("expected an error for a malformed vmodule")
	}
	Exit()
}
