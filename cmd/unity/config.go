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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/naoina/toml"
	"github.com/unitychain/go-unity/cmd/utils"
	"gopkg.in/urfave/cli.v1"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      utils.MigrateFlags(dumpConfig),
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "",
		Flags:       chainFlags,
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

type chainConfig struct {
	DataDir string
	Genesis string `toml:",omitempty"`
	Cache   int
}

type databaseConfig struct {
	Engine  string `toml:",omitempty"`
	Cache   int
	Handles int
}

type unityConfig struct {
	Chain    chainConfig
	Database databaseConfig
}

func loadConfig(file string, cfg *unityConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig returns the settings in effect: the flag values, which already
// include anything taken from the config file.
func makeConfig(ctx *cli.Context) unityConfig {
	return unityConfig{
		Chain: chainConfig{
			DataDir: ctx.GlobalString(utils.DataDirFlag.Name),
			Genesis: ctx.GlobalString(utils.GenesisFlag.Name),
			Cache:   ctx.GlobalInt(utils.CacheFlag.Name),
		},
		Database: databaseConfig{
			Engine:  ctx.GlobalString(utils.DBEngineFlag.Name),
			Cache:   ctx.GlobalInt(utils.CacheDatabaseFlag.Name),
			Handles: ctx.GlobalInt(utils.DBHandlesFlag.Name),
		},
	}
}

// applyConfigFile loads the --config file and uses its values for every
// flag not given on the command line.
func applyConfigFile(ctx *cli.Context) error {
	file := ctx.GlobalString(configFileFlag.Name)
	if file == "" {
		return nil
	}
	cfg := makeConfig(ctx)
	if err := loadConfig(file, &cfg); err != nil {
		return err
	}
	values := map[string]string{
		utils.DataDirFlag.Name:       cfg.Chain.DataDir,
		utils.GenesisFlag.Name:       cfg.Chain.Genesis,
		utils.CacheFlag.Name:         strconv.Itoa(cfg.Chain.Cache),
		utils.DBEngineFlag.Name:      cfg.Database.Engine,
		utils.CacheDatabaseFlag.Name: strconv.Itoa(cfg.Database.Cache),
		utils.DBHandlesFlag.Name:     strconv.Itoa(cfg.Database.Handles),
	}
	for name, value := range values {
		if ctx.GlobalIsSet(name) {
			continue
		}
		if err := ctx.GlobalSet(name, value); err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}
	}
	return nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := makeConfig(ctx)
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}
