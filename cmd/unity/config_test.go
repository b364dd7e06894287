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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	content := `
[Chain]
DataDir = "/var/lib/unity"
Cache = 128

[Database]
Engine = "leveldb"
Handles = 64
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	var cfg unityConfig
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "/var/lib/unity", cfg.Chain.DataDir)
	require.Equal(t, 128, cfg.Chain.Cache)
	require.Equal(t, "leveldb", cfg.Database.Engine)
	require.Equal(t, 64, cfg.Database.Handles)
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("[Chain]\nCaches = 1\n"), 0644))

	var cfg unityConfig
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "Caches"), "error %q lacks the field name", err)
}

func TestConfigRoundTrip(t *testing.T) {
	want := unityConfig{
		Chain:    chainConfig{DataDir: "/data", Genesis: "genesis.json", Cache: 32},
		Database: databaseConfig{Engine: "pebble", Cache: 256, Handles: 128},
	}
	out, err := tomlSettings.Marshal(&want)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, out, 0644))

	var got unityConfig
	require.NoError(t, loadConfig(file, &got))
	require.Equal(t, want, got)
}
