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

package memorydb

import (
	"testing"

	"github.com/unitychain/go-unity/unitydb"
	"github.com/unitychain/go-unity/unitydb/dbtest"
)

func TestMemoryDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() unitydb.Database {
			return New()
		})
	})
}

func TestMemoryDBClosed(t *testing.T) {
	db := New()
	db.Put([]byte("a"), []byte("b"))
	if db.Len() != 1 {
		t.Fatalf("length mismatch: have %d, want 1", db.Len())
	}
	db.Close()
	if _, err := db.Get([]byte("a")); err != errMemorydbClosed {
		t.Fatalf("closed database read: have %v, want %v", err, errMemorydbClosed)
	}
}
