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

package lru

import (
	"sort"
	"testing"
)

func TestManagerNoteUsed(t *testing.T) {
	m := NewManager[int](1000, 2000, 100)
	m.NoteUsed(1)
	m.NoteUsed(1)
	m.NoteUsed(2)
	if m.Len() != 2 {
		t.Fatalf("tracked ids mismatch: have %d, want 2", m.Len())
	}
	if !m.usage[0].Contains(1) || !m.usage[0].Contains(2) {
		t.Fatalf("ids not in the youngest generation")
	}
}

func TestManagerRotation(t *testing.T) {
	// 1000/8 = 125 bytes per generation, two ids of 100 bytes overflow it.
	m := NewManager[int](1000, 2000, 100)
	m.NoteUsed(1)
	m.NoteUsed(2)

	called := false
	m.CollectGarbage(500, func([]int) int { called = true; return 0 })
	if called {
		t.Fatalf("eviction below the preferred size")
	}
	if m.usage[0].Cardinality() != 0 || !m.usage[1].Contains(1) {
		t.Fatalf("generation not rotated")
	}
	if len(m.usage) != collectionQueueSize {
		t.Fatalf("generation count changed: %d", len(m.usage))
	}
	// Touching an id again moves it back into the youngest generation.
	m.NoteUsed(1)
	if !m.usage[0].Contains(1) || m.usage[1].Contains(1) {
		t.Fatalf("id not promoted")
	}
}

func TestManagerCollectGarbage(t *testing.T) {
	m := NewManager[int](1000, 2000, 1)
	// Spread the ids over all generations, id 0 ends up in the oldest one.
	for i := 0; i < collectionQueueSize; i++ {
		m.pushFront(m.popBack())
		m.NoteUsed(i)
	}
	var (
		size    = 3000
		evicted []int
	)
	m.CollectGarbage(size, func(ids []int) int {
		evicted = append(evicted, ids...)
		size -= 500 * len(ids)
		return size
	})
	sort.Ints(evicted)
	// 3000 -> 2500 -> 2000 -> 1500, the third round drops below max.
	want := []int{0, 1, 2}
	if len(evicted) != len(want) {
		t.Fatalf("evicted ids mismatch: have %v, want %v", evicted, want)
	}
	for i := range want {
		if evicted[i] != want[i] {
			t.Fatalf("evicted ids mismatch: have %v, want %v", evicted, want)
		}
	}
	if m.Len() != collectionQueueSize-len(want) {
		t.Fatalf("tracked ids mismatch: have %d, want %d", m.Len(), collectionQueueSize-len(want))
	}
}

func TestManagerCollectGarbageBounded(t *testing.T) {
	m := NewManager[string](10, 20, 1)
	m.NoteUsed("a")
	rounds := 0
	m.CollectGarbage(100, func([]string) int {
		rounds++
		return 100
	})
	if rounds != collectionQueueSize {
		t.Fatalf("eviction rounds mismatch: have %d, want %d", rounds, collectionQueueSize)
	}
	if m.Len() != 0 {
		t.Fatalf("ids left after a full sweep: %d", m.Len())
	}
}
