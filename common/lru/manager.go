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

// Package lru implements the generational usage tracker that bounds the chain
// caches.
package lru

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// collectionQueueSize is the number of usage generations kept by a Manager.
const collectionQueueSize = 8

// Manager tracks which cache entries were touched recently and decides which
// ones to drop once the caches outgrow their budget. It knows nothing about
// the cached payloads, only their identifiers.
//
// Manager is not safe for concurrent use, callers guard it with their own lock.
type Manager[K comparable] struct {
	prefSize      int
	maxSize       int
	bytesPerEntry int

	// usage[0] is the youngest generation.
	usage []mapset.Set[K]
}

// NewManager creates a Manager that steers the caches towards prefSize bytes
// and never lets them stay above maxSize.
func NewManager[K comparable](prefSize, maxSize, bytesPerEntry int) *Manager[K] {
	if maxSize < prefSize {
		panic("lru: max cache size must not be smaller than the preferred size")
	}
	m := &Manager[K]{
		prefSize:      prefSize,
		maxSize:       maxSize,
		bytesPerEntry: bytesPerEntry,
		usage:         make([]mapset.Set[K], collectionQueueSize),
	}
	for i := range m.usage {
		m.usage[i] = mapset.NewThreadUnsafeSet[K]()
	}
	return m
}

// NoteUsed moves id into the youngest generation.
func (m *Manager[K]) NoteUsed(id K) {
	if m.usage[0].Contains(id) {
		return
	}
	for _, gen := range m.usage[1:] {
		if gen.Contains(id) {
			gen.Remove(id)
			break
		}
	}
	m.usage[0].Add(id)
}

// CollectGarbage evicts the oldest generations while currentSize exceeds the
// preferred budget. evict drops the given ids from the caches and returns the
// re-measured total size.
func (m *Manager[K]) CollectGarbage(currentSize int, evict func([]K) int) {
	if currentSize < m.prefSize {
		m.rotateIfNeeded()
		return
	}
	for i := 0; i < collectionQueueSize; i++ {
		back := m.popBack()
		currentSize = evict(back.ToSlice())
		m.pushFront(mapset.NewThreadUnsafeSet[K]())
		if currentSize < m.maxSize {
			break
		}
	}
}

// Len returns the number of tracked identifiers.
func (m *Manager[K]) Len() int {
	n := 0
	for _, gen := range m.usage {
		n += gen.Cardinality()
	}
	return n
}

// rotateIfNeeded starts a new generation once the youngest one covers its
// share of the preferred budget. The oldest generation is folded into its
// neighbour so its ids stay first in line for eviction.
func (m *Manager[K]) rotateIfNeeded() {
	if m.usage[0].Cardinality()*m.bytesPerEntry > m.prefSize/collectionQueueSize {
		back := m.popBack()
		m.usage[len(m.usage)-1].Append(back.ToSlice()...)
		m.pushFront(mapset.NewThreadUnsafeSet[K]())
	}
}

func (m *Manager[K]) popBack() mapset.Set[K] {
	back := m.usage[len(m.usage)-1]
	m.usage = m.usage[:len(m.usage)-1]
	return back
}

func (m *Manager[K]) pushFront(gen mapset.Set[K]) {
	m.usage = append([]mapset.Set[K]{gen}, m.usage...)
}
