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

package params

// These are chain store parameters that need to be constant between nodes
// sharing a database layout, but aren't consensus related.

const (
	// BloomLevels is the number of levels of the log bloom index.
	BloomLevels = 3

	// BloomElementsPerIndex is the number of lower level blooms folded into
	// one bloom of the next level.
	BloomElementsPerIndex = 16

	// LogsChunkSize is the number of blocks whose logs are collected in
	// parallel before the limit is re-checked.
	LogsChunkSize = 128

	// RevertBatchBlocks is the number of reverted blocks after which the
	// pending deletions are flushed.
	RevertBatchBlocks = 1000

	// CacheBytesPerEntry approximates the memory held by one cache entry when
	// rotating usage generations.
	CacheBytesPerEntry = 400
)
