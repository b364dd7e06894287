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

const (
	GenesisEnergyLimit   uint64 = 10000000 // Energy limit of the Genesis block.
	GenesisDifficulty    uint64 = 16       // Difficulty of the Genesis block.
	MaximumExtraDataSize uint64 = 32       // Maximum size extra data may be after Genesis.
)

const (
	DefaultChainCacheSize  = 64  // Default memory allowance (MB) of the chain caches.
	DefaultDatabaseCache   = 512 // Default memory allowance (MB) of the database.
	DefaultDatabaseHandles = 512 // Default number of open files of the database.
)
