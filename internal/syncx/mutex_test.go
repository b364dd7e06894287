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

package syncx

import (
	"testing"
	"time"
)

func TestClosableMutex(t *testing.T) {
	cm := NewClosableMutex()
	if !cm.TryLock() {
		t.Fatal("fresh mutex not lockable")
	}
	released := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		cm.Unlock()
		close(released)
	}()
	// Close waits for the holder to release the lock.
	cm.Close()
	<-released
	if cm.TryLock() {
		t.Fatal("closed mutex was locked")
	}
}

func TestClosableMutexDoubleUnlock(t *testing.T) {
	cm := NewClosableMutex()
	defer func() {
		if recover() == nil {
			t.Fatal("unlocking an unlocked mutex did not panic")
		}
	}()
	cm.Unlock()
}
