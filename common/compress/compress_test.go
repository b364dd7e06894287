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

package compress

import (
	"bytes"
	"io"
	"testing"
)

var sample = []byte(`MkjdflskfjslkfjalkfjalfkjalfjafyzYrIyMLyNqwDSTBqSwM2D6KD9sA8S/d3Vyy6ldE+oRVdWyqNQrjTxQ6uG3XBOS0P4GGaIMJEPQ/gYZogwkQ+A0/gSU03fRJvdhIGQ1AMARVdWyqNQrjRFV1bKo1CuNEVXVsqjUK40RVdWyqNQrjRFV1bKo1CuNPmQF870PPsnSNeKI1U/MrOA0/gSU03fRb2A3OsnORNIruhCUYTIrsdfsfsdfsfOMTNU7JuGb5dfsfsfsfdsfsfsfRSYJxa6PiMHdiRmFtsdfsfsdfXLNoY+GVmTD7aOV/K1yo4ydfsfsf0dR7Q=ilsdjflskfjlskdfjldsf`)

func TestSnappyBlob(t *testing.T) {
	enc := Compress(sample)
	dec, err := Decompress(enc)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !bytes.Equal(dec, sample) {
		t.Fatalf("blob mismatch: have %x, want %x", dec, sample)
	}
	if _, err := Decompress([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Fatal("corrupt blob decoded without error")
	}
}

func TestZipData(t *testing.T) {
	compressed, err := ZipData(sample)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) >= len(sample) {
		t.Errorf("gzip did not shrink the sample: %d >= %d", len(compressed), len(sample))
	}
	uncompressed, err := UnzipData(compressed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(uncompressed, sample) {
		t.Fatalf("data mismatch after unzip")
	}
}

func TestStreamByName(t *testing.T) {
	for _, name := range []string{"chain.rlp", "chain.rlp.gz"} {
		var buf bytes.Buffer
		w := NewWriter(&buf, name)
		if _, err := w.Write(sample); err != nil {
			t.Fatalf("%s: write failed: %v", name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("%s: close failed: %v", name, err)
		}
		r, err := NewReader(&buf, name)
		if err != nil {
			t.Fatalf("%s: reader failed: %v", name, err)
		}
		have, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("%s: read failed: %v", name, err)
		}
		r.Close()
		if !bytes.Equal(have, sample) {
			t.Errorf("%s: stream mismatch", name)
		}
	}
}
