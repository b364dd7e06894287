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

// Package compress contains the codecs used for block blobs and chain export
// files.
package compress

import (
	"bytes"
	"compress/gzip"
	"io"
	"strings"

	"github.com/golang/snappy"
)

// Compress encodes a header or body blob for storage.
func Compress(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// ZipData gzips data in one go.
func ZipData(data []byte) (compressedData []byte, err error) {
	var b bytes.Buffer
	gz := gzip.NewWriter(&b)

	if _, err = gz.Write(data); err != nil {
		return
	}
	if err = gz.Close(); err != nil {
		return
	}
	compressedData = b.Bytes()
	return
}

// UnzipData reverses ZipData.
func UnzipData(data []byte) (resData []byte, err error) {
	r, err := gzip.NewReader(bytes.NewBuffer(data))
	if err != nil {
		return
	}
	defer r.Close()

	var resB bytes.Buffer
	if _, err = resB.ReadFrom(r); err != nil {
		return
	}
	resData = resB.Bytes()
	return
}

// NewReader wraps r with a gzip decoder when the file name says so.
func NewReader(r io.Reader, name string) (io.ReadCloser, error) {
	if strings.HasSuffix(name, ".gz") {
		return gzip.NewReader(r)
	}
	return io.NopCloser(r), nil
}

// NewWriter wraps w with a gzip encoder when the file name says so. The
// returned writer must be closed before w.
func NewWriter(w io.Writer, name string) io.WriteCloser {
	if strings.HasSuffix(name, ".gz") {
		return gzip.NewWriter(w)
	}
	return nopWriteCloser{w}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
