// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package decompile implements the binary decompiler: the emitter's
// mirror image, reading a native-endian binary stream guided by a
// resolved recipe and regenerating canonical bakery data-file text.
package decompile

import (
	"errors"
)

// ErrEOF is returned by Cursor when a read runs past the end of the
// buffer — the input was exhausted before the end of a declared length.
// Callers report it as diag.EofErr.
var ErrEOF = errors.New("unexpected end of binary input")

// Cursor is the bounds-checked, peek-with-rewind byte source the
// decompiler needs.
// Peeking never advances Pos, so a default-value comparison that turns out
// to mismatch costs nothing to undo: the subsequent real read simply
// starts from the same position Peek examined.
type Cursor struct {
	Buf []byte
	Pos int
}

// NewCursor wraps buf for sequential, bounds-checked reads.
func NewCursor(buf []byte) *Cursor { return &Cursor{Buf: buf} }

// Remaining reports how many bytes are left to read.
func (c *Cursor) Remaining() int { return len(c.Buf) - c.Pos }

// Peek returns the next n bytes without consuming them. It returns ErrEOF
// if fewer than n bytes remain.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, ErrEOF
	}
	return c.Buf[c.Pos : c.Pos+n], nil
}

// Skip advances the cursor by n bytes, already validated available by a
// prior Peek.
func (c *Cursor) Skip(n int) { c.Pos += n }

// Read implements io.Reader (and so wire.Reader) by consuming from Buf.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.Remaining() == 0 {
		return 0, ErrEOF
	}
	n := copy(p, c.Buf[c.Pos:])
	c.Pos += n
	if n < len(p) {
		return n, ErrEOF
	}
	return n, nil
}
