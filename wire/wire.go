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

// Package wire implements the primitive binary codec shared by emit and
// decompile: native-endian, native pointer-width "machine word" lengths,
// no header/magic/version. There is deliberately no portability story
// here; the binary cache is only ever read back on the host that wrote
// it.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// WordSize is the width, in bytes, of the "machine word" used for
// string/list/map lengths and dynamic-array counts: the host's native
// pointer width.
const WordSize = int(unsafe.Sizeof(uintptr(0)))

// Order is the host's native byte order, detected once at init the same
// way the standard library's own internal nativeEndian detection works:
// write a known uint16 through unsafe and see which byte lands first.
var Order binary.ByteOrder = detectNativeOrder()

func detectNativeOrder() binary.ByteOrder {
	var i uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Writer is the minimal sink the emitter needs: plain byte writes only,
// so the decompiler's default-value staging buffer can share the same
// interface as the real output file.
type Writer interface {
	Write(p []byte) (int, error)
}

// Reader is the minimal bounds-checked source the decompiler needs.
type Reader interface {
	Read(p []byte) (int, error)
}

func WriteBool(w Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func WriteInt8(w Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

func WriteInt16(w Writer, v int16) error {
	buf := make([]byte, 2)
	Order.PutUint16(buf, uint16(v))
	_, err := w.Write(buf)
	return err
}

func WriteInt32(w Writer, v int32) error {
	buf := make([]byte, 4)
	Order.PutUint32(buf, uint32(v))
	_, err := w.Write(buf)
	return err
}

func WriteFloat32(w Writer, v float32) error {
	return WriteInt32(w, int32(math.Float32bits(v)))
}

func WriteFloat64(w Writer, v float64) error {
	buf := make([]byte, 8)
	Order.PutUint64(buf, math.Float64bits(v))
	_, err := w.Write(buf)
	return err
}

// WriteWord writes n truncated to WordSize bytes.
func WriteWord(w Writer, n uint64) error {
	buf := make([]byte, WordSize)
	switch WordSize {
	case 4:
		Order.PutUint32(buf, uint32(n))
	case 8:
		Order.PutUint64(buf, n)
	default:
		return fmt.Errorf("unsupported machine word size %d", WordSize)
	}
	_, err := w.Write(buf)
	return err
}

func WriteString(w Writer, s string) error {
	if err := WriteWord(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func ReadFull(r Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	total := 0
	for total < n {
		m, err := r.Read(buf[total:])
		total += m
		if err != nil {
			if total == n {
				break
			}
			return nil, err
		}
		if m == 0 {
			return nil, fmt.Errorf("short read: got %d of %d bytes", total, n)
		}
	}
	return buf, nil
}

func ReadBool(r Reader) (bool, error) {
	b, err := ReadFull(r, 1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func ReadInt8(r Reader) (int8, error) {
	b, err := ReadFull(r, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func ReadInt16(r Reader) (int16, error) {
	b, err := ReadFull(r, 2)
	if err != nil {
		return 0, err
	}
	return int16(Order.Uint16(b)), nil
}

func ReadInt32(r Reader) (int32, error) {
	b, err := ReadFull(r, 4)
	if err != nil {
		return 0, err
	}
	return int32(Order.Uint32(b)), nil
}

func ReadFloat32(r Reader) (float32, error) {
	v, err := ReadInt32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

func ReadFloat64(r Reader) (float64, error) {
	b, err := ReadFull(r, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(Order.Uint64(b)), nil
}

func ReadWord(r Reader) (uint64, error) {
	b, err := ReadFull(r, WordSize)
	if err != nil {
		return 0, err
	}
	switch WordSize {
	case 4:
		return uint64(Order.Uint32(b)), nil
	case 8:
		return Order.Uint64(b), nil
	default:
		return 0, fmt.Errorf("unsupported machine word size %d", WordSize)
	}
}

func ReadString(r Reader) (string, error) {
	n, err := ReadWord(r)
	if err != nil {
		return "", err
	}
	b, err := ReadFull(r, int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
