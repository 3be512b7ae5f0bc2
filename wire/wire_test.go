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

package wire

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBool(&buf, true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := WriteInt8(&buf, -5); err != nil {
		t.Fatalf("WriteInt8: %v", err)
	}
	if err := WriteInt16(&buf, -12345); err != nil {
		t.Fatalf("WriteInt16: %v", err)
	}
	if err := WriteInt32(&buf, -123456789); err != nil {
		t.Fatalf("WriteInt32: %v", err)
	}
	if err := WriteFloat32(&buf, 12.5); err != nil {
		t.Fatalf("WriteFloat32: %v", err)
	}
	if err := WriteFloat64(&buf, -3.14159265); err != nil {
		t.Fatalf("WriteFloat64: %v", err)
	}
	if err := WriteWord(&buf, 77); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if err := WriteString(&buf, "tomato"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	if v, err := ReadBool(r); err != nil || v != true {
		t.Errorf("ReadBool: got (%v, %v), want true", v, err)
	}
	if v, err := ReadInt8(r); err != nil || v != -5 {
		t.Errorf("ReadInt8: got (%v, %v), want -5", v, err)
	}
	if v, err := ReadInt16(r); err != nil || v != -12345 {
		t.Errorf("ReadInt16: got (%v, %v), want -12345", v, err)
	}
	if v, err := ReadInt32(r); err != nil || v != -123456789 {
		t.Errorf("ReadInt32: got (%v, %v), want -123456789", v, err)
	}
	if v, err := ReadFloat32(r); err != nil || v != 12.5 {
		t.Errorf("ReadFloat32: got (%v, %v), want 12.5", v, err)
	}
	if v, err := ReadFloat64(r); err != nil || v != -3.14159265 {
		t.Errorf("ReadFloat64: got (%v, %v), want -3.14159265", v, err)
	}
	if v, err := ReadWord(r); err != nil || v != 77 {
		t.Errorf("ReadWord: got (%v, %v), want 77", v, err)
	}
	if v, err := ReadString(r); err != nil || v != "tomato" {
		t.Errorf("ReadString: got (%q, %v), want tomato", v, err)
	}
	if r.Len() != 0 {
		t.Errorf("stream has %d unread bytes after round trip", r.Len())
	}
}

func TestWordWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWord(&buf, 3); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if got := buf.Len(); got != WordSize {
		t.Errorf("word width: got %d bytes, want %d", got, WordSize)
	}
}

func TestStringLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteString(&buf, "ab"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	b := buf.Bytes()
	if got := len(b); got != WordSize+2 {
		t.Fatalf("string encoding length: got %d, want %d", got, WordSize+2)
	}
	if b[len(b)-2] != 'a' || b[len(b)-1] != 'b' {
		t.Errorf("string payload: got % x, want 'ab' after the length word", b)
	}
}

func TestReadPastEnd(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2})
	if _, err := ReadInt32(r); err == nil {
		t.Errorf("ReadInt32 on a 2-byte stream: expected an error")
	}
}
