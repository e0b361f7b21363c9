// Copyright 2022-2024 the nvmectl authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nvme

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLe128String(t *testing.T) {
	var buf [16]byte

	assert.Equal(t, "0", Le128String(buf))

	buf[0] = 1
	assert.Equal(t, "1", Le128String(buf))

	// 0x0100 little-endian
	buf[0] = 0
	buf[1] = 1
	assert.Equal(t, "256", Le128String(buf))

	for i := range buf {
		buf[i] = 0xff
	}
	assert.Equal(t, "340282366920938463463374607431768211455", Le128String(buf))
}

func TestTrimmedString(t *testing.T) {
	assert.Equal(t, "S3EUNX0J", trimmedString([]byte("S3EUNX0J        ")))
	assert.Equal(t, "fw1.2", trimmedString([]byte("fw1.2\x00\x00\x00")))
	assert.Equal(t, "", trimmedString([]byte("    ")))
}

func TestPrintableString(t *testing.T) {
	assert.Equal(t, "abc....", printableString([]byte{'a', 'b', 'c', 0x00, 0x1f, ' ', 0x7f}))
}

func TestDump(t *testing.T) {
	var sb strings.Builder
	buf := append([]byte("GoGoGo"), 0x00, 0xff)
	Dump(&sb, buf, 16, 1)
	out := sb.String()

	assert.Contains(t, out, "0000:")
	assert.Contains(t, out, "47 6f 47 6f 47 6f 00 ff")
	// Non-printable bytes render as dots in the ASCII column.
	assert.Contains(t, out, `"GoGoGo.."`)
}

func TestDumpGrouping(t *testing.T) {
	var sb strings.Builder
	Dump(&sb, []byte{0x12, 0x34, 0x56, 0x78}, 16, 4)
	assert.Contains(t, sb.String(), " 12345678")
}

func TestDumpRaw(t *testing.T) {
	var b bytes.Buffer
	payload := []byte{0x00, 0x01, 0xfe, 0xff}
	DumpRaw(&b, payload)
	assert.Equal(t, payload, b.Bytes())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Contains(t, FormatBytes(1500), "KB")
	assert.Contains(t, FormatBytes(2_000_000_000_000), "TB")
}
