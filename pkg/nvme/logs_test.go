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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSmartLog(t *testing.T) {
	src := SmartLog{
		CritWarning: 0x01,
		Temperature: [2]uint8{0x2c, 0x01}, // 300 K
		AvailSpare:  100,
		SpareThresh: 10,
		PercentUsed: 3,
	}
	src.DataUnitsRead[0] = 0x2a
	src.PowerCycles[1] = 0x01 // 256

	log, err := ParseSmartLog(marshalPage(t, &src))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), log.CritWarning)
	assert.Equal(t, 27, log.TemperatureCelsius())
	assert.Equal(t, uint8(100), log.AvailSpare)
	assert.Equal(t, "42", Le128String(log.DataUnitsRead))
	assert.Equal(t, "256", Le128String(log.PowerCycles))

	_, err = ParseSmartLog(make([]byte, 256))
	assert.Error(t, err)
}

func TestParseFirmwareLog(t *testing.T) {
	src := FirmwareLog{Afi: 0x01}
	src.Frs[0] = binary.LittleEndian.Uint64([]byte("BXW7500Q"))

	log, err := ParseFirmwareLog(marshalPage(t, &src))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), log.Afi)
	assert.Equal(t, "BXW7500Q", log.SlotRevision(0))
	assert.Equal(t, "........", log.SlotRevision(1))

	_, err = ParseFirmwareLog(make([]byte, 64))
	assert.Error(t, err)
}

// buildErrorLogEntry lays one entry out by hand at its wire offsets.
func buildErrorLogEntry(count uint64, sqid, cmdid, status uint16, lba uint64, nsid uint32) []byte {
	buf := make([]byte, ErrorLogEntrySize)
	binary.LittleEndian.PutUint64(buf[0:], count)
	binary.LittleEndian.PutUint16(buf[8:], sqid)
	binary.LittleEndian.PutUint16(buf[10:], cmdid)
	binary.LittleEndian.PutUint16(buf[12:], status)
	binary.LittleEndian.PutUint64(buf[16:], lba)
	binary.LittleEndian.PutUint32(buf[24:], nsid)
	return buf
}

func TestParseErrorLog(t *testing.T) {
	buf := append(
		buildErrorLogEntry(12, 1, 0x10, 0x4281, 0xdeadbeef, 1),
		buildErrorLogEntry(13, 2, 0x11, 0x2002, 0, 0xffffffff)...,
	)

	log, err := ParseErrorLog(buf, 2)
	require.NoError(t, err)
	require.Len(t, log, 2)

	assert.Equal(t, uint64(12), log[0].ErrorCount)
	assert.Equal(t, uint16(1), log[0].SQID)
	assert.Equal(t, uint16(0x10), log[0].CmdID)
	assert.Equal(t, uint16(0x4281), log[0].StatusField)
	assert.Equal(t, uint64(0xdeadbeef), log[0].LBA)
	assert.Equal(t, uint32(1), log[0].Nsid)

	assert.Equal(t, uint64(13), log[1].ErrorCount)
	assert.Equal(t, uint32(0xffffffff), log[1].Nsid)
}

func TestParseErrorLogClamped(t *testing.T) {
	// Asking for more entries than the buffer holds is clamped, not an error.
	buf := buildErrorLogEntry(7, 0, 0, 0, 0, 0)
	log, err := ParseErrorLog(buf, 64)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, uint64(7), log[0].ErrorCount)

	log, err = ParseErrorLog(buf[:10], 64)
	require.NoError(t, err)
	assert.Empty(t, log)
}
