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

func TestResvAcquireCdw10(t *testing.T) {
	cdw10, err := resvAcquireCdw10(2, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(2<<8|1<<3|1), cdw10)

	cdw10, err = resvAcquireCdw10(1, 0, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<8), cdw10)

	_, err = resvAcquireCdw10(1, 8, false)
	assert.Error(t, err)
}

func TestResvRegisterCdw10(t *testing.T) {
	cdw10, err := resvRegisterCdw10(1, 2, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2<<30|1), cdw10)

	_, err = resvRegisterCdw10(1, 4, false)
	assert.Error(t, err)
}

func TestResvReleaseCdw10(t *testing.T) {
	cdw10, err := resvReleaseCdw10(3, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(3<<8|1<<3|1), cdw10)

	_, err = resvReleaseCdw10(3, 8, true)
	assert.Error(t, err)
}

func TestResvKeys(t *testing.T) {
	buf := resvKeys(0x1122334455667788, 0xaabbccddeeff0011)
	require.Len(t, buf, 16)
	assert.Equal(t, uint64(0x1122334455667788), binary.LittleEndian.Uint64(buf[0:]))
	assert.Equal(t, uint64(0xaabbccddeeff0011), binary.LittleEndian.Uint64(buf[8:]))

	assert.Len(t, resvKeys(1), 8)
}

func TestClipResvNumd(t *testing.T) {
	// Zero and oversized both fall back to a full page of dwords.
	assert.Equal(t, uint32(1024), clipResvNumd(0))
	assert.Equal(t, uint32(1024), clipResvNumd(4096))
	// Requests below the header size are raised to cover it.
	assert.Equal(t, uint32(6), clipResvNumd(1))
	assert.Equal(t, uint32(100), clipResvNumd(100))
}

// buildResvStatus lays out a reservation status page with n registrants.
func buildResvStatus(gen uint32, rtype uint8, regctl uint16, registrants int) []byte {
	buf := make([]byte, resvStatusHeaderSize+registrants*registrantSize)
	binary.LittleEndian.PutUint32(buf[0:], gen)
	buf[4] = rtype
	buf[5] = byte(regctl)
	buf[6] = byte(regctl >> 8)
	buf[9] = 1 // ptpls
	for i := 0; i < registrants; i++ {
		off := resvStatusHeaderSize + i*registrantSize
		binary.LittleEndian.PutUint16(buf[off:], uint16(i+1))       // cntlid
		buf[off+2] = 1                                              // rcsts
		binary.LittleEndian.PutUint64(buf[off+8:], uint64(i)+0xa0)  // hostid
		binary.LittleEndian.PutUint64(buf[off+16:], uint64(i)+0xf0) // rkey
	}
	return buf
}

func TestParseResvStatus(t *testing.T) {
	st, err := ParseResvStatus(buildResvStatus(42, 2, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, uint32(42), st.Gen)
	assert.Equal(t, uint8(2), st.Rtype)
	assert.Equal(t, uint8(1), st.Ptpls)
	assert.Equal(t, 2, st.RegistrantCount())
	require.Len(t, st.Registrants, 2)

	assert.Equal(t, uint16(1), st.Registrants[0].Cntlid)
	assert.Equal(t, uint8(1), st.Registrants[0].Rcsts)
	assert.Equal(t, uint64(0xa0), st.Registrants[0].HostID)
	assert.Equal(t, uint64(0xf0), st.Registrants[0].Rkey)
	assert.Equal(t, uint16(2), st.Registrants[1].Cntlid)
	assert.Equal(t, uint64(0xf1), st.Registrants[1].Rkey)
}

func TestParseResvStatusRegctlSplit(t *testing.T) {
	// The 16-bit count is split across two header bytes.
	st, err := ParseResvStatus(buildResvStatus(1, 1, 0x0102, 0))
	require.NoError(t, err)
	assert.Equal(t, 0x0102, st.RegistrantCount())
	// No registrant payload present, so none are decoded.
	assert.Empty(t, st.Registrants)
}

func TestParseResvStatusClamped(t *testing.T) {
	// Count claims three registrants but the buffer carries one.
	st, err := ParseResvStatus(buildResvStatus(1, 1, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, st.RegistrantCount())
	assert.Len(t, st.Registrants, 1)
}

func TestParseResvStatusShort(t *testing.T) {
	_, err := ParseResvStatus(make([]byte, 10))
	assert.Error(t, err)
}
