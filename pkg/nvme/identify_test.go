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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marshalPage serializes a page struct to its little-endian wire form.
func marshalPage(t *testing.T, v interface{}) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, binary.Write(&b, binary.LittleEndian, v))
	return b.Bytes()
}

func TestParseIdCtrl(t *testing.T) {
	src := IdCtrl{
		VendorID: 0x144d,
		Ssvid:    0x144d,
		Rab:      4,
		IEEE:     [3]byte{0x38, 0x25, 0x00},
		Npss:     1,
		Nn:       8,
		Oacs:     0x17,
		Sqes:     0x66,
		Wctemp:   357,
	}
	copy(src.SerialNumber[:], "S3EUNX0J300527      ")
	copy(src.ModelNumber[:], "SAMSUNG MZVPV512HDGL-00000              ")
	copy(src.Firmware[:], "BXW7500Q")
	src.Psd[0].MaxPower = 900
	src.Psd[1].MaxPower = 450

	buf := marshalPage(t, &src)
	require.Len(t, buf, PageSize)

	ctrl, err := ParseIdCtrl(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x144d), ctrl.VendorID)
	assert.Equal(t, "S3EUNX0J300527", ctrl.Serial())
	assert.Equal(t, "SAMSUNG MZVPV512HDGL-00000", ctrl.Model())
	assert.Equal(t, "BXW7500Q", ctrl.FirmwareRev())
	assert.Equal(t, uint32(0x002538), ctrl.OUI())
	assert.Equal(t, uint32(8), ctrl.Nn)
	assert.Equal(t, uint16(0x17), ctrl.Oacs)
	assert.Equal(t, uint16(357), ctrl.Wctemp)

	ps := ctrl.PowerStates()
	require.Len(t, ps, 2)
	assert.Equal(t, uint16(900), ps[0].MaxPower)
	assert.Equal(t, uint16(450), ps[1].MaxPower)
}

func TestParseIdCtrlShort(t *testing.T) {
	_, err := ParseIdCtrl(make([]byte, 512))
	assert.Error(t, err)
}

func TestParseIdNs(t *testing.T) {
	src := IdNs{
		Nsze:  0x3a386030,
		Ncap:  0x3a386030,
		Nuse:  0x3a386030,
		Nlbaf: 3,
		Flbas: 0x02,
	}
	// Table entries beyond nlbaf+1 stay invisible to LBAFormats.
	for i := range src.Lbaf {
		src.Lbaf[i] = LBAF{Ds: uint8(9 + i)}
	}

	ns, err := ParseIdNs(marshalPage(t, &src))
	require.NoError(t, err)
	assert.Equal(t, uint64(0x3a386030), ns.Nsze)

	formats := ns.LBAFormats()
	require.Len(t, formats, 4)
	assert.Equal(t, uint8(12), formats[3].Ds)
	assert.Equal(t, 2, ns.FormatInUse())
}

func TestParseIdNsShort(t *testing.T) {
	_, err := ParseIdNs(make([]byte, 100))
	assert.Error(t, err)
}

func TestParseNamespaceList(t *testing.T) {
	buf := make([]byte, PageSize)
	binary.LittleEndian.PutUint32(buf[0:], 1)
	binary.LittleEndian.PutUint32(buf[4:], 5)
	binary.LittleEndian.PutUint32(buf[8:], 0xffffff00)

	list, err := ParseNamespaceList(buf)
	require.NoError(t, err)
	require.Len(t, list, 1024)
	assert.Equal(t, uint32(1), list[0])
	assert.Equal(t, uint32(5), list[1])
	assert.Equal(t, uint32(0xffffff00), list[2])
	assert.Equal(t, uint32(0), list[3])

	_, err = ParseNamespaceList(buf[:100])
	assert.Error(t, err)
}
