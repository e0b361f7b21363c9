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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAttrsPack(t *testing.T) {
	attrs := FormatAttrs{
		LBAFormat:      5,
		MetadataInline: 1,
		ProtectionInfo: 3,
		PILocation:     1,
		SecureErase:    2,
	}
	cdw10, err := attrs.Pack()
	require.NoError(t, err)
	// 5 | 1<<4 | 3<<5 | 1<<8 | 2<<9
	assert.Equal(t, uint32(1397), cdw10)
}

func TestFormatAttrsPackZero(t *testing.T) {
	cdw10, err := FormatAttrs{}.Pack()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cdw10)
}

func TestFormatAttrsPackRange(t *testing.T) {
	cases := []FormatAttrs{
		{LBAFormat: 16},
		{MetadataInline: 2},
		{ProtectionInfo: 8},
		{PILocation: 2},
		{SecureErase: 8},
	}
	for _, attrs := range cases {
		_, err := attrs.Pack()
		assert.Error(t, err)
	}
}

func TestValidateLogLen(t *testing.T) {
	assert.NoError(t, validateLogLen(4))
	assert.NoError(t, validateLogLen(512))
	assert.NoError(t, validateLogLen(0x4000))

	assert.Error(t, validateLogLen(0))
	assert.Error(t, validateLogLen(2))
	assert.Error(t, validateLogLen(514))
	assert.Error(t, validateLogLen(0x4004))
}

func TestLogCdw10(t *testing.T) {
	// 512 bytes is 128 dwords; the field carries the count minus one.
	assert.Equal(t, uint32(0x7f0002), logCdw10(LogSmart, 512))
	assert.Equal(t, uint32(0x10001), logCdw10(LogError, 8))
}

func TestGetFeatureCdw10(t *testing.T) {
	cdw10, err := getFeatureCdw10(FeatureTempThresh, SelectDefault)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<8|0x04), cdw10)

	_, err = getFeatureCdw10(FeatureTempThresh, 8)
	assert.Error(t, err)
}

func TestFeatureDataLen(t *testing.T) {
	// The LBA Range feature always transfers a full page.
	assert.Equal(t, PageSize, featureDataLen(FeatureLBARange, 0))
	assert.Equal(t, PageSize, featureDataLen(FeatureLBARange, 64))
	assert.Equal(t, 0, featureDataLen(FeatureTempThresh, 0))
	assert.Equal(t, 16, featureDataLen(FeatureNumQueues, 16))
}

func TestSecurityCdw10(t *testing.T) {
	assert.Equal(t, uint32(0xea<<24|0x0001<<8), securityCdw10(0xea, 1))
	assert.Equal(t, uint32(0), securityCdw10(0, 0))
}

func TestRWControl(t *testing.T) {
	c, err := RWArgs{}.Control()
	require.NoError(t, err)
	assert.Equal(t, uint16(0), c)

	c, err = RWArgs{PrInfo: 0x8, LimitedRetry: true, ForceUnitAccess: true}.Control()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8<<10|1<<14|1<<15), c)

	_, err = RWArgs{PrInfo: 0x10}.Control()
	assert.Error(t, err)
}

func TestBuildUserIO(t *testing.T) {
	data := make([]byte, 512)
	io, err := BuildUserIO(CmdRead, RWArgs{Slba: 100, Nblocks: 7, Reftag: 9}, data)
	require.NoError(t, err)
	assert.Equal(t, CmdRead, io.Opcode)
	assert.Equal(t, uint64(100), io.Slba)
	assert.Equal(t, uint16(7), io.Nblocks)
	assert.Equal(t, uint32(9), io.Reftag)
	assert.NotZero(t, io.Addr)

	_, err = BuildUserIO(CmdWrite, RWArgs{}, nil)
	assert.Error(t, err)
}

func TestValidatePassthruDirection(t *testing.T) {
	// No transfer: direction flags are irrelevant.
	assert.NoError(t, validatePassthruDirection(0, false, false))
	assert.NoError(t, validatePassthruDirection(0, true, true))

	assert.NoError(t, validatePassthruDirection(512, true, false))
	assert.NoError(t, validatePassthruDirection(512, false, true))
	assert.Error(t, validatePassthruDirection(512, false, false))
	assert.Error(t, validatePassthruDirection(512, true, true))
}

func TestAttachData(t *testing.T) {
	var cmd AdminCmd
	assert.Nil(t, attachData(&cmd, 0))
	assert.Zero(t, cmd.Addr)

	buf := attachData(&cmd, 512)
	assert.Len(t, buf, 512)
	assert.NotZero(t, cmd.Addr)
	assert.Equal(t, uint32(512), cmd.DataLen)
}
