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

func TestParseRegisters(t *testing.T) {
	buf := make([]byte, registerBankSize)
	binary.LittleEndian.PutUint64(buf[0:], 0x2078020fff)   // cap
	binary.LittleEndian.PutUint32(buf[8:], 0x10200)        // vs 1.2
	binary.LittleEndian.PutUint32(buf[20:], 0x460001)      // cc
	binary.LittleEndian.PutUint32(buf[28:], 0x1)           // csts
	binary.LittleEndian.PutUint32(buf[36:], 0x1f001f)      // aqa
	binary.LittleEndian.PutUint64(buf[40:], 0x3c0f000000)  // asq
	binary.LittleEndian.PutUint64(buf[48:], 0x3c0e000000)  // acq

	bar, err := ParseRegisters(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2078020fff), bar.Cap)
	assert.Equal(t, uint32(0x10200), bar.Vs)
	assert.Equal(t, uint32(0x460001), bar.Cc)
	assert.Equal(t, uint32(0x1), bar.Csts)
	assert.Equal(t, uint32(0x1f001f), bar.Aqa)
	assert.Equal(t, uint64(0x3c0f000000), bar.Asq)
	assert.Equal(t, uint64(0x3c0e000000), bar.Acq)
	assert.Zero(t, bar.Cmbsz)
}

func TestParseRegistersShort(t *testing.T) {
	_, err := ParseRegisters(make([]byte, 32))
	assert.Error(t, err)
}
