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

package ioctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestEncoding(t *testing.T) {
	// Known values from <linux/nvme_ioctl.h>.
	assert.Equal(t, uintptr(0x4e40), Io('N', 0x40))
	assert.Equal(t, uintptr(0xc0484e41), Iowr('N', 0x41, 72))
	assert.Equal(t, uintptr(0x40304e42), Iow('N', 0x42, 48))
	assert.Equal(t, uintptr(0xc0484e43), Iowr('N', 0x43, 72))
}

func TestDirectionBits(t *testing.T) {
	// Read-only and write-only requests differ exactly in the top dir bits.
	r := Ior('N', 0x10, 4)
	w := Iow('N', 0x10, 4)
	assert.NotEqual(t, r, w)
	assert.Equal(t, r&^(uintptr(3)<<30), w&^(uintptr(3)<<30))
}
