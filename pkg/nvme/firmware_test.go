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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFirmwareChunks(t *testing.T) {
	chunks, err := planFirmwareChunks(10000, 4096, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	total := 0
	for _, c := range chunks {
		total += c.length
	}
	assert.Equal(t, 10000, total)

	assert.Equal(t, fwChunk{offset: 0, length: 4096, cdw10: 1023, cdw11: 0}, chunks[0])
	assert.Equal(t, fwChunk{offset: 4096, length: 4096, cdw10: 1023, cdw11: 1024}, chunks[1])
	assert.Equal(t, fwChunk{offset: 8192, length: 1808, cdw10: 451, cdw11: 2048}, chunks[2])
}

func TestPlanFirmwareChunksOffset(t *testing.T) {
	chunks, err := planFirmwareChunks(4096, 4096, 8192)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, uint32(2048), chunks[0].cdw11)
}

func TestPlanFirmwareChunksXferCoercion(t *testing.T) {
	// Off-granularity transfer sizes fall back to the 4096 default.
	for _, xfer := range []int{0, -1, 100, 5000} {
		chunks, err := planFirmwareChunks(8192, xfer, 0)
		require.NoError(t, err)
		assert.Len(t, chunks, 2)
	}
	chunks, err := planFirmwareChunks(8192, 8192, 0)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestPlanFirmwareChunksInvalid(t *testing.T) {
	_, err := planFirmwareChunks(0, 4096, 0)
	assert.Error(t, err)

	_, err = planFirmwareChunks(4098, 4096, 0)
	assert.Error(t, err)
}

// fakeAdmin records submitted descriptors and replays scripted outcomes.
type fakeAdmin struct {
	cmds     []AdminCmd
	statuses []Status
	errs     []error
}

func (f *fakeAdmin) Admin(cmd *AdminCmd) (Status, error) {
	i := len(f.cmds)
	f.cmds = append(f.cmds, *cmd)
	var status Status
	if i < len(f.statuses) {
		status = f.statuses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return status, err
}

func TestDownloadFirmware(t *testing.T) {
	fake := &fakeAdmin{}
	image := make([]byte, 10000)

	status, err := downloadFirmware(fake, image, 4096, 0)
	require.NoError(t, err)
	assert.Equal(t, Status(0), status)
	require.Len(t, fake.cmds, 3)

	for _, cmd := range fake.cmds {
		assert.Equal(t, AdminDownloadFW, cmd.Opcode)
	}
	assert.Equal(t, uint32(4096), fake.cmds[0].DataLen)
	assert.Equal(t, uint32(1808), fake.cmds[2].DataLen)
	assert.Equal(t, uint32(2048), fake.cmds[2].Cdw11)
}

func TestDownloadFirmwareDwordOffset(t *testing.T) {
	// The caller-facing offset is in dwords and lands in cdw11 unchanged.
	fake := &fakeAdmin{}
	_, err := downloadFirmware(fake, make([]byte, 4096), 4096, 1)
	require.NoError(t, err)
	require.Len(t, fake.cmds, 1)
	assert.Equal(t, uint32(1), fake.cmds[0].Cdw11)

	fake = &fakeAdmin{}
	_, err = downloadFirmware(fake, make([]byte, 8192), 4096, 1024)
	require.NoError(t, err)
	require.Len(t, fake.cmds, 2)
	assert.Equal(t, uint32(1024), fake.cmds[0].Cdw11)
	assert.Equal(t, uint32(2048), fake.cmds[1].Cdw11)
}

func TestDownloadFirmwareStopsOnStatus(t *testing.T) {
	fake := &fakeAdmin{statuses: []Status{0, SCFirmwareImage}}
	image := make([]byte, 12288)

	status, err := downloadFirmware(fake, image, 4096, 0)
	require.NoError(t, err)
	assert.Equal(t, SCFirmwareImage, status)
	// Third chunk is never submitted after the failure.
	assert.Len(t, fake.cmds, 2)
}

func TestDownloadFirmwareStopsOnError(t *testing.T) {
	boom := errors.New("ioctl failed")
	fake := &fakeAdmin{errs: []error{boom}}
	image := make([]byte, 8192)

	_, err := downloadFirmware(fake, image, 4096, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, fake.cmds, 1)
}

func TestDownloadFirmwareRejectsBadImage(t *testing.T) {
	fake := &fakeAdmin{}
	_, err := downloadFirmware(fake, make([]byte, 4097), 0, 0)
	assert.Error(t, err)
	// Validation happens before any submission.
	assert.Empty(t, fake.cmds)
}
