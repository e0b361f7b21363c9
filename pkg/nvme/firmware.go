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
	"fmt"
	"unsafe"
)

// Firmware commit cdw10 layout: 3-bit slot in the low bits, 2-bit action
// above it.
const fwActionShift = 3

// FirmwareActivate commits a downloaded image to a firmware slot.
func (d *Device) FirmwareActivate(slot, action uint8) (Status, error) {
	if slot > 7 {
		return 0, fmt.Errorf("firmware activate: invalid slot:%d", slot)
	}
	if action > 3 {
		return 0, fmt.Errorf("firmware activate: invalid action:%d", action)
	}
	cmd := AdminCmd{
		Opcode: AdminActivateFW,
		Cdw10:  uint32(action)<<fwActionShift | uint32(slot),
	}
	return d.Admin(&cmd)
}

// fwXferAlign is the granularity firmware download transfers are coerced to.
const fwXferAlign = 4096

// fwChunk is one planned Firmware Image Download transfer.
type fwChunk struct {
	offset int    // byte offset into the image
	length int    // bytes carried by this transfer
	cdw10  uint32 // number of dwords minus one
	cdw11  uint32 // dword offset on the device
}

// planFirmwareChunks splits an image into transfer-sized chunks starting at
// the given device byte offset. The transfer size is coerced up to a
// 4096-byte multiple; the image length must be a multiple of 4.
func planFirmwareChunks(imageLen, xfer, offset int) ([]fwChunk, error) {
	if imageLen == 0 {
		return nil, fmt.Errorf("firmware download: empty image")
	}
	if imageLen%4 != 0 {
		return nil, fmt.Errorf("firmware download: invalid size:%d for f/w image", imageLen)
	}
	if xfer <= 0 || xfer%fwXferAlign != 0 {
		xfer = fwXferAlign
	}

	var chunks []fwChunk
	for remaining := imageLen; remaining > 0; {
		n := xfer
		if n > remaining {
			n = remaining
		}
		cur := imageLen - remaining
		chunks = append(chunks, fwChunk{
			offset: cur,
			length: n,
			cdw10:  uint32(n>>2) - 1,
			cdw11:  uint32((offset + cur) >> 2),
		})
		remaining -= n
	}
	return chunks, nil
}

// adminSubmitter is the slice of Device the download loop needs; tests
// drive the loop with a fake.
type adminSubmitter interface {
	Admin(*AdminCmd) (Status, error)
}

// FirmwareDownload transfers a firmware image to the controller one chunk
// at a time, starting at the given device dword offset (the unit cdw11
// carries). Any non-zero result stops the loop immediately: the partial
// offset reached is reported, nothing is rolled back, and there is no
// resume. A failed download restarts from offset 0.
func (d *Device) FirmwareDownload(image []byte, xfer, offset int) (Status, error) {
	return downloadFirmware(d, image, xfer, offset)
}

func downloadFirmware(t adminSubmitter, image []byte, xfer, offset int) (Status, error) {
	chunks, err := planFirmwareChunks(len(image), xfer, offset<<2)
	if err != nil {
		return 0, err
	}
	for _, c := range chunks {
		buf := image[c.offset : c.offset+c.length]
		cmd := AdminCmd{
			Opcode:  AdminDownloadFW,
			Addr:    uint64(uintptr(unsafe.Pointer(&buf[0]))),
			DataLen: uint32(c.length),
			Cdw10:   c.cdw10,
			Cdw11:   c.cdw11,
		}
		status, err := t.Admin(&cmd)
		if err != nil {
			return 0, fmt.Errorf("firmware download at offset %d: %w", c.offset, err)
		}
		if status != 0 {
			return status, nil
		}
	}
	return 0, nil
}
