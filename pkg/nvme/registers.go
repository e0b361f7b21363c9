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
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Registers is a snapshot of the controller register bank at the start of
// BAR0.
type Registers struct {
	Cap    uint64
	Vs     uint32
	Intms  uint32
	Intmc  uint32
	Cc     uint32
	Rsvd24 uint32
	Csts   uint32
	Nssr   uint32
	Aqa    uint32
	Asq    uint64
	Acq    uint64
	Cmbloc uint32
	Cmbsz  uint32
} // 64 bytes

const registerBankSize = 64

// ParseRegisters decodes the register bank from a mapped BAR page.
func ParseRegisters(buf []byte) (*Registers, error) {
	if len(buf) < registerBankSize {
		return nil, fmt.Errorf("registers: short buffer: %d bytes", len(buf))
	}
	bar := new(Registers)
	if err := binary.Read(bytes.NewReader(buf[:registerBankSize]), binary.LittleEndian, bar); err != nil {
		return nil, err
	}
	return bar, nil
}

// ReadRegisters maps one read-only page of the PCI resource region behind
// the controller character device and decodes the register bank. The sysfs
// path is derived from the device's base name; the mapping lives only for
// the duration of the call.
func (d *Device) ReadRegisters() (*Registers, error) {
	if !d.IsChar() {
		return nil, fmt.Errorf("%s is not a character device", d.Path)
	}

	res := fmt.Sprintf("/sys/class/misc/%s/device/resource0", filepath.Base(d.Path))
	fd, err := unix.Open(res, unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%s did not find a pci resource: %w", d.Path, err)
	}
	defer unix.Close(fd)

	mem, err := unix.Mmap(fd, 0, unix.Getpagesize(), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%s failed to map: %w", res, err)
	}
	defer unix.Munmap(mem)

	return ParseRegisters(mem)
}
