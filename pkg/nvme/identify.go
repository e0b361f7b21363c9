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
)

// IdPowerState is one 32-byte power state descriptor of the identify
// controller structure.
type IdPowerState struct {
	MaxPower        uint16 // Centiwatts
	Rsvd2           uint8
	Flags           uint8
	EntryLat        uint32 // Microseconds
	ExitLat         uint32 // Microseconds
	ReadTput        uint8
	ReadLat         uint8
	WriteTput       uint8
	WriteLat        uint8
	IdlePower       uint16
	IdleScale       uint8
	Rsvd19          uint8
	ActivePower     uint16
	ActiveWorkScale uint8
	Rsvd23          [9]byte
}

// IdCtrl mirrors the 4096-byte Identify Controller data structure. All
// multi-byte fields are little-endian on the wire.
type IdCtrl struct {
	VendorID     uint16
	Ssvid        uint16
	SerialNumber [20]byte
	ModelNumber  [40]byte
	Firmware     [8]byte
	Rab          uint8
	IEEE         [3]byte
	Cmic         uint8
	Mdts         uint8
	Cntlid       uint16
	Ver          uint32
	Rtd3r        uint32
	Rtd3e        uint32
	Oaes         uint32
	Rsvd96       [160]byte
	Oacs         uint16
	Acl          uint8
	Aerl         uint8
	Frmw         uint8
	Lpa          uint8
	Elpe         uint8
	Npss         uint8
	Avscc        uint8
	Apsta        uint8
	Wctemp       uint16
	Cctemp       uint16
	Mtfa         uint16
	Hmpre        uint32
	Hmmin        uint32
	Tnvmcap      [16]byte
	Unvmcap      [16]byte
	Rpmbs        uint32
	Rsvd316      [196]byte
	Sqes         uint8
	Cqes         uint8
	Rsvd514      [2]byte
	Nn           uint32
	Oncs         uint16
	Fuses        uint16
	Fna          uint8
	Vwc          uint8
	Awun         uint16
	Awupf        uint16
	Nvscc        uint8
	Rsvd531      uint8
	Acwu         uint16
	Rsvd534      [2]byte
	Sgls         uint32
	Rsvd540      [1508]byte
	Psd          [32]IdPowerState
	Vs           [1024]byte
} // 4096 bytes

// ParseIdCtrl decodes an Identify Controller page, validating the buffer
// length before any field access.
func ParseIdCtrl(buf []byte) (*IdCtrl, error) {
	if len(buf) < PageSize {
		return nil, fmt.Errorf("identify controller: short buffer: %d bytes", len(buf))
	}
	ctrl := new(IdCtrl)
	if err := binary.Read(bytes.NewReader(buf[:PageSize]), binary.LittleEndian, ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Serial returns the serial number with trailing padding removed.
func (c *IdCtrl) Serial() string {
	return trimmedString(c.SerialNumber[:])
}

// Model returns the model number with trailing padding removed.
func (c *IdCtrl) Model() string {
	return trimmedString(c.ModelNumber[:])
}

// FirmwareRev returns the firmware revision with trailing padding removed.
func (c *IdCtrl) FirmwareRev() string {
	return trimmedString(c.Firmware[:])
}

// OUI converts the IEEE OUI identifier from its big-endian byte order.
func (c *IdCtrl) OUI() uint32 {
	return uint32(c.IEEE[0]) | uint32(c.IEEE[1])<<8 | uint32(c.IEEE[2])<<16
}

// PowerStates returns the npss+1 defined power state descriptors, bounded
// by the table size.
func (c *IdCtrl) PowerStates() []IdPowerState {
	n := int(c.Npss) + 1
	if n > len(c.Psd) {
		n = len(c.Psd)
	}
	return c.Psd[:n]
}

// LBAF is one entry of the identify namespace LBA format table.
type LBAF struct {
	Ms uint16
	Ds uint8
	Rp uint8
}

// IdNs mirrors the 4096-byte Identify Namespace data structure.
type IdNs struct {
	Nsze    uint64
	Ncap    uint64
	Nuse    uint64
	Nsfeat  uint8
	Nlbaf   uint8
	Flbas   uint8
	Mc      uint8
	Dpc     uint8
	Dps     uint8
	Nmic    uint8
	Rescap  uint8
	Fpi     uint8
	Rsvd33  uint8
	Nawun   uint16
	Nawupf  uint16
	Nacwu   uint16
	Nabsn   uint16
	Nabo    uint16
	Nabspf  uint16
	Rsvd46  [2]byte
	Nvmcap  [16]byte
	Rsvd64  [40]byte
	Nguid   [16]byte
	EUI64   [8]byte
	Lbaf    [16]LBAF
	Rsvd192 [192]byte
	Vs      [3712]byte
} // 4096 bytes

// ParseIdNs decodes an Identify Namespace page.
func ParseIdNs(buf []byte) (*IdNs, error) {
	if len(buf) < PageSize {
		return nil, fmt.Errorf("identify namespace: short buffer: %d bytes", len(buf))
	}
	ns := new(IdNs)
	if err := binary.Read(bytes.NewReader(buf[:PageSize]), binary.LittleEndian, ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// LBAFormats returns the nlbaf+1 defined formats. The bound comes from the
// authoritative count field, clamped to the table size, never from the
// buffer contents beyond it.
func (ns *IdNs) LBAFormats() []LBAF {
	n := int(ns.Nlbaf) + 1
	if n > len(ns.Lbaf) {
		n = len(ns.Lbaf)
	}
	return ns.Lbaf[:n]
}

// FormatInUse returns the index of the LBA format selected by flbas.
func (ns *IdNs) FormatInUse() int {
	return int(ns.Flbas & 0xf)
}

// namespaceListEntries is the fixed capacity of a namespace list page.
const namespaceListEntries = PageSize / 4

// ParseNamespaceList decodes the 1024-entry namespace id list. Unused slots
// are zero; the caller filters them.
func ParseNamespaceList(buf []byte) ([]uint32, error) {
	if len(buf) < PageSize {
		return nil, fmt.Errorf("namespace list: short buffer: %d bytes", len(buf))
	}
	list := make([]uint32, namespaceListEntries)
	for i := range list {
		list[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return list, nil
}
