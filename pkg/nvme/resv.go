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
	"unsafe"

	"github.com/lunixbochs/struc"
)

// cdw10 layout shared by the reservation commands.
const (
	resvIekeyShift = 3
	resvRtypeShift = 8
	resvCptplShift = 30
)

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// resvAcquireCdw10 packs the reservation type, ignore-existing-key flag,
// and acquire action.
func resvAcquireCdw10(rtype, racqa uint8, iekey bool) (uint32, error) {
	if racqa > 7 {
		return 0, fmt.Errorf("reservation acquire: invalid racqa:%d", racqa)
	}
	return uint32(rtype)<<resvRtypeShift | boolBit(iekey)<<resvIekeyShift | uint32(racqa), nil
}

// resvRegisterCdw10 packs the change-persist-through-power-loss setting,
// ignore-existing-key flag, and register action.
func resvRegisterCdw10(rrega, cptpl uint8, iekey bool) (uint32, error) {
	if cptpl > 3 {
		return 0, fmt.Errorf("reservation register: invalid cptpl:%d", cptpl)
	}
	return uint32(cptpl)<<resvCptplShift | boolBit(iekey)<<resvIekeyShift | uint32(rrega), nil
}

// resvReleaseCdw10 packs the reservation type, ignore-existing-key flag,
// and release action.
func resvReleaseCdw10(rtype, rrela uint8, iekey bool) (uint32, error) {
	if rrela > 7 {
		return 0, fmt.Errorf("reservation release: invalid rrela:%d", rrela)
	}
	return uint32(rtype)<<resvRtypeShift | boolBit(iekey)<<resvIekeyShift | uint32(rrela), nil
}

// resvKeys lays the 64-bit reservation keys out little-endian, back to back,
// as the command data buffer.
func resvKeys(keys ...uint64) []byte {
	buf := make([]byte, 8*len(keys))
	for i, k := range keys {
		binary.LittleEndian.PutUint64(buf[i*8:], k)
	}
	return buf
}

// ResvAcquire acquires, preempts, or aborts a reservation on the namespace.
// The current key and the preempt key travel as a 16-byte payload.
func (d *Device) ResvAcquire(nsid uint32, rtype, racqa uint8, iekey bool, crkey, prkey uint64) (Status, error) {
	cdw10, err := resvAcquireCdw10(rtype, racqa, iekey)
	if err != nil {
		return 0, err
	}
	payload := resvKeys(crkey, prkey)
	cmd := PassthruCmd{
		Opcode:  CmdResvAcquire,
		Nsid:    nsid,
		Cdw10:   cdw10,
		Addr:    uint64(uintptr(unsafe.Pointer(&payload[0]))),
		DataLen: uint32(len(payload)),
	}
	return d.IO(&cmd)
}

// ResvRegister registers, unregisters, or replaces a reservation key. The
// current key and the new key travel as a 16-byte payload.
func (d *Device) ResvRegister(nsid uint32, rrega, cptpl uint8, iekey bool, crkey, nrkey uint64) (Status, error) {
	cdw10, err := resvRegisterCdw10(rrega, cptpl, iekey)
	if err != nil {
		return 0, err
	}
	payload := resvKeys(crkey, nrkey)
	cmd := PassthruCmd{
		Opcode:  CmdResvRegister,
		Nsid:    nsid,
		Cdw10:   cdw10,
		Addr:    uint64(uintptr(unsafe.Pointer(&payload[0]))),
		DataLen: uint32(len(payload)),
	}
	return d.IO(&cmd)
}

// ResvRelease releases or clears a reservation. Only the current key
// travels as payload.
func (d *Device) ResvRelease(nsid uint32, rtype, rrela uint8, iekey bool, crkey uint64) (Status, error) {
	cdw10, err := resvReleaseCdw10(rtype, rrela, iekey)
	if err != nil {
		return 0, err
	}
	payload := resvKeys(crkey)
	cmd := PassthruCmd{
		Opcode:  CmdResvRelease,
		Nsid:    nsid,
		Cdw10:   cdw10,
		Addr:    uint64(uintptr(unsafe.Pointer(&payload[0]))),
		DataLen: uint32(len(payload)),
	}
	return d.IO(&cmd)
}

// clipResvNumd bounds the requested report size to one page of dwords and
// never less than the fixed header.
func clipResvNumd(numd uint32) uint32 {
	if numd == 0 || numd > PageSize>>2 {
		numd = PageSize >> 2
	}
	if numd < resvStatusHeaderSize>>2 {
		numd = resvStatusHeaderSize >> 2
	}
	return numd
}

// ResvReport retrieves the reservation status data structure, numd dwords
// long.
func (d *Device) ResvReport(nsid, numd uint32) ([]byte, Status, error) {
	numd = clipResvNumd(numd)
	buf := make([]byte, numd<<2)
	cmd := PassthruCmd{
		Opcode:  CmdResvReport,
		Nsid:    nsid,
		Cdw10:   numd,
		Addr:    uint64(uintptr(unsafe.Pointer(&buf[0]))),
		DataLen: uint32(len(buf)),
	}
	status, err := d.IO(&cmd)
	if err != nil || status != 0 {
		return nil, status, err
	}
	return buf, 0, nil
}

const (
	resvStatusHeaderSize = 24
	registrantSize       = 24
)

// RegisteredCtrl is one 24-byte registered controller descriptor trailing
// the reservation status header.
type RegisteredCtrl struct {
	Cntlid uint16  `struc:"uint16,little"`
	Rcsts  uint8   `struc:"uint8"`
	Rsvd3  [5]byte `struc:"[5]pad"`
	HostID uint64  `struc:"uint64,little"`
	Rkey   uint64  `struc:"uint64,little"`
}

// ResvStatus is the decoded reservation status data structure: the fixed
// header plus its variable-length registrant array.
type ResvStatus struct {
	Gen         uint32
	Rtype       uint8
	Regctl      [2]uint8
	Ptpls       uint8
	Registrants []RegisteredCtrl
}

// RegistrantCount reassembles the 16-bit controller count split across two
// bytes in the header.
func (s *ResvStatus) RegistrantCount() int {
	return int(s.Regctl[0]) | int(s.Regctl[1])<<8
}

// ParseResvStatus decodes a reservation status buffer. The registrant array
// length comes from the regctl field, clamped to what the buffer actually
// holds so a short transfer never reads past the end.
func ParseResvStatus(buf []byte) (*ResvStatus, error) {
	if len(buf) < resvStatusHeaderSize {
		return nil, fmt.Errorf("reservation status: short buffer: %d bytes", len(buf))
	}
	st := &ResvStatus{
		Gen:    binary.LittleEndian.Uint32(buf[0:4]),
		Rtype:  buf[4],
		Regctl: [2]uint8{buf[5], buf[6]},
		Ptpls:  buf[9],
	}

	n := st.RegistrantCount()
	if max := (len(buf) - resvStatusHeaderSize) / registrantSize; n > max {
		n = max
	}
	r := bytes.NewReader(buf[resvStatusHeaderSize:])
	for i := 0; i < n; i++ {
		var rc RegisteredCtrl
		if err := struc.Unpack(r, &rc); err != nil {
			return nil, fmt.Errorf("reservation status: registrant %d: %w", i, err)
		}
		st.Registrants = append(st.Registrants, rc)
	}
	return st, nil
}
