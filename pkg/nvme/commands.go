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

// Identify issues the admin Identify command for the given cns selector and
// returns the one-page payload.
func (d *Device) Identify(nsid, cns uint32) ([]byte, Status, error) {
	buf := make([]byte, PageSize)
	cmd := AdminCmd{
		Opcode:  AdminIdentify,
		Nsid:    nsid,
		Addr:    uint64(uintptr(unsafe.Pointer(&buf[0]))),
		DataLen: uint32(len(buf)),
		Cdw10:   cns,
	}
	status, err := d.Admin(&cmd)
	if err != nil || status != 0 {
		return nil, status, err
	}
	return buf, 0, nil
}

// IdentifyController retrieves the controller data structure.
func (d *Device) IdentifyController() ([]byte, Status, error) {
	return d.Identify(0, CnsController)
}

// IdentifyNamespace retrieves the data structure for one namespace.
func (d *Device) IdentifyNamespace(nsid uint32) ([]byte, Status, error) {
	return d.Identify(nsid, CnsNamespace)
}

// IdentifyNamespaceList retrieves the list of namespace ids greater than
// nsid.
func (d *Device) IdentifyNamespaceList(nsid uint32) ([]byte, Status, error) {
	return d.Identify(nsid, CnsNamespaceList)
}

// maxLogBytes bounds a single Get Log Page transfer.
const maxLogBytes = 0x4000

// validateLogLen enforces the caller-level contract on log transfer sizes.
func validateLogLen(n int) error {
	if n < 4 || n > maxLogBytes || n%4 != 0 {
		return fmt.Errorf("get log page: invalid length %d: want a non-zero multiple of 4 up to %d", n, maxLogBytes)
	}
	return nil
}

// logCdw10 packs the log id into the low byte and the dword count minus one
// into the high 16 bits.
func logCdw10(logID uint8, length int) uint32 {
	return uint32(logID) | (uint32(length)/4-1)<<16
}

// GetLogPage fills buf with the requested log page. The buffer length fixes
// the dword count and must be a non-zero multiple of 4.
func (d *Device) GetLogPage(logID uint8, nsid uint32, buf []byte) (Status, error) {
	if err := validateLogLen(len(buf)); err != nil {
		return 0, err
	}
	cmd := AdminCmd{
		Opcode:  AdminGetLogPage,
		Nsid:    nsid,
		Addr:    uint64(uintptr(unsafe.Pointer(&buf[0]))),
		DataLen: uint32(len(buf)),
		Cdw10:   logCdw10(logID, len(buf)),
	}
	return d.Admin(&cmd)
}

// ReadSmartLog retrieves and decodes the SMART / health log page.
func (d *Device) ReadSmartLog(nsid uint32) (*SmartLog, []byte, Status, error) {
	buf := make([]byte, SmartLogSize)
	status, err := d.GetLogPage(LogSmart, nsid, buf)
	if err != nil || status != 0 {
		return nil, nil, status, err
	}
	log, err := ParseSmartLog(buf)
	return log, buf, 0, err
}

// ReadFirmwareLog retrieves and decodes the firmware slot log page.
func (d *Device) ReadFirmwareLog() (*FirmwareLog, []byte, Status, error) {
	buf := make([]byte, FirmwareLogSize)
	status, err := d.GetLogPage(LogFirmware, NamespaceAll, buf)
	if err != nil || status != 0 {
		return nil, nil, status, err
	}
	log, err := ParseFirmwareLog(buf)
	return log, buf, 0, err
}

// ReadErrorLog retrieves and decodes up to entries error information
// entries.
func (d *Device) ReadErrorLog(nsid uint32, entries int) ([]ErrorLogEntry, []byte, Status, error) {
	if entries <= 0 {
		return nil, nil, 0, fmt.Errorf("error log: non-zero entry count is required")
	}
	buf := make([]byte, entries*ErrorLogEntrySize)
	status, err := d.GetLogPage(LogError, nsid, buf)
	if err != nil || status != 0 {
		return nil, nil, status, err
	}
	log, err := ParseErrorLog(buf, entries)
	return log, buf, 0, err
}

// Format NVM cdw10 bit offsets.
const (
	formatLbafShift = 0
	formatMsShift   = 4
	formatPiShift   = 5
	formatPilShift  = 8
	formatSesShift  = 9
)

// FormatAttrs are the semantic fields packed into cdw10 of Format NVM.
type FormatAttrs struct {
	LBAFormat      uint8 // lbaf, 4 bits
	MetadataInline uint8 // ms, 1 bit
	ProtectionInfo uint8 // pi, 3 bits
	PILocation     uint8 // pil, 1 bit
	SecureErase    uint8 // ses, 3 bits
}

// Pack range-checks each sub-field and assembles the cdw10 word. All checks
// happen before any device access.
func (a FormatAttrs) Pack() (uint32, error) {
	if a.LBAFormat > 15 {
		return 0, fmt.Errorf("format: invalid lbaf:%d", a.LBAFormat)
	}
	if a.MetadataInline > 1 {
		return 0, fmt.Errorf("format: invalid ms:%d", a.MetadataInline)
	}
	if a.ProtectionInfo > 7 {
		return 0, fmt.Errorf("format: invalid pi:%d", a.ProtectionInfo)
	}
	if a.PILocation > 1 {
		return 0, fmt.Errorf("format: invalid pi location:%d", a.PILocation)
	}
	if a.SecureErase > 7 {
		return 0, fmt.Errorf("format: invalid secure erase settings:%d", a.SecureErase)
	}
	return uint32(a.LBAFormat)<<formatLbafShift |
		uint32(a.MetadataInline)<<formatMsShift |
		uint32(a.ProtectionInfo)<<formatPiShift |
		uint32(a.PILocation)<<formatPilShift |
		uint32(a.SecureErase)<<formatSesShift, nil
}

// Format reformats a namespace with a new block format. An unset nsid is
// self-queried on block devices; character devices require an explicit one.
func (d *Device) Format(nsid uint32, attrs FormatAttrs) (Status, error) {
	cdw10, err := attrs.Pack()
	if err != nil {
		return 0, err
	}
	nsid, err = d.ResolveNamespace(nsid)
	if err != nil {
		return 0, err
	}
	cmd := AdminCmd{
		Opcode: AdminFormatNVM,
		Nsid:   nsid,
		Cdw10:  cdw10,
	}
	return d.Admin(&cmd)
}

// Get Features select field values.
const (
	SelectCurrent   uint8 = 0
	SelectDefault   uint8 = 1
	SelectSaved     uint8 = 2
	SelectSupported uint8 = 3
)

const featureSelShift = 8

// getFeatureCdw10 packs the 3-bit select field above the feature id.
func getFeatureCdw10(fid, sel uint8) (uint32, error) {
	if sel > 7 {
		return 0, fmt.Errorf("get feature: invalid select:%d", sel)
	}
	return uint32(sel)<<featureSelShift | uint32(fid), nil
}

// featureDataLen applies the wire-protocol special case: the LBA Range
// feature always transfers one full page, whatever the caller asked for.
func featureDataLen(fid uint8, dataLen int) int {
	if fid == FeatureLBARange {
		return PageSize
	}
	return dataLen
}

// GetFeature retrieves a feature value and, when dataLen is non-zero, its
// attribute buffer. The returned word is the controller's completion result.
func (d *Device) GetFeature(nsid uint32, fid, sel uint8, cdw11 uint32, dataLen int) (uint32, []byte, Status, error) {
	cdw10, err := getFeatureCdw10(fid, sel)
	if err != nil {
		return 0, nil, 0, err
	}
	cmd := AdminCmd{
		Opcode: AdminGetFeatures,
		Nsid:   nsid,
		Cdw10:  cdw10,
		Cdw11:  cdw11,
	}
	buf := attachData(&cmd, featureDataLen(fid, dataLen))
	status, err := d.Admin(&cmd)
	if err != nil || status != 0 {
		return 0, nil, status, err
	}
	return cmd.Result, buf, 0, nil
}

// SetFeature sets a feature to the given value (carried in cdw11).
func (d *Device) SetFeature(nsid uint32, fid uint8, value uint32, dataLen int) (uint32, []byte, Status, error) {
	cmd := AdminCmd{
		Opcode: AdminSetFeatures,
		Nsid:   nsid,
		Cdw10:  uint32(fid),
		Cdw11:  value,
	}
	buf := attachData(&cmd, featureDataLen(fid, dataLen))
	status, err := d.Admin(&cmd)
	if err != nil || status != 0 {
		return 0, nil, status, err
	}
	return cmd.Result, buf, 0, nil
}

// attachData allocates a transfer buffer of n bytes and points the
// descriptor at it. A zero n leaves the descriptor bufferless.
func attachData(cmd *AdminCmd, n int) []byte {
	if n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	cmd.Addr = uint64(uintptr(unsafe.Pointer(&buf[0])))
	cmd.DataLen = uint32(n)
	return buf
}

// Security command cdw10 layout: protocol in the top byte, the
// protocol-specific field below it.
const (
	secpShift = 24
	spspShift = 8
)

func securityCdw10(secp uint8, spsp uint16) uint32 {
	return uint32(secp)<<secpShift | uint32(spsp)<<spspShift
}

// SecuritySend submits a payload to the named security protocol. tl is the
// protocol-defined transfer length carried in cdw11.
func (d *Device) SecuritySend(secp uint8, spsp uint16, tl uint32, payload []byte) (uint32, Status, error) {
	cmd := AdminCmd{
		Opcode: AdminSecuritySend,
		Cdw10:  securityCdw10(secp, spsp),
		Cdw11:  tl,
	}
	if len(payload) > 0 {
		cmd.Addr = uint64(uintptr(unsafe.Pointer(&payload[0])))
		cmd.DataLen = uint32(len(payload))
	}
	status, err := d.Admin(&cmd)
	return cmd.Result, status, err
}

// SecurityReceive retrieves up to size bytes from the named security
// protocol. al is the protocol-defined allocation length carried in cdw11.
func (d *Device) SecurityReceive(secp uint8, spsp uint16, al uint32, size int) ([]byte, uint32, Status, error) {
	cmd := AdminCmd{
		Opcode: AdminSecurityRecv,
		Cdw10:  securityCdw10(secp, spsp),
		Cdw11:  al,
	}
	buf := attachData(&cmd, size)
	status, err := d.Admin(&cmd)
	if err != nil || status != 0 {
		return nil, 0, status, err
	}
	return buf, cmd.Result, 0, nil
}

// Control word bits for read/write/compare.
const (
	rwPrinfoShift = 10
	rwFUA         = 1 << 14
	rwLR          = 1 << 15
)

// RWArgs are the semantic fields of a read, write, or compare submission.
type RWArgs struct {
	Slba            uint64
	Nblocks         uint16 // zero-based block count
	PrInfo          uint8  // protection information checks, 4 bits
	LimitedRetry    bool
	ForceUnitAccess bool
	Reftag          uint32
	Apptag          uint16
	Appmask         uint16
}

// Control range-checks prinfo and assembles the 16-bit control word.
func (a RWArgs) Control() (uint16, error) {
	if a.PrInfo > 0xf {
		return 0, fmt.Errorf("invalid prinfo:%#x", a.PrInfo)
	}
	c := uint16(a.PrInfo) << rwPrinfoShift
	if a.LimitedRetry {
		c |= rwLR
	}
	if a.ForceUnitAccess {
		c |= rwFUA
	}
	return c, nil
}

// BuildUserIO assembles the user-io descriptor for a read, write, or
// compare over the given data buffer.
func BuildUserIO(opcode uint8, args RWArgs, data []byte) (*UserIO, error) {
	control, err := args.Control()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("data size not provided")
	}
	return &UserIO{
		Opcode:  opcode,
		Control: control,
		Nblocks: args.Nblocks,
		Slba:    args.Slba,
		Addr:    uint64(uintptr(unsafe.Pointer(&data[0]))),
		Reftag:  args.Reftag,
		Apptag:  args.Apptag,
		Appmask: args.Appmask,
	}, nil
}

// SubmitRW issues a read, write, or compare. data is consumed for writes
// and compares and filled for reads.
func (d *Device) SubmitRW(opcode uint8, args RWArgs, data []byte) (Status, error) {
	io, err := BuildUserIO(opcode, args, data)
	if err != nil {
		return 0, err
	}
	return d.SubmitIO(io)
}

// Flush commits volatile write cache contents for the namespace.
func (d *Device) Flush(nsid uint32) (Status, error) {
	cmd := PassthruCmd{
		Opcode: CmdFlush,
		Nsid:   nsid,
	}
	return d.IO(&cmd)
}

// validatePassthruDirection enforces the only semantic rule on passthru
// descriptors: with a data buffer present, exactly one of read/write must be
// set.
func validatePassthruDirection(dataLen uint32, read, write bool) error {
	if dataLen == 0 {
		return nil
	}
	if !read && !write {
		return fmt.Errorf("data direction not given")
	}
	if read && write {
		return fmt.Errorf("command can't be both read and write")
	}
	return nil
}

// Passthru submits a fully caller-specified descriptor as an admin (admin
// true) or I/O command. Data and metadata buffers are allocated here from
// the descriptor lengths; input seeds the data buffer for writes. On a
// successful read the filled data buffer is returned.
func (d *Device) Passthru(cmd *PassthruCmd, admin, read, write bool, input []byte) ([]byte, Status, error) {
	if err := validatePassthruDirection(cmd.DataLen, read, write); err != nil {
		return nil, 0, err
	}

	var data []byte
	if cmd.DataLen > 0 {
		data = make([]byte, cmd.DataLen)
		if write {
			copy(data, input)
		}
		cmd.Addr = uint64(uintptr(unsafe.Pointer(&data[0])))
	}
	var meta []byte
	if cmd.MetadataLen > 0 {
		meta = make([]byte, cmd.MetadataLen)
		cmd.Metadata = uint64(uintptr(unsafe.Pointer(&meta[0])))
	}

	submit := d.IO
	if admin {
		submit = d.Admin
	}
	status, err := submit(cmd)
	if err != nil || status != 0 {
		return nil, status, err
	}
	if read {
		return data, 0, nil
	}
	return nil, 0, nil
}
