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

	"github.com/lunixbochs/struc"
)

// SmartLog is the 512-byte SMART / health information log page. The
// [16]byte fields are little-endian 128-bit counters.
type SmartLog struct {
	CritWarning      uint8
	Temperature      [2]uint8
	AvailSpare       uint8
	SpareThresh      uint8
	PercentUsed      uint8
	Rsvd6            [26]byte
	DataUnitsRead    [16]byte
	DataUnitsWritten [16]byte
	HostReads        [16]byte
	HostWrites       [16]byte
	CtrlBusyTime     [16]byte
	PowerCycles      [16]byte
	PowerOnHours     [16]byte
	UnsafeShutdowns  [16]byte
	MediaErrors      [16]byte
	NumErrLogEntries [16]byte
	WarningTempTime  uint32
	CritCompTime     uint32
	TempSensor       [8]uint16
	Rsvd216          [296]byte
} // 512 bytes

// SmartLogSize is the log page transfer length.
const SmartLogSize = 512

// ParseSmartLog decodes a SMART log page.
func ParseSmartLog(buf []byte) (*SmartLog, error) {
	if len(buf) < SmartLogSize {
		return nil, fmt.Errorf("smart log: short buffer: %d bytes", len(buf))
	}
	log := new(SmartLog)
	if err := binary.Read(bytes.NewReader(buf[:SmartLogSize]), binary.LittleEndian, log); err != nil {
		return nil, err
	}
	return log, nil
}

// TemperatureCelsius converts the Kelvin-reported composite temperature.
func (l *SmartLog) TemperatureCelsius() int {
	return int(uint16(l.Temperature[0])|uint16(l.Temperature[1])<<8) - 273
}

// FirmwareLog is the 512-byte firmware slot information log page.
type FirmwareLog struct {
	Afi    uint8
	Rsvd1  [7]byte
	Frs    [7]uint64
	Rsvd64 [448]byte
} // 512 bytes

// FirmwareLogSize is the log page transfer length.
const FirmwareLogSize = 512

// ParseFirmwareLog decodes a firmware slot log page.
func ParseFirmwareLog(buf []byte) (*FirmwareLog, error) {
	if len(buf) < FirmwareLogSize {
		return nil, fmt.Errorf("firmware log: short buffer: %d bytes", len(buf))
	}
	log := new(FirmwareLog)
	if err := binary.Read(bytes.NewReader(buf[:FirmwareLogSize]), binary.LittleEndian, log); err != nil {
		return nil, err
	}
	return log, nil
}

// SlotRevision renders the firmware revision of slot i (0-based) as
// printable ASCII, with non-printable bytes shown as '.'.
func (l *FirmwareLog) SlotRevision(i int) string {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], l.Frs[i])
	return printableString(b[:])
}

// ErrorLogEntry is one 64-byte error information log entry.
type ErrorLogEntry struct {
	ErrorCount   uint64   `struc:"uint64,little"`
	SQID         uint16   `struc:"uint16,little"`
	CmdID        uint16   `struc:"uint16,little"`
	StatusField  uint16   `struc:"uint16,little"`
	ParmErrorLoc uint16   `struc:"uint16,little"`
	LBA          uint64   `struc:"uint64,little"`
	Nsid         uint32   `struc:"uint32,little"`
	Vs           uint8    `struc:"uint8"`
	Rsvd29       [35]byte `struc:"[35]pad"`
}

// ErrorLogEntrySize is the wire size of one entry.
const ErrorLogEntrySize = 64

// ParseErrorLog decodes up to entries error information entries, clamped to
// what the buffer holds.
func ParseErrorLog(buf []byte, entries int) ([]ErrorLogEntry, error) {
	if max := len(buf) / ErrorLogEntrySize; entries > max {
		entries = max
	}
	r := bytes.NewReader(buf)
	log := make([]ErrorLogEntry, 0, entries)
	for i := 0; i < entries; i++ {
		var e ErrorLogEntry
		if err := struc.Unpack(r, &e); err != nil {
			return nil, fmt.Errorf("error log: entry %d: %w", i, err)
		}
		log = append(log, e)
	}
	return log, nil
}
