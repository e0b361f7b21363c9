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

// Status is a completion status word as returned by the kernel for a
// passthru command. Only the low 10 bits carry the status code; a zero word
// is success.
type Status uint32

const statusCodeMask = 0x3ff

// Generic command status codes.
const (
	SCSuccess       Status = 0x0
	SCInvalidOpcode Status = 0x1
	SCInvalidField  Status = 0x2
	SCCmdidConflict Status = 0x3
	SCDataXferError Status = 0x4
	SCPowerLoss     Status = 0x5
	SCInternal      Status = 0x6
	SCAbortReq      Status = 0x7
	SCAbortQueue    Status = 0x8
	SCFusedFail     Status = 0x9
	SCFusedMissing  Status = 0xa
	SCInvalidNS     Status = 0xb
	SCCmdSeqError   Status = 0xc

	SCLBARange    Status = 0x80
	SCCapExceeded Status = 0x81
	SCNSNotReady  Status = 0x82
)

// Command-specific status codes.
const (
	SCCQInvalid      Status = 0x100
	SCQIDInvalid     Status = 0x101
	SCQueueSize      Status = 0x102
	SCAbortLimit     Status = 0x103
	SCAbortMissing   Status = 0x104
	SCAsyncLimit     Status = 0x105
	SCFirmwareSlot   Status = 0x106
	SCFirmwareImage  Status = 0x107
	SCInvalidVector  Status = 0x108
	SCInvalidLogPage Status = 0x109
	SCInvalidFormat  Status = 0x10a

	SCBadAttributes Status = 0x180
)

// Media error status codes.
const (
	SCWriteFault    Status = 0x280
	SCReadError     Status = 0x281
	SCGuardCheck    Status = 0x282
	SCApptagCheck   Status = 0x283
	SCReftagCheck   Status = 0x284
	SCCompareFailed Status = 0x285
	SCAccessDenied  Status = 0x286
)

var statusNames = map[Status]string{
	SCSuccess:        "SUCCESS",
	SCInvalidOpcode:  "INVALID_OPCODE",
	SCInvalidField:   "INVALID_FIELD",
	SCCmdidConflict:  "CMDID_CONFLICT",
	SCDataXferError:  "DATA_XFER_ERROR",
	SCPowerLoss:      "POWER_LOSS",
	SCInternal:       "INTERNAL",
	SCAbortReq:       "ABORT_REQ",
	SCAbortQueue:     "ABORT_QUEUE",
	SCFusedFail:      "FUSED_FAIL",
	SCFusedMissing:   "FUSED_MISSING",
	SCInvalidNS:      "INVALID_NS",
	SCCmdSeqError:    "CMD_SEQ_ERROR",
	SCLBARange:       "LBA_RANGE",
	SCCapExceeded:    "CAP_EXCEEDED",
	SCNSNotReady:     "NS_NOT_READY",
	SCCQInvalid:      "CQ_INVALID",
	SCQIDInvalid:     "QID_INVALID",
	SCQueueSize:      "QUEUE_SIZE",
	SCAbortLimit:     "ABORT_LIMIT",
	SCAbortMissing:   "ABORT_MISSING",
	SCAsyncLimit:     "ASYNC_LIMIT",
	SCFirmwareSlot:   "FIRMWARE_SLOT",
	SCFirmwareImage:  "FIRMWARE_IMAGE",
	SCInvalidVector:  "INVALID_VECTOR",
	SCInvalidLogPage: "INVALID_LOG_PAGE",
	SCInvalidFormat:  "INVALID_FORMAT",
	SCBadAttributes:  "BAD_ATTRIBUTES",
	SCWriteFault:     "WRITE_FAULT",
	SCReadError:      "READ_ERROR",
	SCGuardCheck:     "GUARD_CHECK",
	SCApptagCheck:    "APPTAG_CHECK",
	SCReftagCheck:    "REFTAG_CHECK",
	SCCompareFailed:  "COMPARE_FAILED",
	SCAccessDenied:   "ACCESS_DENIED",
}

// Code returns the 10-bit status code portion of the word.
func (s Status) Code() Status {
	return s & statusCodeMask
}

// String maps the status code to its symbolic name. Codes outside the table
// render as "Unknown". Diagnostic only; callers branch on s != 0, never on
// the name.
func (s Status) String() string {
	if name, ok := statusNames[s.Code()]; ok {
		return name
	}
	return "Unknown"
}
