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

// Package nvme builds NVM-Express command descriptors, submits them through
// the Linux passthru ioctls, and decodes the fixed-layout binary structures
// the controller returns.
package nvme

// Admin command opcodes.
const (
	AdminGetLogPage   uint8 = 0x02
	AdminIdentify     uint8 = 0x06
	AdminSetFeatures  uint8 = 0x09
	AdminGetFeatures  uint8 = 0x0a
	AdminActivateFW   uint8 = 0x10
	AdminDownloadFW   uint8 = 0x11
	AdminFormatNVM    uint8 = 0x80
	AdminSecuritySend uint8 = 0x81
	AdminSecurityRecv uint8 = 0x82
)

// I/O command opcodes.
const (
	CmdFlush        uint8 = 0x00
	CmdWrite        uint8 = 0x01
	CmdRead         uint8 = 0x02
	CmdCompare      uint8 = 0x05
	CmdResvRegister uint8 = 0x0d
	CmdResvReport   uint8 = 0x0e
	CmdResvAcquire  uint8 = 0x11
	CmdResvRelease  uint8 = 0x15
)

// CNS selectors for the Identify command.
const (
	CnsNamespace     uint32 = 0
	CnsController    uint32 = 1
	CnsNamespaceList uint32 = 2
)

// Log page identifiers.
const (
	LogError    uint8 = 0x01
	LogSmart    uint8 = 0x02
	LogFirmware uint8 = 0x03
)

// NamespaceAll addresses every namespace on the controller.
const NamespaceAll uint32 = 0xffffffff

// PageSize is the transfer unit for the identify structures and most other
// one-page payloads.
const PageSize = 4096
