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
	"unsafe"

	"github.com/stordyne/nvmectl/pkg/ioctl"
)

// AdminCmd mirrors struct nvme_admin_cmd from <linux/nvme_ioctl.h>. The six
// command-specific doublewords cdw10-cdw15 have opcode-dependent meaning;
// Result is populated by the kernel after submission.
type AdminCmd struct {
	Opcode      uint8
	Flags       uint8
	Rsvd1       uint16
	Nsid        uint32
	Cdw2        uint32
	Cdw3        uint32
	Metadata    uint64
	Addr        uint64
	MetadataLen uint32
	DataLen     uint32
	Cdw10       uint32
	Cdw11       uint32
	Cdw12       uint32
	Cdw13       uint32
	Cdw14       uint32
	Cdw15       uint32
	TimeoutMS   uint32
	Result      uint32
}

// PassthruCmd is the fully caller-specified descriptor shape. It is
// identical to AdminCmd on the wire.
type PassthruCmd = AdminCmd

// UserIO mirrors struct nvme_user_io, the narrower descriptor used by the
// submit-io ioctl for read, write, and compare. Nblocks is a zero-based
// count.
type UserIO struct {
	Opcode   uint8
	Flags    uint8
	Control  uint16
	Nblocks  uint16
	Rsvd     uint16
	Metadata uint64
	Addr     uint64
	Slba     uint64
	Dsmgmt   uint32
	Reftag   uint32
	Apptag   uint16
	Appmask  uint16
}

const nvmeIocMagic = uintptr('N')

// Defined in <linux/nvme_ioctl.h>.
var (
	iocID       = ioctl.Io(nvmeIocMagic, 0x40)
	iocAdminCmd = ioctl.Iowr(nvmeIocMagic, 0x41, unsafe.Sizeof(AdminCmd{}))
	iocSubmitIO = ioctl.Iow(nvmeIocMagic, 0x42, unsafe.Sizeof(UserIO{}))
	iocIOCmd    = ioctl.Iowr(nvmeIocMagic, 0x43, unsafe.Sizeof(PassthruCmd{}))
)
