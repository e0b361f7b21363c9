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

	"golang.org/x/sys/unix"
)

// Device is an open handle to an NVMe character device (/dev/nvmeN,
// controller scope) or block device (/dev/nvmeNnM, namespace scope). The
// stat result is cached at open time so callers can distinguish the two
// without further syscalls.
type Device struct {
	Path string
	fd   int
	stat unix.Stat_t
}

// Open opens the device node and verifies that it is a block or character
// special file.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	d := &Device{Path: path, fd: fd}
	if err := unix.Fstat(fd, &d.stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("fstat %s: %w", path, err)
	}
	if !d.IsBlock() && !d.IsChar() {
		unix.Close(fd)
		return nil, fmt.Errorf("%s is not a block or character device", path)
	}
	return d, nil
}

func (d *Device) Close() error {
	return unix.Close(d.fd)
}

// IsBlock reports whether the handle refers to a namespace block device.
func (d *Device) IsBlock() bool {
	return d.stat.Mode&unix.S_IFMT == unix.S_IFBLK
}

// IsChar reports whether the handle refers to the controller character
// device.
func (d *Device) IsChar() bool {
	return d.stat.Mode&unix.S_IFMT == unix.S_IFCHR
}

// NamespaceID asks the kernel for the namespace id bound to an open block
// device handle.
func (d *Device) NamespaceID() (uint32, error) {
	if !d.IsBlock() {
		return 0, fmt.Errorf("%s: requesting nsid from non-block device", d.Path)
	}
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), iocID, 0)
	if errno != 0 {
		return 0, fmt.Errorf("%s: %w", d.Path, errno)
	}
	return uint32(r1), nil
}

// ResolveNamespace fills in an unset namespace id. Block devices self-report
// through NamespaceID; character devices require the caller to supply one.
func (d *Device) ResolveNamespace(nsid uint32) (uint32, error) {
	if nsid != 0 {
		return nsid, nil
	}
	if !d.IsBlock() {
		return 0, fmt.Errorf("%s: non-block device requires namespace-id param", d.Path)
	}
	return d.NamespaceID()
}

// submit issues one ioctl and returns the tri-state outcome: a non-nil
// error is an OS-level failure, a non-zero Status is a device-reported
// completion code, and (0, nil) is success. Every caller must branch on all
// three legs; a positive status is not an OS error and a zero status is
// never a failure.
func (d *Device) submit(op uintptr, arg unsafe.Pointer) (Status, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), op, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return Status(r1), nil
}

// Admin submits an admin command descriptor.
func (d *Device) Admin(cmd *AdminCmd) (Status, error) {
	return d.submit(iocAdminCmd, unsafe.Pointer(cmd))
}

// IO submits a generic I/O command descriptor.
func (d *Device) IO(cmd *PassthruCmd) (Status, error) {
	return d.submit(iocIOCmd, unsafe.Pointer(cmd))
}

// SubmitIO submits a read/write/compare descriptor.
func (d *Device) SubmitIO(io *UserIO) (Status, error) {
	return d.submit(iocSubmitIO, unsafe.Pointer(io))
}

// Rescan asks the kernel to reread the partition table, used after a
// successful format of a block device.
func (d *Device) Rescan() error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), unix.BLKRRPART, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
