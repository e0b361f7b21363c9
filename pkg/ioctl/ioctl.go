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

// Package ioctl encodes Linux ioctl request numbers the way the
// <asm-generic/ioctl.h> _IO* macros do.
package ioctl

// Request layout: 8 number bits, 8 type bits, 14 size bits, 2 direction bits.
const (
	nrBits   = 8
	typeBits = 8
	sizeBits = 14

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	dirNone  = 0
	dirWrite = 1
	dirRead  = 2
)

func ioc(dir, t, nr, size uintptr) uintptr {
	return dir<<dirShift | t<<typeShift | nr<<nrShift | size<<sizeShift
}

// Io encodes a request that carries no payload.
func Io(t, nr uintptr) uintptr {
	return ioc(dirNone, t, nr, 0)
}

// Ior encodes a request that reads size bytes back from the driver.
func Ior(t, nr, size uintptr) uintptr {
	return ioc(dirRead, t, nr, size)
}

// Iow encodes a request that writes size bytes to the driver.
func Iow(t, nr, size uintptr) uintptr {
	return ioc(dirWrite, t, nr, size)
}

// Iowr encodes a request that both writes the payload to the driver and
// reads it back.
func Iowr(t, nr, size uintptr) uintptr {
	return ioc(dirRead|dirWrite, t, nr, size)
}
