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

// Feature identifiers.
const (
	FeatureArbitration uint8 = 0x01
	FeaturePowerMgmt   uint8 = 0x02
	FeatureLBARange    uint8 = 0x03
	FeatureTempThresh  uint8 = 0x04
	FeatureErrRecovery uint8 = 0x05
	FeatureVolatileWC  uint8 = 0x06
	FeatureNumQueues   uint8 = 0x07
	FeatureIRQCoalesce uint8 = 0x08
	FeatureIRQConfig   uint8 = 0x09
	FeatureWriteAtomic uint8 = 0x0a
	FeatureAsyncEvent  uint8 = 0x0b
	FeatureSWProgress  uint8 = 0x0c
)

var featureNames = map[uint8]string{
	FeatureArbitration: "Arbitration",
	FeaturePowerMgmt:   "Power Management",
	FeatureLBARange:    "LBA Range",
	FeatureTempThresh:  "Temperature Threshold",
	FeatureErrRecovery: "Error Recovery",
	FeatureVolatileWC:  "Volatile Write Cache",
	FeatureNumQueues:   "Number of Queues",
	FeatureIRQCoalesce: "IRQ Coalescing",
	FeatureIRQConfig:   "IRQ Configuration",
	FeatureWriteAtomic: "Write Atomicity",
	FeatureAsyncEvent:  "Async Event",
	FeatureSWProgress:  "Software Progress",
}

// FeatureName returns the spec name of a feature id, "Unknown" for ids
// outside the table.
func FeatureName(fid uint8) string {
	if name, ok := featureNames[fid]; ok {
		return name
	}
	return "Unknown"
}

// LBARangeType is one 64-byte entry of the LBA Range Type feature data.
type LBARangeType struct {
	Type       uint8
	Attributes uint8
	Rsvd2      [14]byte
	Slba       uint64
	Nlb        uint64
	GUID       [16]byte
	Rsvd48     [16]byte
} // 64 bytes

// LBARangeSize is the wire size of one entry.
const LBARangeSize = 64

// ParseLBARanges decodes nr LBA range entries, clamped to what the buffer
// holds.
func ParseLBARanges(buf []byte, nr int) ([]LBARangeType, error) {
	if max := len(buf) / LBARangeSize; nr > max {
		nr = max
	}
	if nr < 0 {
		return nil, fmt.Errorf("lba range: invalid entry count")
	}
	r := bytes.NewReader(buf)
	ranges := make([]LBARangeType, 0, nr)
	for i := 0; i < nr; i++ {
		var lr LBARangeType
		if err := binary.Read(r, binary.LittleEndian, &lr); err != nil {
			return nil, fmt.Errorf("lba range: entry %d: %w", i, err)
		}
		ranges = append(ranges, lr)
	}
	return ranges, nil
}
