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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stordyne/nvmectl/pkg/nvme"
)

func newGetFeatureCmd() *cobra.Command {
	var (
		nsid    uint32
		fid     uint8
		sel     uint8
		cdw11   uint32
		dataLen int
		raw     bool
	)
	cmd := &cobra.Command{
		Use:   "get-feature <device>",
		Short: "Get feature and show the resulting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fid == 0 {
				return fmt.Errorf("feature-id required param")
			}
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			result, buf, status, err := d.GetFeature(nsid, fid, sel, cdw11, dataLen)
			if err := reportStatus("get feature", status, err); err != nil {
				return err
			}
			fmt.Printf("get-feature:%#02x (%s), value:%#08x\n", fid, nvme.FeatureName(fid), result)
			if len(buf) == 0 {
				return nil
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			if fid == nvme.FeatureLBARange {
				return printLBARanges(buf, int(result&0x3f)+1)
			}
			nvme.Dump(os.Stdout, buf, 16, 1)
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint8VarP(&fid, "feature-id", "f", 0, "hexadecimal feature name")
	cmd.Flags().Uint8VarP(&sel, "sel", "s", nvme.SelectCurrent, "[0-3]: curr./default/saved/supp.")
	cmd.Flags().Uint32VarP(&cdw11, "cdw11", "c", 0, "dword 11 for interrupt vector config")
	cmd.Flags().IntVarP(&dataLen, "data-len", "l", 0, "buffer len if data is returned")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "show feature buffer in binary format")
	return cmd
}

func printLBARanges(buf []byte, nr int) error {
	ranges, err := nvme.ParseLBARanges(buf, nr)
	if err != nil {
		return err
	}
	for i, r := range ranges {
		fmt.Printf("\ttype       : %#x\n", r.Type)
		fmt.Printf("\tattributes : %#x\n", r.Attributes)
		fmt.Printf("\tslba       : %#x\n", r.Slba)
		fmt.Printf("\tnlb        : %#x\n", r.Nlb)
		fmt.Printf("\tguid       : %x\n", r.GUID)
		if i != len(ranges)-1 {
			fmt.Println()
		}
	}
	return nil
}

func newSetFeatureCmd() *cobra.Command {
	var (
		nsid    uint32
		fid     uint8
		value   uint32
		dataLen int
	)
	cmd := &cobra.Command{
		Use:   "set-feature <device>",
		Short: "Set a feature and show the resulting value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fid == 0 {
				return fmt.Errorf("feature-id required param")
			}
			if !cmd.Flags().Changed("value") {
				return fmt.Errorf("feature value required param")
			}
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			result, buf, status, err := d.SetFeature(nsid, fid, value, dataLen)
			if err := reportStatus("set feature", status, err); err != nil {
				return err
			}
			fmt.Printf("set-feature:%#02x (%s), value:%#08x\n", fid, nvme.FeatureName(fid), result)
			if len(buf) > 0 {
				nvme.Dump(os.Stdout, buf, 16, 1)
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "desired namespace")
	cmd.Flags().Uint8VarP(&fid, "feature-id", "f", 0, "hex feature name (required)")
	cmd.Flags().Uint32VarP(&value, "value", "v", 0, "new value of feature (required)")
	cmd.Flags().IntVarP(&dataLen, "data-len", "l", 0, "buffer length if data required")
	return cmd
}
