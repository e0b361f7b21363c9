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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stordyne/nvmectl/pkg/nvme"
)

func newFormatCmd() *cobra.Command {
	var (
		nsid  uint32
		attrs nvme.FormatAttrs
	)
	cmd := &cobra.Command{
		Use:   "format <device>",
		Short: "Format namespace with new block format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			status, err := d.Format(nsid, attrs)
			if err := reportStatus("format", status, err); err != nil {
				return err
			}
			fmt.Printf("Success formatting namespace:%x\n", nsid)
			// The old partition table is stale after a reformat.
			if d.IsBlock() {
				if err := d.Rescan(); err != nil {
					logrus.Warnf("failed to re-read partition table: %s", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint8VarP(&attrs.LBAFormat, "lbaf", "l", 0, "LBA format to apply (required)")
	cmd.Flags().Uint8VarP(&attrs.SecureErase, "ses", "s", 0, "[0-2]: secure erase")
	cmd.Flags().Uint8VarP(&attrs.ProtectionInfo, "pi", "i", 0, "[0-3]: protection info off/Type 1/Type 2/Type 3")
	cmd.Flags().Uint8VarP(&attrs.PILocation, "pil", "p", 0, "[0-1]: protection info location last/first 8 bytes of metadata")
	cmd.Flags().Uint8VarP(&attrs.MetadataInline, "ms", "m", 0, "[0-1]: extended format off/on")
	return cmd
}
