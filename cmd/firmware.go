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
)

func newFwDownloadCmd() *cobra.Command {
	var (
		fw     string
		xfer   int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "fw-download <device>",
		Short: "Download new firmware",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(fw)
			if err != nil {
				return fmt.Errorf("fw file: %w", err)
			}
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			status, err := d.FirmwareDownload(image, xfer, offset)
			if err := reportStatus("firmware download", status, err); err != nil {
				return err
			}
			fmt.Println("Firmware download success")
			return nil
		},
	}
	cmd.Flags().StringVarP(&fw, "fw", "f", "", "firmware file (required)")
	cmd.Flags().IntVarP(&xfer, "xfer", "x", 0, "transfer chunksize limit")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "starting dword offset, default 0")
	cmd.MarkFlagRequired("fw")
	cmd.MarkFlagFilename("fw")
	return cmd
}

func newFwActivateCmd() *cobra.Command {
	var (
		slot   uint8
		action uint8
	)
	cmd := &cobra.Command{
		Use:   "fw-activate <device>",
		Short: "Verify and activate a firmware image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			status, err := d.FirmwareActivate(slot, action)
			if err := reportStatus("firmware activate", status, err); err != nil {
				return err
			}
			fmt.Printf("Success activating firmware action:%d slot:%d\n", action, slot)
			return nil
		},
	}
	cmd.Flags().Uint8VarP(&slot, "slot", "s", 0, "firmware slot to activate")
	cmd.Flags().Uint8VarP(&action, "action", "a", 0, "[0-3]: replacement action")
	return cmd
}
