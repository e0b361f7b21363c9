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

func newSecuritySendCmd() *cobra.Command {
	var (
		file string
		secp uint8
		spsp uint16
		tl   uint32
	)
	cmd := &cobra.Command{
		Use:   "security-send <device>",
		Short: "Submit a Security Send command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("security file: %w", err)
			}
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			result, status, err := d.SecuritySend(secp, spsp, tl, payload)
			if err := reportStatus("security send", status, err); err != nil {
				return err
			}
			fmt.Printf("NVME Security Send Command Success:%d\n", result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "transfer payload")
	cmd.Flags().Uint8VarP(&secp, "secp", "p", 0, "security protocol (cf. SPC-4)")
	cmd.Flags().Uint16VarP(&spsp, "spsp", "s", 0, "security-protocol-specific (cf. SPC-4)")
	cmd.Flags().Uint32VarP(&tl, "tl", "t", 0, "transfer length (cf. SPC-4)")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagFilename("file")
	return cmd
}

func newSecurityRecvCmd() *cobra.Command {
	var (
		size uint32
		secp uint8
		spsp uint16
		al   uint32
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "security-recv <device>",
		Short: "Submit a Security Receive command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			buf, result, status, err := d.SecurityReceive(secp, spsp, al, int(size))
			if err := reportStatus("security receive", status, err); err != nil {
				return err
			}
			fmt.Printf("NVME Security Receive Command Success:%d\n", result)
			if len(buf) > 0 {
				if raw {
					nvme.DumpRaw(os.Stdout, buf)
				} else {
					nvme.Dump(os.Stdout, buf, 16, 1)
				}
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&size, "size", "x", 0, "size of buffer (prints to stdout on success)")
	cmd.Flags().Uint8VarP(&secp, "secp", "p", 0, "security protocol (cf. SPC-4)")
	cmd.Flags().Uint16VarP(&spsp, "spsp", "s", 0, "security-protocol-specific (cf. SPC-4)")
	cmd.Flags().Uint32VarP(&al, "al", "t", 0, "allocation length (cf. SPC-4)")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "dump output in binary format")
	return cmd
}
