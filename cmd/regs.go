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

	"github.com/spf13/cobra"
)

func newShowRegsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-regs <device>",
		Short: "Shows the controller registers. Requires admin character device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			bar, err := d.ReadRegisters()
			if err != nil {
				return err
			}
			fmt.Printf("cap     : %016x\n", bar.Cap)
			fmt.Printf("version : %08x\n", bar.Vs)
			fmt.Printf("intms   : %08x\n", bar.Intms)
			fmt.Printf("intmc   : %08x\n", bar.Intmc)
			fmt.Printf("cc      : %08x\n", bar.Cc)
			fmt.Printf("csts    : %08x\n", bar.Csts)
			fmt.Printf("nssr    : %08x\n", bar.Nssr)
			fmt.Printf("aqa     : %08x\n", bar.Aqa)
			fmt.Printf("asq     : %016x\n", bar.Asq)
			fmt.Printf("acq     : %016x\n", bar.Acq)
			fmt.Printf("cmbloc  : %08x\n", bar.Cmbloc)
			fmt.Printf("cmbsz   : %08x\n", bar.Cmbsz)
			return nil
		},
	}
}
