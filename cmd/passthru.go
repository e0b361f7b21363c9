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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stordyne/nvmectl/pkg/nvme"
)

// passthruOpts collects every caller-specified descriptor field plus the
// submission modifiers.
type passthruOpts struct {
	opcode      uint8
	flags       uint8
	rsvd        uint16
	nsid        uint32
	cdw2        uint32
	cdw3        uint32
	cdw10       uint32
	cdw11       uint32
	cdw12       uint32
	cdw13       uint32
	cdw14       uint32
	cdw15       uint32
	dataLen     uint32
	metadataLen uint32
	timeoutMS   uint32
	inputFile   string
	read        bool
	write       bool
	raw         bool
	show        bool
	dryRun      bool
}

func (o *passthruOpts) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint8VarP(&o.opcode, "opcode", "o", 0, "opcode (required)")
	f.Uint8VarP(&o.flags, "flags", "f", 0, "command flags")
	f.Uint16VarP(&o.rsvd, "rsvd", "R", 0, "value for reserved field")
	f.Uint32VarP(&o.nsid, "namespace-id", "n", 0, "desired namespace")
	f.Uint32Var(&o.cdw2, "cdw2", 0, "command dword 2 value")
	f.Uint32Var(&o.cdw3, "cdw3", 0, "command dword 3 value")
	f.Uint32Var(&o.cdw10, "cdw10", 0, "command dword 10 value")
	f.Uint32Var(&o.cdw11, "cdw11", 0, "command dword 11 value")
	f.Uint32Var(&o.cdw12, "cdw12", 0, "command dword 12 value")
	f.Uint32Var(&o.cdw13, "cdw13", 0, "command dword 13 value")
	f.Uint32Var(&o.cdw14, "cdw14", 0, "command dword 14 value")
	f.Uint32Var(&o.cdw15, "cdw15", 0, "command dword 15 value")
	f.Uint32VarP(&o.dataLen, "data-len", "l", 0, "data I/O length (bytes)")
	f.Uint32VarP(&o.metadataLen, "metadata-len", "m", 0, "metadata seg length (bytes)")
	f.Uint32VarP(&o.timeoutMS, "timeout", "t", 0, "timeout value, in milliseconds")
	f.StringVarP(&o.inputFile, "input-file", "i", "", "write/send file, defaults to stdin")
	f.BoolVarP(&o.read, "read", "r", false, "set dataflow direction to receive")
	f.BoolVarP(&o.write, "write", "w", false, "set dataflow direction to send")
	f.BoolVarP(&o.raw, "raw-binary", "b", false, "dump output in binary format")
	f.BoolVarP(&o.show, "show-command", "s", false, "print command before sending")
	f.BoolVarP(&o.dryRun, "dry-run", "d", false, "show command instead of sending")
	cmd.MarkFlagRequired("opcode")
	cmd.MarkFlagFilename("input-file")
}

func (o *passthruOpts) descriptor() *nvme.PassthruCmd {
	timeout := o.timeoutMS
	if timeout == 0 {
		timeout = defaultTimeoutMS()
	}
	return &nvme.PassthruCmd{
		Opcode:      o.opcode,
		Flags:       o.flags,
		Rsvd1:       o.rsvd,
		Nsid:        o.nsid,
		Cdw2:        o.cdw2,
		Cdw3:        o.cdw3,
		DataLen:     o.dataLen,
		MetadataLen: o.metadataLen,
		Cdw10:       o.cdw10,
		Cdw11:       o.cdw11,
		Cdw12:       o.cdw12,
		Cdw13:       o.cdw13,
		Cdw14:       o.cdw14,
		Cdw15:       o.cdw15,
		TimeoutMS:   timeout,
	}
}

func showPassthru(cmd *nvme.PassthruCmd) {
	fmt.Printf("opcode       : %02x\n", cmd.Opcode)
	fmt.Printf("flags        : %02x\n", cmd.Flags)
	fmt.Printf("rsvd1        : %04x\n", cmd.Rsvd1)
	fmt.Printf("nsid         : %08x\n", cmd.Nsid)
	fmt.Printf("cdw2         : %08x\n", cmd.Cdw2)
	fmt.Printf("cdw3         : %08x\n", cmd.Cdw3)
	fmt.Printf("data_len     : %08x\n", cmd.DataLen)
	fmt.Printf("metadata_len : %08x\n", cmd.MetadataLen)
	fmt.Printf("cdw10        : %08x\n", cmd.Cdw10)
	fmt.Printf("cdw11        : %08x\n", cmd.Cdw11)
	fmt.Printf("cdw12        : %08x\n", cmd.Cdw12)
	fmt.Printf("cdw13        : %08x\n", cmd.Cdw13)
	fmt.Printf("cdw14        : %08x\n", cmd.Cdw14)
	fmt.Printf("cdw15        : %08x\n", cmd.Cdw15)
	fmt.Printf("timeout_ms   : %08x\n", cmd.TimeoutMS)
}

func (o *passthruOpts) run(args []string, admin bool) error {
	var input []byte
	if o.write && o.dataLen > 0 {
		in := io.Reader(os.Stdin)
		if o.inputFile != "" {
			f, err := os.Open(o.inputFile)
			if err != nil {
				return fmt.Errorf("input file: %w", err)
			}
			defer f.Close()
			in = f
		}
		input = make([]byte, o.dataLen)
		if _, err := io.ReadFull(in, input); err != nil && err != io.ErrUnexpectedEOF {
			return fmt.Errorf("input file: %w", err)
		}
	}

	desc := o.descriptor()
	if o.show || o.dryRun {
		showPassthru(desc)
		if o.dryRun {
			return nil
		}
	}

	d, err := openDevice(args)
	if err != nil {
		return err
	}
	defer d.Close()

	data, status, err := d.Passthru(desc, admin, o.read, o.write, input)
	if err := reportStatus("passthru", status, err); err != nil {
		return err
	}
	fmt.Printf("NVMe command result:%08x\n", desc.Result)
	if len(data) > 0 {
		if o.raw {
			nvme.DumpRaw(os.Stdout, data)
		} else {
			nvme.Dump(os.Stdout, data, 16, 1)
		}
	}
	return nil
}

func newAdminPassthruCmd() *cobra.Command {
	opts := &passthruOpts{}
	cmd := &cobra.Command{
		Use:   "admin-passthru <device>",
		Short: "Submit arbitrary admin command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(args, true)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newIOPassthruCmd() *cobra.Command {
	opts := &passthruOpts{}
	cmd := &cobra.Command{
		Use:   "io-passthru <device>",
		Short: "Submit an arbitrary IO command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(args, false)
		},
	}
	opts.addFlags(cmd)
	return cmd
}
