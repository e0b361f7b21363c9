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

// rwOpts collects the flags shared by read, write, and compare.
type rwOpts struct {
	args     nvme.RWArgs
	dataSize uint32
	dataFile string
	show     bool
	dryRun   bool
}

func (o *rwOpts) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint64VarP(&o.args.Slba, "start-block", "s", 0, "64-bit addr of first block to access")
	f.Uint16VarP(&o.args.Nblocks, "block-count", "c", 0, "number of blocks on device to access (zeroes based)")
	f.Uint32VarP(&o.dataSize, "data-size", "z", 0, "size of data in bytes (required)")
	f.StringVarP(&o.dataFile, "data", "d", "", "data file")
	f.Uint8VarP(&o.args.PrInfo, "prinfo", "p", 0, "PI and check field")
	f.Uint32VarP(&o.args.Reftag, "ref-tag", "r", 0, "reference tag (for end to end PI)")
	f.Uint16VarP(&o.args.Apptag, "app-tag", "a", 0, "app tag (for end to end PI)")
	f.Uint16VarP(&o.args.Appmask, "app-tag-mask", "m", 0, "app tag mask (for end to end PI)")
	f.BoolVarP(&o.args.LimitedRetry, "limited-retry", "l", false, "limit num. media access attempts")
	f.BoolVarP(&o.args.ForceUnitAccess, "force-unit-access", "f", false, "force device to commit data before command completes")
	f.BoolVarP(&o.show, "show-command", "v", false, "show command before sending")
	f.BoolVarP(&o.dryRun, "dry-run", "w", false, "show command instead of sending")
	cmd.MarkFlagFilename("data")
}

func (o *rwOpts) showCommand(opcode uint8) {
	control, _ := o.args.Control()
	fmt.Printf("opcode       : %02x\n", opcode)
	fmt.Printf("nblocks      : %04x\n", o.args.Nblocks)
	fmt.Printf("control      : %04x\n", control)
	fmt.Printf("slba         : %016x\n", o.args.Slba)
	fmt.Printf("data_size    : %08x\n", o.dataSize)
	fmt.Printf("reftag       : %08x\n", o.args.Reftag)
	fmt.Printf("apptag       : %04x\n", o.args.Apptag)
	fmt.Printf("appmask      : %04x\n", o.args.Appmask)
}

// run drives one read, write, or compare submission. Writes and compares
// consume the data file (stdin when unset); reads deliver to the data file
// (stdout when unset).
func (o *rwOpts) run(name string, opcode uint8, args []string) error {
	if o.dataSize == 0 {
		return fmt.Errorf("data size not provided")
	}
	data := make([]byte, o.dataSize)

	outbound := opcode == nvme.CmdWrite || opcode == nvme.CmdCompare
	if outbound {
		in := io.Reader(os.Stdin)
		if o.dataFile != "" {
			f, err := os.Open(o.dataFile)
			if err != nil {
				return fmt.Errorf("data file: %w", err)
			}
			defer f.Close()
			in = f
		}
		if _, err := io.ReadFull(in, data); err != nil && err != io.ErrUnexpectedEOF {
			return fmt.Errorf("data file: %w", err)
		}
	}

	if o.show || o.dryRun {
		o.showCommand(opcode)
		if o.dryRun {
			return nil
		}
	}

	d, err := openDevice(args)
	if err != nil {
		return err
	}
	defer d.Close()

	status, err := d.SubmitRW(opcode, o.args, data)
	if err := reportStatus(name, status, err); err != nil {
		return err
	}
	if !outbound {
		out := io.Writer(os.Stdout)
		if o.dataFile != "" {
			f, err := os.Create(o.dataFile)
			if err != nil {
				return fmt.Errorf("data file: %w", err)
			}
			defer f.Close()
			out = f
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "%s: Success\n", name)
	return nil
}

func newReadCmd() *cobra.Command {
	opts := &rwOpts{}
	cmd := &cobra.Command{
		Use:   "read <device>",
		Short: "Submit a read command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run("read", nvme.CmdRead, args)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newWriteCmd() *cobra.Command {
	opts := &rwOpts{}
	cmd := &cobra.Command{
		Use:   "write <device>",
		Short: "Submit a write command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run("write", nvme.CmdWrite, args)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newCompareCmd() *cobra.Command {
	opts := &rwOpts{}
	cmd := &cobra.Command{
		Use:   "compare <device>",
		Short: "Submit a Compare command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run("compare", nvme.CmdCompare, args)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newFlushCmd() *cobra.Command {
	var nsid uint32
	cmd := &cobra.Command{
		Use:   "flush <device>",
		Short: "Submit a flush command, return results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			nsid, err := d.ResolveNamespace(nsid)
			if err != nil {
				return err
			}
			status, err := d.Flush(nsid)
			if err := reportStatus("flush", status, err); err != nil {
				return err
			}
			fmt.Println("NVMe Flush: success")
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	return cmd
}
