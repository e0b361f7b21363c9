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

func newResvAcquireCmd() *cobra.Command {
	var (
		nsid  uint32
		crkey uint64
		prkey uint64
		rtype uint8
		racqa uint8
		iekey bool
	)
	cmd := &cobra.Command{
		Use:   "resv-acquire <device>",
		Short: "Submit a Reservation Acquire, return results",
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
			status, err := d.ResvAcquire(nsid, rtype, racqa, iekey, crkey, prkey)
			if err := reportStatus("reservation acquire", status, err); err != nil {
				return err
			}
			fmt.Println("NVME Reservation Acquire success")
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint64VarP(&crkey, "crkey", "c", 0, "current reservation key")
	cmd.Flags().Uint64VarP(&prkey, "prkey", "p", 0, "pre-empt reservation key")
	cmd.Flags().Uint8VarP(&rtype, "rtype", "t", 0, "reservation type")
	cmd.Flags().Uint8VarP(&racqa, "racqa", "a", 0, "reservation acquiry action")
	cmd.Flags().BoolVarP(&iekey, "iekey", "i", false, "ignore existing res. key")
	return cmd
}

func newResvRegisterCmd() *cobra.Command {
	var (
		nsid  uint32
		crkey uint64
		nrkey uint64
		rrega uint8
		cptpl uint8
		iekey bool
	)
	cmd := &cobra.Command{
		Use:   "resv-register <device>",
		Short: "Submit a Reservation Register, return results",
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
			status, err := d.ResvRegister(nsid, rrega, cptpl, iekey, crkey, nrkey)
			if err := reportStatus("reservation register", status, err); err != nil {
				return err
			}
			fmt.Println("NVME Reservation  success")
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint64VarP(&crkey, "crkey", "c", 0, "current reservation key")
	cmd.Flags().Uint64VarP(&nrkey, "nrkey", "k", 0, "new reservation key")
	cmd.Flags().Uint8VarP(&rrega, "rrega", "r", 0, "reservation registration action")
	cmd.Flags().Uint8VarP(&cptpl, "cptpl", "p", 0, "change persistence through power loss setting")
	cmd.Flags().BoolVarP(&iekey, "iekey", "i", false, "ignore existing res. key")
	return cmd
}

func newResvReleaseCmd() *cobra.Command {
	var (
		nsid  uint32
		crkey uint64
		rtype uint8
		rrela uint8
		iekey bool
	)
	cmd := &cobra.Command{
		Use:   "resv-release <device>",
		Short: "Submit a Reservation Release, return results",
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
			status, err := d.ResvRelease(nsid, rtype, rrela, iekey, crkey)
			if err := reportStatus("reservation release", status, err); err != nil {
				return err
			}
			fmt.Println("NVME Reservation Release success")
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint64VarP(&crkey, "crkey", "c", 0, "current reservation key")
	cmd.Flags().Uint8VarP(&rtype, "rtype", "t", 0, "reservation type")
	cmd.Flags().Uint8VarP(&rrela, "rrela", "a", 0, "reservation release action")
	cmd.Flags().BoolVarP(&iekey, "iekey", "i", false, "ignore existing res. key")
	return cmd
}

func newResvReportCmd() *cobra.Command {
	var (
		nsid uint32
		numd uint32
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "resv-report <device>",
		Short: "Submit a Reservation Report, return results",
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
			buf, status, err := d.ResvReport(nsid, numd)
			if err := reportStatus("reservation report", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			st, err := nvme.ParseResvStatus(buf)
			if err != nil {
				return err
			}
			printResvStatus(st)
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().Uint32VarP(&numd, "numd", "d", 0, "number of dwords to transfer")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "dump output in binary format")
	return cmd
}

func printResvStatus(st *nvme.ResvStatus) {
	fmt.Println("NVME Reservation status:")
	fmt.Printf("gen       : %d\n", st.Gen)
	fmt.Printf("regctl    : %d\n", st.RegistrantCount())
	fmt.Printf("rtype     : %d\n", st.Rtype)
	fmt.Printf("ptpls     : %d\n", st.Ptpls)
	for i, rc := range st.Registrants {
		fmt.Printf("regctl[%d] :\n", i)
		fmt.Printf("  cntlid  : %x\n", rc.Cntlid)
		fmt.Printf("  rcsts   : %x\n", rc.Rcsts)
		fmt.Printf("  hostid  : %x\n", rc.HostID)
		fmt.Printf("  rkey    : %x\n", rc.Rkey)
	}
}
