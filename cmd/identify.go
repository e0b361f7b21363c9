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

func newIDCtrlCmd() *cobra.Command {
	var (
		raw    bool
		vendor bool
	)
	cmd := &cobra.Command{
		Use:   "id-ctrl <device>",
		Short: "Send NVMe Identify Controller, display structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			buf, status, err := d.IdentifyController()
			if err := reportStatus("identify controller", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			ctrl, err := nvme.ParseIdCtrl(buf)
			if err != nil {
				return err
			}
			printIDCtrl(ctrl, vendor)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "show structure in binary format")
	cmd.Flags().BoolVarP(&vendor, "vendor-specific", "v", false, "dump the vendor specific field")
	return cmd
}

func printIDCtrl(c *nvme.IdCtrl, vendor bool) {
	fmt.Println("NVME Identify Controller:")
	fmt.Printf("vid     : %#x\n", c.VendorID)
	fmt.Printf("ssvid   : %#x\n", c.Ssvid)
	fmt.Printf("sn      : %s\n", c.Serial())
	fmt.Printf("mn      : %s\n", c.Model())
	fmt.Printf("fr      : %s\n", c.FirmwareRev())
	fmt.Printf("rab     : %d\n", c.Rab)
	fmt.Printf("ieee    : %06x\n", c.OUI())
	fmt.Printf("cmic    : %#x\n", c.Cmic)
	fmt.Printf("mdts    : %d\n", c.Mdts)
	fmt.Printf("cntlid  : %#x\n", c.Cntlid)
	fmt.Printf("ver     : %#x\n", c.Ver)
	fmt.Printf("rtd3r   : %#x\n", c.Rtd3r)
	fmt.Printf("rtd3e   : %#x\n", c.Rtd3e)
	fmt.Printf("oaes    : %#x\n", c.Oaes)
	fmt.Printf("oacs    : %#x\n", c.Oacs)
	fmt.Printf("acl     : %d\n", c.Acl)
	fmt.Printf("aerl    : %d\n", c.Aerl)
	fmt.Printf("frmw    : %#x\n", c.Frmw)
	fmt.Printf("lpa     : %#x\n", c.Lpa)
	fmt.Printf("elpe    : %d\n", c.Elpe)
	fmt.Printf("npss    : %d\n", c.Npss)
	fmt.Printf("avscc   : %#x\n", c.Avscc)
	fmt.Printf("apsta   : %#x\n", c.Apsta)
	fmt.Printf("wctemp  : %d\n", c.Wctemp)
	fmt.Printf("cctemp  : %d\n", c.Cctemp)
	fmt.Printf("mtfa    : %d\n", c.Mtfa)
	fmt.Printf("hmpre   : %d\n", c.Hmpre)
	fmt.Printf("hmmin   : %d\n", c.Hmmin)
	fmt.Printf("tnvmcap : %s\n", nvme.Le128String(c.Tnvmcap))
	fmt.Printf("unvmcap : %s\n", nvme.Le128String(c.Unvmcap))
	fmt.Printf("rpmbs   : %#x\n", c.Rpmbs)
	fmt.Printf("sqes    : %#x\n", c.Sqes)
	fmt.Printf("cqes    : %#x\n", c.Cqes)
	fmt.Printf("nn      : %d\n", c.Nn)
	fmt.Printf("oncs    : %#x\n", c.Oncs)
	fmt.Printf("fuses   : %#x\n", c.Fuses)
	fmt.Printf("fna     : %#x\n", c.Fna)
	fmt.Printf("vwc     : %#x\n", c.Vwc)
	fmt.Printf("awun    : %d\n", c.Awun)
	fmt.Printf("awupf   : %d\n", c.Awupf)
	fmt.Printf("nvscc   : %d\n", c.Nvscc)
	fmt.Printf("acwu    : %d\n", c.Acwu)
	fmt.Printf("sgls    : %#x\n", c.Sgls)

	for i, ps := range c.PowerStates() {
		fmt.Printf("ps %4d : mp:%d flags:%x enlat:%d exlat:%d rrt:%d rrl:%d\n",
			i, ps.MaxPower, ps.Flags, ps.EntryLat, ps.ExitLat, ps.ReadTput, ps.ReadLat)
		fmt.Printf("          rwt:%d rwl:%d idlp:%d ips:%x actp:%d aps:%x\n",
			ps.WriteTput, ps.WriteLat, ps.IdlePower, ps.IdleScale, ps.ActivePower, ps.ActiveWorkScale)
	}
	if vendor {
		fmt.Println("vs[]:")
		nvme.Dump(os.Stdout, c.Vs[:], 16, 1)
	}
}

func newIDNsCmd() *cobra.Command {
	var (
		nsid   uint32
		raw    bool
		vendor bool
	)
	cmd := &cobra.Command{
		Use:   "id-ns <device>",
		Short: "Send NVMe Identify Namespace, display structure",
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
			buf, status, err := d.IdentifyNamespace(nsid)
			if err := reportStatus("identify namespace", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			ns, err := nvme.ParseIdNs(buf)
			if err != nil {
				return err
			}
			printIDNs(ns, nsid, vendor)
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "identifier of desired namespace")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "show structure in binary format")
	cmd.Flags().BoolVarP(&vendor, "vendor-specific", "v", false, "dump the vendor specific field")
	return cmd
}

func printIDNs(ns *nvme.IdNs, nsid uint32, vendor bool) {
	fmt.Printf("NVME Identify Namespace %d:\n", nsid)
	fmt.Printf("nsze    : %#x\n", ns.Nsze)
	fmt.Printf("ncap    : %#x\n", ns.Ncap)
	fmt.Printf("nuse    : %#x\n", ns.Nuse)
	fmt.Printf("nsfeat  : %#x\n", ns.Nsfeat)
	fmt.Printf("nlbaf   : %d\n", ns.Nlbaf)
	fmt.Printf("flbas   : %#x\n", ns.Flbas)
	fmt.Printf("mc      : %#x\n", ns.Mc)
	fmt.Printf("dpc     : %#x\n", ns.Dpc)
	fmt.Printf("dps     : %#x\n", ns.Dps)
	fmt.Printf("nmic    : %#x\n", ns.Nmic)
	fmt.Printf("rescap  : %#x\n", ns.Rescap)
	fmt.Printf("fpi     : %#x\n", ns.Fpi)
	fmt.Printf("nawun   : %d\n", ns.Nawun)
	fmt.Printf("nawupf  : %d\n", ns.Nawupf)
	fmt.Printf("nacwu   : %d\n", ns.Nacwu)
	fmt.Printf("nabsn   : %d\n", ns.Nabsn)
	fmt.Printf("nabo    : %d\n", ns.Nabo)
	fmt.Printf("nabspf  : %d\n", ns.Nabspf)
	fmt.Printf("nvmcap  : %s\n", nvme.Le128String(ns.Nvmcap))
	fmt.Printf("nguid   : %x\n", ns.Nguid)
	fmt.Printf("eui64   : %x\n", ns.EUI64)

	inUse := ns.FormatInUse()
	for i, f := range ns.LBAFormats() {
		use := ""
		if i == inUse {
			use = " (in use)"
		}
		fmt.Printf("lbaf %2d : ms:%-3d ds:%-2d rp:%#x%s\n", i, f.Ms, f.Ds, f.Rp, use)
	}
	if vendor {
		fmt.Println("vs[]:")
		nvme.Dump(os.Stdout, ns.Vs[:], 16, 1)
	}
}

func newListNsCmd() *cobra.Command {
	var nsid uint32
	cmd := &cobra.Command{
		Use:   "list-ns <device>",
		Short: "Send NVMe Identify List, display structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			buf, status, err := d.IdentifyNamespaceList(nsid)
			if err := reportStatus("identify namespace list", status, err); err != nil {
				return err
			}
			list, err := nvme.ParseNamespaceList(buf)
			if err != nil {
				return err
			}
			for i, id := range list {
				if id == 0 {
					continue
				}
				fmt.Printf("[%4d]:%#x\n", i, id)
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", 0, "list namespaces with ids greater than this")
	return cmd
}

func newGetNsIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-ns-id <device>",
		Short: "Retrieve the namespace ID of an opened block device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			nsid, err := d.NamespaceID()
			if err != nil {
				return err
			}
			fmt.Printf("%s: namespace-id:%d\n", d.Path, nsid)
			return nil
		},
	}
}
