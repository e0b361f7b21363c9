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
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stordyne/nvmectl/pkg/nvme"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all NVMe devices and namespaces on machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			devs, err := enumerateNamespaces()
			if err != nil {
				return err
			}
			if len(devs) == 0 {
				fmt.Println("no NVMe devices detected")
				return nil
			}
			fmt.Printf("%-16s %-20s %-40s %-9s %-26s %-16s %-8s\n",
				"Node", "SN", "Model", "Namespace", "Usage", "Format", "FW Rev")
			fmt.Printf("%-16s %-20s %-40s %-9s %-26s %-16s %-8s\n",
				"----------------", "--------------------", "----------------------------------------",
				"---------", "--------------------------", "----------------", "--------")
			for _, path := range devs {
				if err := listOne(path); err != nil {
					logrus.Warnf("%s: %s", path, err)
				}
			}
			return nil
		},
	}
}

// enumerateNamespaces walks the kernel's view of attached controllers and
// returns the namespace block device nodes.
func enumerateNamespaces() ([]string, error) {
	ctrls, err := filepath.Glob("/sys/class/nvme/nvme*")
	if err != nil {
		return nil, err
	}
	var devs []string
	for _, ctrl := range ctrls {
		namespaces, err := filepath.Glob(filepath.Join(ctrl, filepath.Base(ctrl)+"n*"))
		if err != nil {
			continue
		}
		for _, ns := range namespaces {
			devs = append(devs, filepath.Join("/dev", filepath.Base(ns)))
		}
	}
	sort.Strings(devs)
	return devs, nil
}

func listOne(path string) error {
	d, err := nvme.Open(path)
	if err != nil {
		return err
	}
	defer d.Close()

	ctrlBuf, status, err := d.IdentifyController()
	if err := reportStatus("identify controller", status, err); err != nil {
		return err
	}
	ctrl, err := nvme.ParseIdCtrl(ctrlBuf)
	if err != nil {
		return err
	}

	nsid, err := d.NamespaceID()
	if err != nil {
		return err
	}
	nsBuf, status, err := d.IdentifyNamespace(nsid)
	if err := reportStatus("identify namespace", status, err); err != nil {
		return err
	}
	ns, err := nvme.ParseIdNs(nsBuf)
	if err != nil {
		return err
	}

	f := ns.LBAFormats()[ns.FormatInUse()]
	blockSize := uint64(1) << f.Ds
	usage := fmt.Sprintf("%s / %s",
		nvme.FormatBytes(ns.Nuse*blockSize), nvme.FormatBytes(ns.Nsze*blockSize))
	format := fmt.Sprintf("%d B + %d B", blockSize, f.Ms)

	fmt.Printf("%-16s %-20s %-40s %-9d %-26s %-16s %-8s\n",
		path, ctrl.Serial(), ctrl.Model(), nsid, usage, format, ctrl.FirmwareRev())
	return nil
}
