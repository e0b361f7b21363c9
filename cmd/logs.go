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

func newGetLogCmd() *cobra.Command {
	var (
		nsid   uint32
		logID  uint8
		logLen int
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "get-log <device>",
		Short: "Generic NVMe get log, returns log in raw format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if logLen <= 0 {
				return fmt.Errorf("non-zero log-len is required param")
			}
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			buf := make([]byte, logLen)
			status, err := d.GetLogPage(logID, nsid, buf)
			if err := reportStatus("get log page", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			fmt.Printf("Device:%s log-id:%d namespace-id:%#x\n", d.Path, logID, nsid)
			nvme.Dump(os.Stdout, buf, 16, 4)
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", nvme.NamespaceAll, "desired namespace")
	cmd.Flags().Uint8VarP(&logID, "log-id", "i", 0, "identifier of log to retrieve")
	cmd.Flags().IntVarP(&logLen, "log-len", "l", 0, "how many bytes to retrieve")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "output in raw format")
	return cmd
}

func newSmartLogCmd() *cobra.Command {
	var (
		nsid uint32
		raw  bool
	)
	cmd := &cobra.Command{
		Use:   "smart-log <device>",
		Short: "Retrieve SMART log, show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			log, buf, status, err := d.ReadSmartLog(nsid)
			if err := reportStatus("smart log", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			printSmartLog(log, nsid)
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", nvme.NamespaceAll, "desired namespace")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "output in raw format")
	return cmd
}

func printSmartLog(l *nvme.SmartLog, nsid uint32) {
	fmt.Printf("Smart Log for NVME device namespace-id:%#x\n", nsid)
	fmt.Printf("critical_warning                    : %#x\n", l.CritWarning)
	fmt.Printf("temperature                         : %d C\n", l.TemperatureCelsius())
	fmt.Printf("available_spare                     : %d%%\n", l.AvailSpare)
	fmt.Printf("available_spare_threshold           : %d%%\n", l.SpareThresh)
	fmt.Printf("percentage_used                     : %d%%\n", l.PercentUsed)
	fmt.Printf("data_units_read                     : %s\n", nvme.Le128String(l.DataUnitsRead))
	fmt.Printf("data_units_written                  : %s\n", nvme.Le128String(l.DataUnitsWritten))
	fmt.Printf("host_read_commands                  : %s\n", nvme.Le128String(l.HostReads))
	fmt.Printf("host_write_commands                 : %s\n", nvme.Le128String(l.HostWrites))
	fmt.Printf("controller_busy_time                : %s\n", nvme.Le128String(l.CtrlBusyTime))
	fmt.Printf("power_cycles                        : %s\n", nvme.Le128String(l.PowerCycles))
	fmt.Printf("power_on_hours                      : %s\n", nvme.Le128String(l.PowerOnHours))
	fmt.Printf("unsafe_shutdowns                    : %s\n", nvme.Le128String(l.UnsafeShutdowns))
	fmt.Printf("media_errors                        : %s\n", nvme.Le128String(l.MediaErrors))
	fmt.Printf("num_err_log_entries                 : %s\n", nvme.Le128String(l.NumErrLogEntries))
	fmt.Printf("Warning Temperature Time            : %d\n", l.WarningTempTime)
	fmt.Printf("Critical Composite Temperature Time : %d\n", l.CritCompTime)
	for i, t := range l.TempSensor {
		if t == 0 {
			continue
		}
		fmt.Printf("Temperature Sensor %d                : %d C\n", i+1, int(t)-273)
	}
}

func newFwLogCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "fw-log <device>",
		Short: "Retrieve FW Log, show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			log, buf, status, err := d.ReadFirmwareLog()
			if err := reportStatus("firmware log", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			fmt.Printf("Firmware Log for device:%s\n", d.Path)
			fmt.Printf("afi  : %#x\n", log.Afi)
			for i, frs := range log.Frs {
				if frs == 0 {
					continue
				}
				fmt.Printf("frs%d : %#016x (%s)\n", i+1, frs, log.SlotRevision(i))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "use binary output")
	return cmd
}

func newErrorLogCmd() *cobra.Command {
	var (
		nsid    uint32
		entries int
		raw     bool
	)
	cmd := &cobra.Command{
		Use:   "error-log <device>",
		Short: "Retrieve error log, show it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDevice(args)
			if err != nil {
				return err
			}
			defer d.Close()

			log, buf, status, err := d.ReadErrorLog(nsid, entries)
			if err := reportStatus("error log", status, err); err != nil {
				return err
			}
			if raw {
				nvme.DumpRaw(os.Stdout, buf)
				return nil
			}
			fmt.Printf("Error Log Entries for device:%s entries:%d\n", d.Path, len(log))
			fmt.Println(".................")
			for i, e := range log {
				fmt.Printf(" Entry[%2d]   \n", i)
				fmt.Println(".................")
				fmt.Printf("error_count  : %d\n", e.ErrorCount)
				fmt.Printf("sqid         : %d\n", e.SQID)
				fmt.Printf("cmdid        : %#x\n", e.CmdID)
				fmt.Printf("status_field : %#x\n", e.StatusField)
				fmt.Printf("parm_err_loc : %#x\n", e.ParmErrorLoc)
				fmt.Printf("lba          : %#x\n", e.LBA)
				fmt.Printf("nsid         : %d\n", e.Nsid)
				fmt.Printf("vs           : %d\n", e.Vs)
				fmt.Println(".................")
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&nsid, "namespace-id", "n", nvme.NamespaceAll, "desired namespace")
	cmd.Flags().IntVarP(&entries, "log-entries", "e", 64, "number of entries to retrieve")
	cmd.Flags().BoolVarP(&raw, "raw-binary", "b", false, "dump in binary format")
	return cmd
}
