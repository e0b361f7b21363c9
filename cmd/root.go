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
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stordyne/nvmectl/pkg/logging"
	"github.com/stordyne/nvmectl/pkg/nvme"
)

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig reads the optional config file and environment overrides, then
// wires up logging from the result.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigType("yaml")
		viper.SetConfigName("nvmectl")
		viper.AddConfigPath("/etc/nvmectl/")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("nvmectl")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("timeoutMs", 0)

	if err := viper.ReadInConfig(); err == nil {
		logrus.Debugf("using config file %s", viper.ConfigFileUsed())
	}

	cfg := logging.Config{Level: viper.GetString("logging.level")}
	if err := viper.UnmarshalKey("logging", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "bad logging config:", err)
	}
	if err := cfg.IsValid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cfg.Level = "info"
	}
	if err := logging.Setup(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logging setup:", err)
	}
}

// defaultTimeoutMS is the configured descriptor timeout, applied when a
// command does not set one explicitly.
func defaultTimeoutMS() uint32 {
	return viper.GetUint32("timeoutMs")
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nvmectl <command> [<device>] [<args>]",
		Short: "NVM-Express command line utility",
		Long: "The '<device>' may be either an NVMe character device (ex: /dev/nvme0)\n" +
			"or an nvme block device (ex: /dev/nvme0n1).",
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			checkCaps()
		},
	}
	cmd.AddCommand(
		newListCmd(),
		newIDCtrlCmd(),
		newIDNsCmd(),
		newListNsCmd(),
		newGetNsIDCmd(),
		newGetLogCmd(),
		newSmartLogCmd(),
		newFwLogCmd(),
		newErrorLogCmd(),
		newGetFeatureCmd(),
		newSetFeatureCmd(),
		newFormatCmd(),
		newFwDownloadCmd(),
		newFwActivateCmd(),
		newAdminPassthruCmd(),
		newIOPassthruCmd(),
		newSecuritySendCmd(),
		newSecurityRecvCmd(),
		newResvAcquireCmd(),
		newResvRegisterCmd(),
		newResvReleaseCmd(),
		newResvReportCmd(),
		newFlushCmd(),
		newCompareCmd(),
		newReadCmd(),
		newWriteCmd(),
		newShowRegsCmd(),
	)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/nvmectl/nvmectl.yaml)")
	cmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	return cmd
}

// Execute runs the command tree. All error paths funnel through here so the
// process exits non-zero exactly once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openDevice opens the positional device argument.
func openDevice(args []string) (*nvme.Device, error) {
	return nvme.Open(args[0])
}

// reportStatus folds the tri-state submission outcome into cobra's error
// path: OS errors and device-reported status codes both fail the command,
// rendered distinctly; success is nil.
func reportStatus(op string, status nvme.Status, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if status != 0 {
		return fmt.Errorf("%s: NVMe status: %s(%#04x)", op, status, uint32(status))
	}
	return nil
}
