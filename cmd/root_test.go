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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stordyne/nvmectl/pkg/nvme"
)

func TestRootSubcommands(t *testing.T) {
	root := NewRootCmd()

	expected := []string{
		"list", "id-ctrl", "id-ns", "list-ns", "get-ns-id",
		"get-log", "smart-log", "fw-log", "error-log",
		"get-feature", "set-feature", "format",
		"fw-download", "fw-activate",
		"admin-passthru", "io-passthru",
		"security-send", "security-recv",
		"resv-acquire", "resv-register", "resv-release", "resv-report",
		"flush", "compare", "read", "write", "show-regs",
	}

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range expected {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestDeviceCommandsRequireArg(t *testing.T) {
	root := NewRootCmd()
	for _, c := range root.Commands() {
		if c.Name() == "list" {
			continue
		}
		require.NotNil(t, c.Args)
		assert.Error(t, c.Args(c, []string{}), "%s should require a device arg", c.Name())
	}
}

func TestSetFeatureRequiresValue(t *testing.T) {
	// Both checks fire before any device access, so no node is opened.
	root := NewRootCmd()
	root.SetArgs([]string{"set-feature", "/dev/nvme0", "--feature-id", "1"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature value required")

	root = NewRootCmd()
	root.SetArgs([]string{"set-feature", "/dev/nvme0", "--value", "1"})
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature-id required")
}

func TestReportStatus(t *testing.T) {
	assert.NoError(t, reportStatus("op", 0, nil))

	err := reportStatus("op", 0, errors.New("no such device"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such device")

	err = reportStatus("op", nvme.SCCompareFailed, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMPARE_FAILED")
}
