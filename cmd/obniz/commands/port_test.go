// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPort(t *testing.T) {
	port, err := CheckPort(" /dev/ttyUSB0 ")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", port)

	_, err = CheckPort("")
	assert.Error(t, err)
}

func TestConfiguredPort(t *testing.T) {
	t.Setenv(directory.UserConfigPathEnv, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(directory.PortEnv, "")
	assert.Empty(t, ConfiguredPort())

	cfg, err := directory.GetUserConfig()
	require.NoError(t, err)
	cfg.Set(portCfgKey, "/dev/ttyUSB3")
	require.NoError(t, directory.WriteConfig(cfg))
	assert.Equal(t, "/dev/ttyUSB3", ConfiguredPort())
	assert.Equal(t, "user config", configuredPortSource())

	t.Setenv(directory.PortEnv, "/dev/ttyACM0")
	assert.Equal(t, "/dev/ttyACM0", ConfiguredPort())
	assert.Equal(t, "$"+directory.PortEnv, configuredPortSource())
}

func TestSetPortCmd(t *testing.T) {
	t.Setenv(directory.UserConfigPathEnv, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(directory.PortEnv, "")

	var out bytes.Buffer
	cmd := SetPortCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"/dev/ttyUSB1"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Using serial port '/dev/ttyUSB1'.\n", out.String())
	assert.Equal(t, "/dev/ttyUSB1", ConfiguredPort())
}

func TestPortInfoShort(t *testing.T) {
	assert.Equal(t, "/dev/ttyUSB0 (user config)", PortInfo{Name: "/dev/ttyUSB0", Source: "user config"}.Short())
	assert.Equal(t, "No serial port configured.", PortInfo{}.Short())
}
