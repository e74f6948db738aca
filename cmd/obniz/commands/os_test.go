// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package commands

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/obniz/obniz-cli-go/cmd/obniz/console"
	"github.com/obniz/obniz-cli-go/cmd/obniz/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOSConfig(t *testing.T, args ...string) error {
	t.Setenv(directory.UserConfigPathEnv, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(directory.PortEnv, "")
	t.Setenv(directory.WifiSSIDEnv, "")
	t.Setenv(directory.WifiPasswordEnv, "")

	cmd := OSConfigCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestOSConfigNothingToDo(t *testing.T) {
	err := runOSConfig(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to configure")
}

func TestOSConfigRejectsMalformedDeviceKey(t *testing.T) {
	err := runOSConfig(t, "--devicekey", "no-separator")
	var verr *console.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "devicekey", verr.Field)
}

func TestOSConfigNeedsPort(t *testing.T) {
	err := runOSConfig(t, "--devicekey", "1234-5678&secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no serial port given")
}
