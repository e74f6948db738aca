// Copyright (C) 2024 obniz Inc. All rights reserved.
// Use of this source code is governed by an MIT-style license that can be
// found in the LICENSE file.

package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv(UserConfigPathEnv, path)

	cfg, err := GetUserConfig()
	require.NoError(t, err)
	assert.False(t, cfg.IsSet("port"))

	cfg.Set("port", "/dev/ttyUSB0")
	require.NoError(t, WriteConfig(cfg))

	cfg, err = GetUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.GetString("port"))

	_, err = os.Stat(filepath.Join(filepath.Dir(path), ".config.tmp.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "device.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"net":"wifi","wifi":{"ssid":"office"}}`), 0644))
	plainPath := filepath.Join(dir, "device")
	require.NoError(t, os.WriteFile(plainPath, []byte("net: ethernet\n"), 0644))

	cfg, err := ReadConfigFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "office", cfg.GetString("wifi.ssid"))

	cfg, err = ReadConfigFile(plainPath)
	require.NoError(t, err)
	assert.Equal(t, "ethernet", cfg.GetString("net"))

	_, err = ReadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
