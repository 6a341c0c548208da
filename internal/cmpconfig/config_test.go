// Copyright 2020 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmpconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anapaya/cmpengine/internal/cmpconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := cmpconfig.Load("")
	require.NoError(t, err)
	require.Equal(t, cmpconfig.Default().Endpoint, cfg.Endpoint)
	require.Equal(t, 5*time.Minute, cfg.TotalTimeout)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmpctl.yaml")
	content := "endpoint: https://ca.example.org/cmp\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := cmpconfig.Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://ca.example.org/cmp", cfg.Endpoint)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := cmpconfig.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
