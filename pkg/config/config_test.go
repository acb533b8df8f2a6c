// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"
max-size = 64

[engine]
type = "pebble"
data-dir = "/tmp/catalog/../catalog-data"

[catalog]
skip-corrupt-entries = true

[metric]
enable = true
`)
	cfg, err := ParseConfigFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 64, cfg.Log.MaxSize)
	require.Equal(t, EngineTypePebble, cfg.Engine.Type)
	require.Equal(t, "/tmp/catalog-data", cfg.Engine.DataDir)
	require.Equal(t, defaultScanBatchSz, cfg.Engine.ScanBatchRows)
	require.True(t, cfg.Catalog.SkipCorruptEntries)
	require.True(t, cfg.Metric.Enable)
	require.Equal(t, defaultMetricPort, cfg.Metric.Port)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, defaultLogLevel, cfg.Log.Level)
	require.Equal(t, defaultLogFormat, cfg.Log.Format)
	require.Equal(t, EngineTypeMem, cfg.Engine.Type)
	require.Empty(t, cfg.Engine.DataDir)
	require.False(t, cfg.Metric.Enable)
	require.Zero(t, cfg.Metric.Port)
}

func TestPebbleDefaultDataDir(t *testing.T) {
	cfg, err := ParseConfigFromFile(writeConfig(t, "[engine]\ntype = \"pebble\"\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Clean(defaultDataDir), cfg.Engine.DataDir)
}

func TestParseConfigFromFileInvalid(t *testing.T) {
	cases := map[string]string{
		"syntax":      "[log\nlevel = ",
		"level":       "[log]\nlevel = \"loud\"\n",
		"format":      "[log]\nformat = \"xml\"\n",
		"engine":      "[engine]\ntype = \"rocks\"\n",
		"batch rows":  "[engine]\nscan-batch-rows = -1\n",
		"metric port": "[metric]\nenable = true\nport = 70000\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfigFromFile(writeConfig(t, content))
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "%v", err)
		})
	}

	_, err := ParseConfigFromFile("")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
	_, err = ParseConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}
