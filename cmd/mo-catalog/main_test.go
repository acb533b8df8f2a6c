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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := rootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRegisterAndList(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--engine", "pebble", "--data-dir", dir, "--log-level", "error"}

	out, err := execute(t, append([]string{"bootstrap"}, common...)...)
	require.NoError(t, err)
	require.Contains(t, out, "pebble")

	_, err = execute(t, append([]string{"register-catalog", "mo"}, common...)...)
	require.NoError(t, err)
	_, err = execute(t, append([]string{"register-schema", "mo", "tpch"}, common...)...)
	require.NoError(t, err)
	out, err = execute(t, append([]string{"register-table", "mo", "tpch", "lineitem", "--id", "1024"}, common...)...)
	require.NoError(t, err)
	require.Contains(t, out, "1 row(s) written for mo.tpch.lineitem")

	out, err = execute(t, append([]string{"list", "--json"}, common...)...)
	require.NoError(t, err)
	var listed []listedEntry
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 3)
	require.Equal(t, "Catalog", listed[0].Type)
	require.Equal(t, "mo", listed[0].Key)
	require.Nil(t, listed[0].TableId)
	require.Equal(t, "Schema", listed[1].Type)
	require.Equal(t, "mo.tpch", listed[1].Key)
	require.Equal(t, "Table", listed[2].Type)
	require.Equal(t, "mo.tpch.lineitem", listed[2].Key)
	require.NotNil(t, listed[2].TableId)
	require.Equal(t, uint32(1024), *listed[2].TableId)

	out, err = execute(t, append([]string{"list"}, common...)...)
	require.NoError(t, err)
	require.Contains(t, out, "TYPE")
	require.Contains(t, out, "mo.tpch.lineitem")
	require.Contains(t, out, "1024")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	content := "[log]\nlevel = \"error\"\n\n[engine]\ntype = \"pebble\"\ndata-dir = \"" +
		filepath.ToSlash(filepath.Join(dir, "data")) + "\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := execute(t, "register-catalog", "c1", "--config", path)
	require.NoError(t, err)
	out, err := execute(t, "list", "-c", path)
	require.NoError(t, err)
	require.Contains(t, out, "c1")
}

func TestInvalidArguments(t *testing.T) {
	common := []string{"--log-level", "error"}

	_, err := execute(t, append([]string{"register-schema", "a.b", "c"}, common...)...)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	_, err = execute(t, append([]string{"register-table", "a", "b", "c"}, common...)...)
	require.Error(t, err)

	_, err = execute(t, "bootstrap", "--engine", "rocks")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestListBeforeBootstrap(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "list", "--engine", "pebble", "--data-dir", dir, "--log-level", "error")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchTable), "%v", err)
	require.Contains(t, err.Error(), "system.information_schema.system_catalog")

	_, err = execute(t, "list", "--log-level", "error")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchTable), "%v", err)

	// list must not have created the table
	_, err = execute(t, "list", "--engine", "pebble", "--data-dir", dir, "--log-level", "error")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchTable), "%v", err)
}

func TestRunSafely(t *testing.T) {
	ctx := context.Background()

	err := runSafely(ctx, &env{}, func(context.Context, *env) error {
		var ids map[string]uint32
		ids["t"] = 1
		return nil
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal), "%v", err)
	require.Contains(t, err.Error(), "nil map")

	cause := moerr.NewInvalidInput(ctx, "bad row")
	err = runSafely(ctx, &env{}, func(context.Context, *env) error {
		panic(cause)
	})
	require.Same(t, cause, err)

	err = runSafely(ctx, &env{}, func(context.Context, *env) error { return nil })
	require.NoError(t, err)
}
