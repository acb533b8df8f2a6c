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

package pb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/enginetest"
)

func TestPebbleEngine(t *testing.T) {
	enginetest.Run(t, func(t *testing.T) engine.Engine {
		e, err := Open(t.TempDir(), WithBatchRows(2))
		require.NoError(t, err)
		return e
	})
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	e, err := Open(dir)
	require.NoError(t, err)
	req := enginetest.CreateRequest(t, 7, "t")
	req.Desc = "persisted"
	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, req)
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, enginetest.InsertRequest(1, []string{"b", "a"}, [][]byte{nil, []byte("x")}))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e, err = Open(dir)
	require.NoError(t, err)
	defer e.Close()

	tbl, err = e.OpenTable(ctx, engine.EngineContext{}, enginetest.OpenRequest(7, "t"))
	require.NoError(t, err)
	require.NotNil(t, tbl)
	require.True(t, enginetest.Schema(t).Equal(tbl.Schema()))

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	bats := enginetest.Drain(t, reader)
	require.Equal(t, []string{"a", "b"}, enginetest.Names(bats))
	require.Equal(t, []byte("x"), bats[0].GetVector("payload").GetBytes(0))

	_, err = e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 7, "other"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestTablesAreIsolated(t *testing.T) {
	ctx := context.Background()
	e, err := Open(t.TempDir())
	require.NoError(t, err)
	defer e.Close()

	t1, err := e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 1, "t1"))
	require.NoError(t, err)
	t2, err := e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 2, "t2"))
	require.NoError(t, err)
	_, err = t1.Insert(ctx, enginetest.InsertRequest(1, []string{"one"}, [][]byte{nil}))
	require.NoError(t, err)
	_, err = t2.Insert(ctx, enginetest.InsertRequest(1, []string{"two"}, [][]byte{nil}))
	require.NoError(t, err)

	reader, err := t1.Scan(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"one"}, enginetest.Names(enginetest.Drain(t, reader)))
	reader, err = t2.Scan(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"two"}, enginetest.Names(enginetest.Drain(t, reader)))
}

func TestUpperBound(t *testing.T) {
	require.Equal(t, []byte{0x01, 0x03}, upperBound([]byte{0x01, 0x02}))
	require.Equal(t, []byte{0x02}, upperBound([]byte{0x01, 0xff}))
	require.Nil(t, upperBound([]byte{0xff, 0xff}))
}

func TestCloseReleasesReaders(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	e, err := Open(dir, WithBatchRows(1))
	require.NoError(t, err)
	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, enginetest.CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, enginetest.InsertRequest(1, []string{"a", "b"}, [][]byte{nil, nil}))
	require.NoError(t, err)

	drained, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	enginetest.Drain(t, drained)
	pending, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	require.Len(t, e.(*pbEngine).iters, 1)

	bat, err := pending.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, bat.Length())

	// no leaked iterators
	require.NoError(t, e.Close())
	_, err = pending.Read(ctx)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed), "%v", err)
	require.NoError(t, pending.Close())

	e, err = Open(dir)
	require.NoError(t, err)
	require.NoError(t, e.Close())
}
