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

// Package enginetest holds behaviour tests every engine.Engine
// implementation in this module must pass.
package enginetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/batch"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

// Factory returns a fresh, empty engine. The suite closes it.
type Factory func(t *testing.T) engine.Engine

func Schema(t *testing.T) *engine.Schema {
	schema, err := engine.NewSchemaBuilder([]engine.ColumnSchema{
		engine.NewColumnSchema("kind", types.New(types.T_uint8), false),
		engine.NewColumnSchema("name", types.New(types.T_varbinary), false),
		engine.NewColumnSchema("ts", types.New(types.T_timestamp), false),
		engine.NewColumnSchema("payload", types.New(types.T_varbinary), true),
	}).TimestampIndex(2).Build()
	require.NoError(t, err)
	return schema
}

func CreateRequest(t *testing.T, id engine.TableId, name string) *engine.CreateTableRequest {
	return &engine.CreateTableRequest{
		Id:                id,
		CatalogName:       "c",
		SchemaName:        "s",
		TableName:         name,
		Schema:            Schema(t),
		PrimaryKeyIndices: []int{0, 1, 2},
	}
}

func OpenRequest(id engine.TableId, name string) *engine.OpenTableRequest {
	return &engine.OpenTableRequest{CatalogName: "c", SchemaName: "s", TableName: name, TableId: id}
}

// InsertRequest builds a request with one row per name. A nil payload is
// written as NULL.
func InsertRequest(kind uint8, names []string, payloads [][]byte) *engine.InsertRequest {
	kinds := make([]uint8, len(names))
	keys := make([][]byte, len(names))
	ts := make([]types.Timestamp, len(names))
	for i, name := range names {
		kinds[i] = kind
		keys[i] = []byte(name)
	}
	payload := vector.New(types.New(types.T_varbinary))
	for _, p := range payloads {
		if p == nil {
			_ = payload.AppendNull()
		} else {
			_ = payload.Append(p)
		}
	}
	return &engine.InsertRequest{
		ColumnsValues: map[string]*vector.Vector{
			"kind":    vector.NewWithUint8s(kinds),
			"name":    vector.NewWithBytes(keys),
			"ts":      vector.NewWithTimestamps(ts),
			"payload": payload,
		},
	}
}

// Drain reads every batch from reader and closes it.
func Drain(t *testing.T, reader engine.Reader) []*batch.Batch {
	ctx := context.Background()
	defer func() {
		require.NoError(t, reader.Close())
	}()
	var bats []*batch.Batch
	for {
		bat, err := reader.Read(ctx)
		require.NoError(t, err)
		if bat == nil {
			return bats
		}
		bats = append(bats, bat)
	}
}

// Names returns the name column of every scanned row, in order.
func Names(bats []*batch.Batch) []string {
	var names []string
	for _, bat := range bats {
		vec := bat.GetVector("name")
		for i := 0; i < vec.Length(); i++ {
			names = append(names, string(vec.GetBytes(i)))
		}
	}
	return names
}

func Run(t *testing.T, factory Factory) {
	t.Run("OpenMissing", func(t *testing.T) { testOpenMissing(t, factory) })
	t.Run("CreateOpen", func(t *testing.T) { testCreateOpen(t, factory) })
	t.Run("CreateExisting", func(t *testing.T) { testCreateExisting(t, factory) })
	t.Run("InsertScan", func(t *testing.T) { testInsertScan(t, factory) })
	t.Run("Upsert", func(t *testing.T) { testUpsert(t, factory) })
	t.Run("ScanProjectionLimit", func(t *testing.T) { testScanProjectionLimit(t, factory) })
	t.Run("InsertInvalid", func(t *testing.T) { testInsertInvalid(t, factory) })
	t.Run("Closed", func(t *testing.T) { testClosed(t, factory) })
	t.Run("ReaderAfterClose", func(t *testing.T) { testReaderAfterClose(t, factory) })
	t.Run("ScannedBytesAreCopies", func(t *testing.T) { testScannedBytesAreCopies(t, factory) })
}

func testOpenMissing(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.OpenTable(ctx, engine.EngineContext{}, OpenRequest(1, "t"))
	require.NoError(t, err)
	require.Nil(t, tbl)
}

func testCreateOpen(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	created, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	require.NotNil(t, created)
	require.True(t, Schema(t).Equal(created.Schema()))

	opened, err := e.OpenTable(ctx, engine.EngineContext{}, OpenRequest(1, "t"))
	require.NoError(t, err)
	require.NotNil(t, opened)
	require.True(t, Schema(t).Equal(opened.Schema()))

	_, err = e.OpenTable(ctx, engine.EngineContext{}, OpenRequest(2, "t"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func testCreateExisting(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	_, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)

	_, err = e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTableAlreadyExists))

	req := CreateRequest(t, 1, "t")
	req.CreateIfNotExists = true
	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, req)
	require.NoError(t, err)
	require.NotNil(t, tbl)

	_, err = e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "other"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	bad := CreateRequest(t, 3, "bad")
	bad.PrimaryKeyIndices = nil
	_, err = e.CreateTable(ctx, engine.EngineContext{}, bad)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func testInsertScan(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)

	n, err := tbl.Insert(ctx, InsertRequest(2, []string{"b", "a"}, [][]byte{[]byte("pb"), nil}))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = tbl.Insert(ctx, InsertRequest(1, []string{"z"}, [][]byte{{}}))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	reader, err := tbl.Scan(ctx, &engine.ScanRequest{})
	require.NoError(t, err)
	bats := Drain(t, reader)
	require.Equal(t, []string{"z", "a", "b"}, Names(bats))

	var payloads [][]byte
	for _, bat := range bats {
		require.Equal(t, []string{"kind", "name", "ts", "payload"}, bat.Attrs)
		vec := bat.GetVector("payload")
		for i := 0; i < vec.Length(); i++ {
			payloads = append(payloads, vec.GetBytes(i))
		}
	}
	require.Len(t, payloads, 3)
	require.NotNil(t, payloads[0])
	require.Len(t, payloads[0], 0)
	require.Nil(t, payloads[1])
	require.Equal(t, []byte("pb"), payloads[2])
}

func testUpsert(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)

	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"a"}, [][]byte{[]byte("v1")}))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"a"}, [][]byte{[]byte("v2")}))
	require.NoError(t, err)

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	bats := Drain(t, reader)
	require.Equal(t, []string{"a"}, Names(bats))
	require.Equal(t, []byte("v2"), bats[0].GetVector("payload").GetBytes(0))
}

func testScanProjectionLimit(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"a", "b", "c"}, [][]byte{nil, nil, nil}))
	require.NoError(t, err)

	limit := 2
	reader, err := tbl.Scan(ctx, &engine.ScanRequest{Projection: []int{1}, Limit: &limit})
	require.NoError(t, err)
	bats := Drain(t, reader)
	require.Equal(t, []string{"a", "b"}, Names(bats))
	require.Equal(t, []string{"name"}, bats[0].Attrs)
}

func testInsertInvalid(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)

	req := InsertRequest(1, []string{"a"}, [][]byte{nil})
	delete(req.ColumnsValues, "ts")
	_, err = tbl.Insert(ctx, req)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, Drain(t, reader))
}

func testClosed(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	require.NoError(t, e.Close())

	_, err = e.OpenTable(ctx, engine.EngineContext{}, OpenRequest(1, "t"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed))
	_, err = e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 2, "u"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed))
	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"a"}, [][]byte{nil}))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed))
	_, err = tbl.Scan(ctx, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed))
}

func testReaderAfterClose(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"a", "b"}, [][]byte{nil, nil}))
	require.NoError(t, err)

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	bat, err := reader.Read(ctx)
	require.Nil(t, bat)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEngineClosed), "%v", err)
	require.NoError(t, reader.Close())
}

func testScannedBytesAreCopies(t *testing.T, factory Factory) {
	ctx := context.Background()
	e := factory(t)
	defer e.Close()

	tbl, err := e.CreateTable(ctx, engine.EngineContext{}, CreateRequest(t, 1, "t"))
	require.NoError(t, err)
	_, err = tbl.Insert(ctx, InsertRequest(1, []string{"abc"}, [][]byte{[]byte("v1")}))
	require.NoError(t, err)

	reader, err := tbl.Scan(ctx, nil)
	require.NoError(t, err)
	for _, bat := range Drain(t, reader) {
		for _, name := range []string{"name", "payload"} {
			vec := bat.GetVector(name)
			for i := 0; i < vec.Length(); i++ {
				b := vec.GetBytes(i)
				for j := range b {
					b[j] = 'X'
				}
			}
		}
	}

	reader, err = tbl.Scan(ctx, nil)
	require.NoError(t, err)
	bats := Drain(t, reader)
	require.Equal(t, []string{"abc"}, Names(bats))
	require.Equal(t, []byte("v1"), bats[0].GetVector("payload").GetBytes(0))
}
