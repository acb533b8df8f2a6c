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

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
)

type closeCounter struct {
	RowIter
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.RowIter.Close()
}

type predicate string

func (p predicate) String() string { return string(p) }

func mustSchema(t *testing.T) *Schema {
	schema, err := NewSchemaBuilder(threeColumns()).TimestampIndex(2).Build()
	require.NoError(t, err)
	return schema
}

func TestRowsFromInsertRequest(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)

	v := vector.NewWithBytes([][]byte{[]byte("x")})
	require.NoError(t, v.AppendNull())
	req := &InsertRequest{
		TableName: "t",
		ColumnsValues: map[string]*vector.Vector{
			"k":  vector.NewWithUint8s([]uint8{1, 2}),
			"v":  v,
			"ts": vector.NewWithTimestamps([]types.Timestamp{0, 7}),
		},
	}
	rows, err := RowsFromInsertRequest(ctx, schema, req)
	require.NoError(t, err)
	require.Equal(t, []Row{
		{uint8(1), []byte("x"), types.Timestamp(0)},
		{uint8(2), nil, types.Timestamp(7)},
	}, rows)
}

func TestRowsFromInsertRequestInvalid(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)

	valid := func() map[string]*vector.Vector {
		return map[string]*vector.Vector{
			"k":  vector.NewWithUint8s([]uint8{1}),
			"v":  vector.NewWithBytes([][]byte{[]byte("x")}),
			"ts": vector.NewWithTimestamps([]types.Timestamp{0}),
		}
	}

	missing := valid()
	delete(missing, "v")

	unknown := valid()
	unknown["extra"] = vector.NewWithUint8s([]uint8{1})

	badType := valid()
	badType["k"] = vector.NewWithBytes([][]byte{[]byte("1")})

	badLen := valid()
	badLen["ts"] = vector.NewWithTimestamps([]types.Timestamp{0, 1})

	nullInNotNull := valid()
	nullInNotNull["k"] = vector.New(types.New(types.T_uint8))
	require.NoError(t, nullInNotNull["k"].AppendNull())

	for name, cols := range map[string]map[string]*vector.Vector{
		"missing":  missing,
		"unknown":  unknown,
		"bad type": badType,
		"bad len":  badLen,
		"null":     nullInNotNull,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := RowsFromInsertRequest(ctx, schema, &InsertRequest{ColumnsValues: cols})
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), "%v", err)
		})
	}
}

func TestValidateCreateTableRequest(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)

	require.NoError(t, ValidateCreateTableRequest(ctx, &CreateTableRequest{
		TableName: "t", Schema: schema, PrimaryKeyIndices: []int{0, 2},
	}))

	for name, req := range map[string]*CreateTableRequest{
		"no name":      {Schema: schema, PrimaryKeyIndices: []int{0}},
		"no schema":    {TableName: "t", PrimaryKeyIndices: []int{0}},
		"no pk":        {TableName: "t", Schema: schema},
		"pk range":     {TableName: "t", Schema: schema, PrimaryKeyIndices: []int{3}},
		"pk duplicate": {TableName: "t", Schema: schema, PrimaryKeyIndices: []int{0, 0}},
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, moerr.IsMoErrCode(ValidateCreateTableRequest(ctx, req), moerr.ErrInvalidInput))
		})
	}
}

func testRows() []Row {
	return []Row{
		{uint8(1), []byte("a"), types.Timestamp(0)},
		{uint8(2), nil, types.Timestamp(1)},
		{uint8(3), []byte("c"), types.Timestamp(2)},
	}
}

func TestReaderFullScan(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)
	it := &closeCounter{RowIter: NewSliceIter(testRows())}

	reader, err := NewReader(ctx, schema, &ScanRequest{}, it, 2)
	require.NoError(t, err)

	bat, err := reader.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, bat.Length())
	require.Equal(t, []string{"k", "v", "ts"}, bat.Attrs)
	require.True(t, bat.Vecs[1].IsNull(1))

	bat, err = reader.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, bat.Length())
	require.Equal(t, "c", string(bat.Vecs[1].GetBytes(0)))

	bat, err = reader.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, bat)

	require.NoError(t, reader.Close())
	require.NoError(t, reader.Close())
	require.Equal(t, 1, it.closed)

	_, err = reader.Read(ctx)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrReaderClosed))
}

func TestReaderProjectionAndLimit(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)
	limit := 2

	reader, err := NewReader(ctx, schema, &ScanRequest{Projection: []int{2, 0}, Limit: &limit}, NewSliceIter(testRows()), 0)
	require.NoError(t, err)
	defer reader.Close()

	bat, err := reader.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"ts", "k"}, bat.Attrs)
	require.Equal(t, []uint8{1, 2}, vector.MustFixedCol[uint8](bat.Vecs[1]))

	bat, err = reader.Read(ctx)
	require.NoError(t, err)
	require.Nil(t, bat)
}

func TestReaderInvalidRequest(t *testing.T) {
	ctx := context.Background()
	schema := mustSchema(t)
	negative := -1

	_, err := NewReader(ctx, schema, &ScanRequest{Filters: []Expr{predicate("k = 1")}}, NewSliceIter(nil), 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNYI))

	_, err = NewReader(ctx, schema, &ScanRequest{Projection: []int{5}}, NewSliceIter(nil), 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	_, err = NewReader(ctx, schema, &ScanRequest{Limit: &negative}, NewSliceIter(nil), 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestIsFullScan(t *testing.T) {
	limit := 1
	var nilReq *ScanRequest
	require.True(t, nilReq.IsFullScan())
	require.True(t, (&ScanRequest{}).IsFullScan())
	require.False(t, (&ScanRequest{Projection: []int{}}).IsFullScan())
	require.False(t, (&ScanRequest{Filters: []Expr{predicate("x")}}).IsFullScan())
	require.False(t, (&ScanRequest{Limit: &limit}).IsFullScan())
}

func TestFullTableName(t *testing.T) {
	require.Equal(t, "system.information_schema.system_catalog",
		FullTableName("system", "information_schema", "system_catalog"))
}
