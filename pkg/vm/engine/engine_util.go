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
	"bytes"
	"context"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/batch"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
)

const DefaultReadBatchRows = 1024

// Row holds one value per schema column: uint8, types.Timestamp or []byte,
// nil for NULL.
type Row []any

// ValidateCreateTableRequest checks the parts of a create request every
// engine relies on.
func ValidateCreateTableRequest(ctx context.Context, req *CreateTableRequest) error {
	if req.TableName == "" {
		return moerr.NewInvalidInput(ctx, "empty table name")
	}
	if req.Schema == nil {
		return moerr.NewInvalidInput(ctx, "table %s has no schema", req.TableName)
	}
	if len(req.PrimaryKeyIndices) == 0 {
		return moerr.NewInvalidInput(ctx, "table %s has no primary key", req.TableName)
	}
	seen := make(map[int]struct{}, len(req.PrimaryKeyIndices))
	for _, idx := range req.PrimaryKeyIndices {
		if idx < 0 || idx >= req.Schema.NumColumns() {
			return moerr.NewInvalidInput(ctx, "primary key index %d out of range", idx)
		}
		if _, ok := seen[idx]; ok {
			return moerr.NewInvalidInput(ctx, "duplicate primary key index %d", idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// RowsFromInsertRequest checks req against schema and transposes its
// column vectors into rows.
func RowsFromInsertRequest(ctx context.Context, schema *Schema, req *InsertRequest) ([]Row, error) {
	if len(req.ColumnsValues) != schema.NumColumns() {
		for name := range req.ColumnsValues {
			if _, ok := schema.ColumnIndexByName(name); !ok {
				return nil, moerr.NewInvalidInput(ctx, "unknown column %s", name)
			}
		}
	}
	rowCount := -1
	vecs := make([]*vector.Vector, schema.NumColumns())
	for i := 0; i < schema.NumColumns(); i++ {
		col := schema.Column(i)
		vec, ok := req.ColumnsValues[col.Name]
		if !ok || vec == nil {
			return nil, moerr.NewInvalidInput(ctx, "missing column %s", col.Name)
		}
		if !vec.Typ.Eq(col.Type) {
			return nil, moerr.NewInvalidInput(ctx, "column %s expects %s, got %s", col.Name, col.Type, vec.Typ)
		}
		if rowCount >= 0 && vec.Length() != rowCount {
			return nil, moerr.NewInvalidInput(ctx, "column %s has %d rows, expect %d", col.Name, vec.Length(), rowCount)
		}
		rowCount = vec.Length()
		vecs[i] = vec
	}

	rows := make([]Row, rowCount)
	for r := range rows {
		row := make(Row, len(vecs))
		for i, vec := range vecs {
			if vec.IsNull(r) {
				if !schema.Column(i).Nullable {
					return nil, moerr.NewInvalidInput(ctx, "column %s is not nullable", schema.Column(i).Name)
				}
				continue
			}
			switch col := vec.Col.(type) {
			case []uint8:
				row[i] = col[r]
			case []types.Timestamp:
				row[i] = col[r]
			case [][]byte:
				row[i] = append([]byte{}, col[r]...)
			}
		}
		rows[r] = row
	}
	return rows, nil
}

// RowIter walks stored rows in primary key order.
type RowIter interface {
	// Next returns false once exhausted.
	Next() (Row, bool, error)
	Close() error
}

type iterReader struct {
	schema    *Schema
	cols      []int
	attrs     []string
	remaining int
	batchRows int
	it        RowIter
	closed    bool
}

// NewReader turns a row iterator into a batch Reader honouring the
// projection and limit of req. Filters are not evaluated by any engine
// in this module.
func NewReader(ctx context.Context, schema *Schema, req *ScanRequest, it RowIter, batchRows int) (Reader, error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if len(req.Filters) > 0 {
		return nil, moerr.NewNYI(ctx, "scan filters")
	}
	cols := req.Projection
	if cols == nil {
		cols = make([]int, schema.NumColumns())
		for i := range cols {
			cols[i] = i
		}
	}
	attrs := make([]string, len(cols))
	for i, idx := range cols {
		if idx < 0 || idx >= schema.NumColumns() {
			return nil, moerr.NewInvalidInput(ctx, "projection index %d out of range", idx)
		}
		attrs[i] = schema.Column(idx).Name
	}
	remaining := -1
	if req.Limit != nil {
		if *req.Limit < 0 {
			return nil, moerr.NewInvalidArg(ctx, "limit", *req.Limit)
		}
		remaining = *req.Limit
	}
	if batchRows <= 0 {
		batchRows = DefaultReadBatchRows
	}
	return &iterReader{
		schema:    schema,
		cols:      cols,
		attrs:     attrs,
		remaining: remaining,
		batchRows: batchRows,
		it:        it,
	}, nil
}

func (r *iterReader) Read(ctx context.Context) (*batch.Batch, error) {
	if r.closed {
		return nil, moerr.NewReaderClosed(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.remaining == 0 {
		return nil, nil
	}
	bat := batch.New(r.attrs)
	for i, idx := range r.cols {
		bat.Vecs[i] = vector.New(r.schema.Column(idx).Type)
	}
	n := 0
	for n < r.batchRows && r.remaining != 0 {
		row, ok, err := r.it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		for i, idx := range r.cols {
			switch v := row[idx].(type) {
			case nil:
				err = bat.Vecs[i].AppendNull()
			case []byte:
				// batches never alias the bytes an engine keeps
				err = bat.Vecs[i].Append(bytes.Clone(v))
			default:
				err = bat.Vecs[i].Append(v)
			}
			if err != nil {
				return nil, err
			}
		}
		n++
		if r.remaining > 0 {
			r.remaining--
		}
	}
	if n == 0 {
		return nil, nil
	}
	return bat, nil
}

func (r *iterReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.it.Close()
}

type sliceIter struct {
	rows []Row
	pos  int
}

// NewSliceIter iterates over an already materialized row set.
func NewSliceIter(rows []Row) RowIter {
	return &sliceIter{rows: rows}
}

func (it *sliceIter) Next() (Row, bool, error) {
	if it.pos >= len(it.rows) {
		return nil, false, nil
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true, nil
}

func (it *sliceIter) Close() error {
	it.rows = nil
	return nil
}
