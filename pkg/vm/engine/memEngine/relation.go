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

package memEngine

import (
	"bytes"
	"context"

	"github.com/google/btree"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/rowcodec"
)

func (item *rowItem) Less(than btree.Item) bool {
	return bytes.Compare(item.key, than.(*rowItem).key) < 0
}

func (r *relation) Schema() *engine.Schema {
	return r.schema
}

// Insert upserts rows by primary key.
func (r *relation) Insert(ctx context.Context, req *engine.InsertRequest) (int, error) {
	if r.e.isClosed() {
		return 0, moerr.NewEngineClosed(ctx, Name)
	}
	rows, err := engine.RowsFromInsertRequest(ctx, r.schema, req)
	if err != nil {
		return 0, err
	}
	r.Lock()
	defer r.Unlock()
	for _, row := range rows {
		r.rows.ReplaceOrInsert(&rowItem{
			key: rowcodec.EncodeKey(r.schema, r.pk, row),
			row: row,
		})
	}
	return len(rows), nil
}

// Scan reads a snapshot of the rows taken when Scan is called.
func (r *relation) Scan(ctx context.Context, req *engine.ScanRequest) (engine.Reader, error) {
	if r.e.isClosed() {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	r.RLock()
	rows := make([]engine.Row, 0, r.rows.Len())
	r.rows.Ascend(func(i btree.Item) bool {
		rows = append(rows, i.(*rowItem).row)
		return true
	})
	r.RUnlock()
	it := &snapshotIter{ctx: ctx, e: r.e, RowIter: engine.NewSliceIter(rows)}
	return engine.NewReader(ctx, r.schema, req, it, r.e.batchRows)
}

// snapshotIter stops serving rows once the engine is closed.
type snapshotIter struct {
	engine.RowIter
	ctx context.Context
	e   *memEngine
}

func (it *snapshotIter) Next() (engine.Row, bool, error) {
	if it.e.isClosed() {
		return nil, false, moerr.NewEngineClosed(it.ctx, Name)
	}
	return it.RowIter.Next()
}
