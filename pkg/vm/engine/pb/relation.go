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
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine/rowcodec"
)

func (r *relation) Schema() *engine.Schema {
	return r.schema
}

// Insert upserts rows by primary key in one synced batch.
func (r *relation) Insert(ctx context.Context, req *engine.InsertRequest) (int, error) {
	rows, err := engine.RowsFromInsertRequest(ctx, r.schema, req)
	if err != nil {
		return 0, err
	}
	r.e.RLock()
	defer r.e.RUnlock()
	if r.e.closed {
		return 0, moerr.NewEngineClosed(ctx, Name)
	}
	bat := r.e.db.NewBatch()
	defer bat.Close()
	for _, row := range rows {
		k := append(append([]byte{}, r.prefix...), rowcodec.EncodeKey(r.schema, r.pk, row)...)
		if err := bat.Set(k, rowcodec.EncodeRow(r.schema, row), nil); err != nil {
			return 0, moerr.ConvertGoError(ctx, err)
		}
	}
	if err := bat.Commit(pebble.Sync); err != nil {
		return 0, moerr.ConvertGoError(ctx, err)
	}
	return len(rows), nil
}

// Scan iterates the table's key range. The pebble iterator pins a
// consistent view of the rows at the time Scan is called.
func (r *relation) Scan(ctx context.Context, req *engine.ScanRequest) (engine.Reader, error) {
	r.e.RLock()
	defer r.e.RUnlock()
	if r.e.closed {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	itr := r.e.db.NewIter(&pebble.IterOptions{
		LowerBound: r.prefix,
		UpperBound: upperBound(r.prefix),
	})
	itr.First()
	it := &rowIter{ctx: ctx, e: r.e, schema: r.schema, itr: itr}
	reader, err := engine.NewReader(ctx, r.schema, req, it, r.e.batchRows)
	if err != nil {
		itr.Close()
		return nil, err
	}
	r.e.track(it)
	return reader, nil
}

// rowIter walks a pebble iterator. Once the engine is closed the
// iterator is released and Next fails with ErrEngineClosed.
type rowIter struct {
	sync.Mutex
	ctx    context.Context
	e      *pbEngine
	schema *engine.Schema
	itr    *pebble.Iterator
	// set when the engine released the iterator
	released bool
}

func (it *rowIter) Next() (engine.Row, bool, error) {
	it.Lock()
	defer it.Unlock()
	if it.released {
		return nil, false, moerr.NewEngineClosed(it.ctx, Name)
	}
	if it.itr == nil || !it.itr.Valid() {
		return nil, false, nil
	}
	row, err := rowcodec.DecodeRow(it.ctx, it.schema, it.itr.Value())
	if err != nil {
		return nil, false, err
	}
	it.itr.Next()
	return row, true, nil
}

func (it *rowIter) Close() error {
	it.e.RLock()
	defer it.e.RUnlock()
	it.Lock()
	defer it.Unlock()
	if it.itr == nil {
		return nil
	}
	it.e.untrack(it)
	err := it.itr.Close()
	it.itr = nil
	return err
}

// release is called by the engine with the engine lock held.
func (it *rowIter) release() {
	it.Lock()
	defer it.Unlock()
	it.released = true
	if it.itr != nil {
		_ = it.itr.Close()
		it.itr = nil
	}
}
