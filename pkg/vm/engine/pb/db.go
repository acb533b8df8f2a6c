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
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

// Open opens, creating if needed, a pebble backed engine in dir.
func Open(dir string, opts ...Option) (engine.Engine, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, moerr.ConvertGoError(context.Background(), err)
	}
	e := &pbEngine{
		db:        db,
		batchRows: engine.DefaultReadBatchRows,
		tables:    make(map[string]*relation),
		iters:     make(map[*rowIter]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	logutil.Info("pebble engine opened", zap.String("dir", dir))
	return e, nil
}

func (e *pbEngine) Name() string {
	return Name
}

func (e *pbEngine) OpenTable(ctx context.Context, _ engine.EngineContext, req *engine.OpenTableRequest) (engine.Table, error) {
	e.Lock()
	defer e.Unlock()
	if e.closed {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	rel, err := e.loadTable(ctx, engine.FullTableName(req.CatalogName, req.SchemaName, req.TableName))
	if err != nil || rel == nil {
		return nil, err
	}
	if rel.id != req.TableId {
		return nil, moerr.NewInvalidInput(ctx, "table %s has id %d, not %d", rel.name, rel.id, req.TableId)
	}
	return rel, nil
}

func (e *pbEngine) CreateTable(ctx context.Context, _ engine.EngineContext, req *engine.CreateTableRequest) (engine.Table, error) {
	if err := engine.ValidateCreateTableRequest(ctx, req); err != nil {
		return nil, err
	}
	e.Lock()
	defer e.Unlock()
	if e.closed {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	name := engine.FullTableName(req.CatalogName, req.SchemaName, req.TableName)
	rel, err := e.loadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if rel != nil {
		if req.CreateIfNotExists {
			return rel, nil
		}
		return nil, moerr.NewTableAlreadyExists(ctx, req.CatalogName, req.SchemaName, req.TableName)
	}
	owner, err := e.get(idKey(req.Id))
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	if owner != nil {
		return nil, moerr.NewInvalidInput(ctx, "table id %d is used by %s", req.Id, owner)
	}

	data, err := json.Marshal(&tableMeta{
		Id:           req.Id,
		CatalogName:  req.CatalogName,
		SchemaName:   req.SchemaName,
		TableName:    req.TableName,
		Desc:         req.Desc,
		Schema:       req.Schema,
		PrimaryKey:   req.PrimaryKeyIndices,
		TableOptions: req.TableOptions,
	})
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	bat := e.db.NewBatch()
	defer bat.Close()
	if err := bat.Set(metaKey(name), data, nil); err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	if err := bat.Set(idKey(req.Id), []byte(name), nil); err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	if err := bat.Commit(pebble.Sync); err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}

	rel = e.newRelation(name, req.Id, req.Schema, req.PrimaryKeyIndices)
	logutil.Debug("pebble engine created table",
		zap.String("table", name),
		zap.Uint32("id", req.Id))
	return rel, nil
}

// Close releases the pebble instance. Readers still open at this point
// must not be used afterwards.
func (e *pbEngine) Close() error {
	e.Lock()
	defer e.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.tables = nil

	e.itersMu.Lock()
	iters := e.iters
	e.iters = nil
	e.itersMu.Unlock()
	for it := range iters {
		it.release()
	}
	return e.db.Close()
}

func (e *pbEngine) track(it *rowIter) {
	e.itersMu.Lock()
	defer e.itersMu.Unlock()
	e.iters[it] = struct{}{}
}

func (e *pbEngine) untrack(it *rowIter) {
	e.itersMu.Lock()
	defer e.itersMu.Unlock()
	delete(e.iters, it)
}

// loadTable returns the cached relation or reads its metadata, nil when
// the table does not exist. Callers hold the engine lock.
func (e *pbEngine) loadTable(ctx context.Context, name string) (*relation, error) {
	if rel, ok := e.tables[name]; ok {
		return rel, nil
	}
	data, err := e.get(metaKey(name))
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	if data == nil {
		return nil, nil
	}
	var meta tableMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, moerr.NewInternalError(ctx, "corrupt metadata of table %s: %v", name, err)
	}
	return e.newRelation(name, meta.Id, meta.Schema, meta.PrimaryKey), nil
}

func (e *pbEngine) newRelation(name string, id engine.TableId, schema *engine.Schema, pk []int) *relation {
	rel := &relation{
		e:      e,
		id:     id,
		name:   name,
		schema: schema,
		pk:     append([]int(nil), pk...),
		prefix: dataKeyPrefix(id),
	}
	e.tables[name] = rel
	return rel
}

func (e *pbEngine) get(k []byte) ([]byte, error) {
	v, c, err := e.db.Get(k)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := make([]byte, len(v))
	copy(r, v)
	c.Close()
	return r, nil
}

func metaKey(name string) []byte {
	return append([]byte{metaPrefix}, name...)
}

func idKey(id engine.TableId) []byte {
	return binary.BigEndian.AppendUint32([]byte{idPrefix}, id)
}

func dataKeyPrefix(id engine.TableId) []byte {
	return binary.BigEndian.AppendUint32([]byte{dataPrefix}, id)
}

func upperBound(k []byte) []byte {
	u := make([]byte, len(k))
	copy(u, k)
	for i := len(u) - 1; i >= 0; i-- {
		u[i] = u[i] + 1
		if u[i] != 0 {
			return u[:i+1]
		}
	}
	return nil
}
