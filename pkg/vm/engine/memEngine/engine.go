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
	"context"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

const Name = "memory"

func New(opts ...Option) engine.Engine {
	e := &memEngine{
		batchRows: engine.DefaultReadBatchRows,
		tables:    make(map[string]*relation),
		ids:       make(map[engine.TableId]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *memEngine) Name() string {
	return Name
}

func (e *memEngine) OpenTable(ctx context.Context, _ engine.EngineContext, req *engine.OpenTableRequest) (engine.Table, error) {
	e.RLock()
	defer e.RUnlock()
	if e.closed {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	name := engine.FullTableName(req.CatalogName, req.SchemaName, req.TableName)
	rel, ok := e.tables[name]
	if !ok {
		return nil, nil
	}
	if rel.id != req.TableId {
		return nil, moerr.NewInvalidInput(ctx, "table %s has id %d, not %d", name, rel.id, req.TableId)
	}
	return rel, nil
}

func (e *memEngine) CreateTable(ctx context.Context, _ engine.EngineContext, req *engine.CreateTableRequest) (engine.Table, error) {
	if err := engine.ValidateCreateTableRequest(ctx, req); err != nil {
		return nil, err
	}
	e.Lock()
	defer e.Unlock()
	if e.closed {
		return nil, moerr.NewEngineClosed(ctx, Name)
	}
	name := engine.FullTableName(req.CatalogName, req.SchemaName, req.TableName)
	if rel, ok := e.tables[name]; ok {
		if req.CreateIfNotExists {
			return rel, nil
		}
		return nil, moerr.NewTableAlreadyExists(ctx, req.CatalogName, req.SchemaName, req.TableName)
	}
	if owner, ok := e.ids[req.Id]; ok {
		return nil, moerr.NewInvalidInput(ctx, "table id %d is used by %s", req.Id, owner)
	}
	rel := &relation{
		e:      e,
		id:     req.Id,
		name:   name,
		schema: req.Schema,
		pk:     append([]int(nil), req.PrimaryKeyIndices...),
		rows:   btree.New(btreeDegree),
	}
	e.tables[name] = rel
	e.ids[req.Id] = name
	logutil.Debug("memory engine created table",
		zap.String("table", name),
		zap.Uint32("id", req.Id))
	return rel, nil
}

func (e *memEngine) Close() error {
	e.Lock()
	defer e.Unlock()
	e.closed = true
	e.tables = nil
	e.ids = nil
	return nil
}

func (e *memEngine) isClosed() bool {
	e.RLock()
	defer e.RUnlock()
	return e.closed
}
