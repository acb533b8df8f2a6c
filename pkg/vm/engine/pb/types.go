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
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

const Name = "pebble"

// key prefixes
const (
	metaPrefix byte = 'm'
	idPrefix   byte = 'i'
	dataPrefix byte = 'd'
)

// pbEngine stores table metadata and rows in a single pebble instance.
type pbEngine struct {
	sync.RWMutex
	db        *pebble.DB
	closed    bool
	batchRows int
	// full table name -> opened table
	tables map[string]*relation

	// readers still holding a pebble iterator, released on Close
	itersMu sync.Mutex
	iters   map[*rowIter]struct{}
}

type relation struct {
	e      *pbEngine
	id     engine.TableId
	name   string
	schema *engine.Schema
	pk     []int
	prefix []byte
}

// tableMeta is persisted as JSON under the table's meta key.
type tableMeta struct {
	Id           engine.TableId    `json:"id"`
	CatalogName  string            `json:"catalog"`
	SchemaName   string            `json:"schema_name"`
	TableName    string            `json:"table"`
	Desc         string            `json:"desc,omitempty"`
	Schema       *engine.Schema    `json:"schema"`
	PrimaryKey   []int             `json:"pk"`
	TableOptions map[string]string `json:"options,omitempty"`
}

type Option func(*pbEngine)

// WithBatchRows sets how many rows a scan returns per batch.
func WithBatchRows(n int) Option {
	return func(e *pbEngine) {
		e.batchRows = n
	}
}
