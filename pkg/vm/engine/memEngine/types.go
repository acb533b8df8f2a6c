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
	"sync"

	"github.com/google/btree"

	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

const btreeDegree = 32

// standalone memory engine
type memEngine struct {
	sync.RWMutex
	closed    bool
	batchRows int
	// full table name -> table
	tables map[string]*relation
	// table id -> full table name
	ids map[engine.TableId]string
}

type relation struct {
	sync.RWMutex
	e      *memEngine
	id     engine.TableId
	name   string
	schema *engine.Schema
	pk     []int
	rows   *btree.BTree
}

type rowItem struct {
	key []byte
	row engine.Row
}

type Option func(*memEngine)

// WithBatchRows sets how many rows a scan returns per batch.
func WithBatchRows(n int) Option {
	return func(e *memEngine) {
		e.batchRows = n
	}
}
