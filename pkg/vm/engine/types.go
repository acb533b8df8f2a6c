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

//go:generate mockgen -source=types.go -destination=test/mock_engine/types.go -package=mock_engine

import (
	"context"
	"strings"

	"github.com/matrixorigin/mocatalog/pkg/container/batch"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
)

type TableId = uint32

// EngineContext carries per call engine options. It is empty for now.
type EngineContext struct{}

type OpenTableRequest struct {
	CatalogName string
	SchemaName  string
	TableName   string
	TableId     TableId
}

type CreateTableRequest struct {
	Id          TableId
	CatalogName string
	SchemaName  string
	TableName   string
	Desc        string
	Schema      *Schema
	// PrimaryKeyIndices are column positions in Schema.
	PrimaryKeyIndices []int
	// CreateIfNotExists makes creating an existing table return it instead
	// of failing.
	CreateIfNotExists bool
	TableOptions      map[string]string
}

// InsertRequest carries one column vector per schema column, keyed by
// column name. All vectors hold the same number of rows.
type InsertRequest struct {
	TableName     string
	ColumnsValues map[string]*vector.Vector
}

// Expr is a scan predicate.
type Expr interface {
	String() string
}

// ScanRequest narrows a scan. The zero value is a full scan.
type ScanRequest struct {
	// Projection lists the column positions to read, nil for all.
	Projection []int
	Filters    []Expr
	// Limit caps the number of rows read, nil for no limit.
	Limit *int
}

func (r *ScanRequest) IsFullScan() bool {
	return r == nil || (r.Projection == nil && len(r.Filters) == 0 && r.Limit == nil)
}

// Reader is a forward only stream of record batches. Read returns a nil
// batch once the stream is drained. Close must be called on every path,
// including early abandonment.
type Reader interface {
	Read(ctx context.Context) (*batch.Batch, error)
	Close() error
}

type Table interface {
	Schema() *Schema
	// Insert writes the rows of the request and returns how many were written.
	Insert(ctx context.Context, req *InsertRequest) (int, error)
	Scan(ctx context.Context, req *ScanRequest) (Reader, error)
}

type Engine interface {
	Name() string
	// OpenTable returns a nil table and nil error when the table does not exist.
	OpenTable(ctx context.Context, ectx EngineContext, req *OpenTableRequest) (Table, error)
	CreateTable(ctx context.Context, ectx EngineContext, req *CreateTableRequest) (Table, error)
	Close() error
}

func FullTableName(catalogName, schemaName, tableName string) string {
	return strings.Join([]string{catalogName, schemaName, tableName}, ".")
}
