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
	"encoding/json"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
)

type ColumnSchema struct {
	Name     string     `json:"name"`
	Type     types.Type `json:"type"`
	Nullable bool       `json:"nullable"`
}

func NewColumnSchema(name string, typ types.Type, nullable bool) ColumnSchema {
	return ColumnSchema{Name: name, Type: typ, Nullable: nullable}
}

// Schema is an immutable, ordered column set with an optional time index
// column. Build one with SchemaBuilder.
type Schema struct {
	columns        []ColumnSchema
	nameToIndex    map[string]int
	timestampIndex int
}

func (s *Schema) NumColumns() int {
	return len(s.columns)
}

func (s *Schema) Column(i int) ColumnSchema {
	return s.columns[i]
}

func (s *Schema) ColumnIndexByName(name string) (int, bool) {
	idx, ok := s.nameToIndex[name]
	return idx, ok
}

// TimestampIndex returns the time index column position, -1 if none.
func (s *Schema) TimestampIndex() int {
	return s.timestampIndex
}

func (s *Schema) Equal(o *Schema) bool {
	if s.timestampIndex != o.timestampIndex || len(s.columns) != len(o.columns) {
		return false
	}
	for i := range s.columns {
		if s.columns[i] != o.columns[i] {
			return false
		}
	}
	return true
}

type schemaDesc struct {
	Columns        []ColumnSchema `json:"columns"`
	TimestampIndex int            `json:"timestamp_index"`
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaDesc{Columns: s.columns, TimestampIndex: s.timestampIndex})
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var desc schemaDesc
	if err := json.Unmarshal(data, &desc); err != nil {
		return err
	}
	b := NewSchemaBuilder(desc.Columns)
	if desc.TimestampIndex >= 0 {
		b.TimestampIndex(desc.TimestampIndex)
	}
	built, err := b.Build()
	if err != nil {
		return err
	}
	*s = *built
	return nil
}

type SchemaBuilder struct {
	columns        []ColumnSchema
	timestampIndex int
}

func NewSchemaBuilder(columns []ColumnSchema) *SchemaBuilder {
	return &SchemaBuilder{
		columns:        append([]ColumnSchema(nil), columns...),
		timestampIndex: -1,
	}
}

func (b *SchemaBuilder) TimestampIndex(idx int) *SchemaBuilder {
	b.timestampIndex = idx
	return b
}

// Build validates the column set: it must be non empty, column names must
// be unique and non empty, and the time index, when set, must point at a
// timestamp column.
func (b *SchemaBuilder) Build() (*Schema, error) {
	ctx := context.Background()
	if len(b.columns) == 0 {
		return nil, moerr.NewInvalidInput(ctx, "schema has no column")
	}
	nameToIndex := make(map[string]int, len(b.columns))
	for i, col := range b.columns {
		if col.Name == "" {
			return nil, moerr.NewInvalidInput(ctx, "column %d has empty name", i)
		}
		if _, ok := nameToIndex[col.Name]; ok {
			return nil, moerr.NewInvalidInput(ctx, "duplicate column %s", col.Name)
		}
		nameToIndex[col.Name] = i
	}
	if b.timestampIndex >= 0 {
		if b.timestampIndex >= len(b.columns) {
			return nil, moerr.NewInvalidInput(ctx, "timestamp index %d out of range", b.timestampIndex)
		}
		if col := b.columns[b.timestampIndex]; col.Type.Oid != types.T_timestamp {
			return nil, moerr.NewInvalidInput(ctx, "timestamp index column %s has type %s", col.Name, col.Type)
		}
	} else if b.timestampIndex < -1 {
		return nil, moerr.NewInvalidInput(ctx, "timestamp index %d out of range", b.timestampIndex)
	}
	return &Schema{
		columns:        b.columns,
		nameToIndex:    nameToIndex,
		timestampIndex: b.timestampIndex,
	}, nil
}
