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

package catalog

import (
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

var systemCatalogSchema = buildSystemCatalogSchema()

// primary key is (entry_type, key, timestamp)
var systemCatalogPrimaryKey = []int{EntryTypeIndex, KeyIndex, TimestampIndex}

func buildSystemCatalogSchema() *engine.Schema {
	cols := []engine.ColumnSchema{
		engine.NewColumnSchema(EntryTypeColumnName, types.New(types.T_uint8), false),
		engine.NewColumnSchema(KeyColumnName, types.New(types.T_varbinary), false),
		engine.NewColumnSchema(TimestampColumnName, types.New(types.T_timestamp), false),
		engine.NewColumnSchema(ValueColumnName, types.New(types.T_varbinary), false),
		engine.NewColumnSchema(GmtCreatedColumnName, types.New(types.T_timestamp), false),
		engine.NewColumnSchema(GmtModifiedColumnName, types.New(types.T_timestamp), false),
	}
	schema, err := engine.NewSchemaBuilder(cols).TimestampIndex(TimestampIndex).Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// SystemCatalogSchema returns the schema shared by every row of the
// system catalog table.
func SystemCatalogSchema() *engine.Schema {
	return systemCatalogSchema
}
