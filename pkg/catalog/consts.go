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

import "github.com/matrixorigin/mocatalog/pkg/vm/engine"

// Reserved address of the system catalog table. These are not
// configurable: every process must find the table at the same place.
const (
	SystemCatalogName      = "system"
	InformationSchemaName  = "information_schema"
	SystemCatalogTableName = "system_catalog"

	SystemCatalogTableId engine.TableId = 0

	systemCatalogTableDesc = "System catalog table"
)

// Column names of the system catalog table.
const (
	EntryTypeColumnName   = "entry_type"
	KeyColumnName         = "key"
	TimestampColumnName   = "timestamp"
	ValueColumnName       = "value"
	GmtCreatedColumnName  = "gmt_created"
	GmtModifiedColumnName = "gmt_modified"
)

// Column positions of the system catalog table.
const (
	EntryTypeIndex = iota
	KeyIndex
	TimestampIndex
	ValueIndex
	GmtCreatedIndex
	GmtModifiedIndex
)
