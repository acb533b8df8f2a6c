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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

// EntryType is the discriminant stored in the entry_type column. The
// codes are persisted and must never be renumbered.
type EntryType uint8

const (
	EntryTypeCatalog EntryType = 1
	EntryTypeSchema  EntryType = 2
	EntryTypeTable   EntryType = 3
)

// EntryTypeFromByte maps a stored discriminant back to its EntryType.
func EntryTypeFromByte(ctx context.Context, b uint8) (EntryType, error) {
	switch t := EntryType(b); t {
	case EntryTypeCatalog, EntryTypeSchema, EntryTypeTable:
		return t, nil
	}
	return 0, moerr.NewInvalidEntryType(ctx, b)
}

func (t EntryType) String() string {
	switch t {
	case EntryTypeCatalog:
		return "Catalog"
	case EntryTypeSchema:
		return "Schema"
	case EntryTypeTable:
		return "Table"
	}
	return fmt.Sprintf("EntryType(%d)", uint8(t))
}

// Entry is one decoded row of the system catalog table: a CatalogEntry,
// a SchemaEntry or a TableEntry.
type Entry interface {
	EntryType() EntryType
	// Key is the value of the key column.
	Key() string
	// value is the payload of the value column.
	value() []byte
}

var (
	_ Entry = CatalogEntry{}
	_ Entry = SchemaEntry{}
	_ Entry = TableEntry{}
)

type CatalogEntry struct {
	CatalogName string
}

func (e CatalogEntry) EntryType() EntryType {
	return EntryTypeCatalog
}

func (e CatalogEntry) Key() string {
	return e.CatalogName
}

func (e CatalogEntry) value() []byte {
	return []byte{}
}

type SchemaEntry struct {
	CatalogName string
	SchemaName  string
}

func (e SchemaEntry) EntryType() EntryType {
	return EntryTypeSchema
}

func (e SchemaEntry) Key() string {
	return e.CatalogName + "." + e.SchemaName
}

func (e SchemaEntry) value() []byte {
	return []byte{}
}

// TableEntry records a table and the id used to reopen it.
//
// Keys are split on every dot and only the third segment is taken as the
// table name, so a table name that itself contains a dot does not
// survive an encode/decode round trip.
type TableEntry struct {
	CatalogName string
	SchemaName  string
	TableName   string
	TableId     engine.TableId
}

func (e TableEntry) EntryType() EntryType {
	return EntryTypeTable
}

func (e TableEntry) Key() string {
	return strings.Join([]string{e.CatalogName, e.SchemaName, e.TableName}, ".")
}

func (e TableEntry) value() []byte {
	return encodeTableEntryValue(e.TableId)
}

// TableEntryValue is the JSON payload of a table row.
type TableEntryValue struct {
	TableId engine.TableId `json:"table_id"`
}

func encodeTableEntryValue(tableId engine.TableId) []byte {
	data, err := json.Marshal(TableEntryValue{TableId: tableId})
	if err != nil {
		panic(err)
	}
	return data
}

// decodeTableEntryValue requires table_id to be present.
func decodeTableEntryValue(ctx context.Context, data []byte) (TableEntryValue, error) {
	var v struct {
		TableId *engine.TableId `json:"table_id"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return TableEntryValue{}, moerr.NewValueDeserialize(ctx, err)
	}
	if v.TableId == nil {
		return TableEntryValue{}, moerr.NewValueDeserialize(ctx, errors.New("missing field table_id"))
	}
	return TableEntryValue{TableId: *v.TableId}, nil
}
