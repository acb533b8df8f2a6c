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
	"strings"

	"go.uber.org/zap"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/batch"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/container/vector"
	"github.com/matrixorigin/mocatalog/pkg/logutil"
	v2 "github.com/matrixorigin/mocatalog/pkg/util/metric/v2"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

// nowFunc is the wall clock used for gmt_created and gmt_modified.
var nowFunc = types.CurrentTimestamp

// DecodeSystemCatalog decodes the entry_type, key and value columns of one
// row into an Entry. A nil pointer or nil slice means the cell is absent;
// a present but empty value is a non-nil empty slice.
func DecodeSystemCatalog(ctx context.Context, entryType *uint8, key, value []byte) (Entry, error) {
	logutil.Debug("decode system catalog entry",
		zap.Any("entry_type", entryType),
		zap.ByteString("key", key),
		zap.ByteString("value", value))
	entry, err := decodeSystemCatalog(ctx, entryType, key, value)
	if err != nil {
		recordDecodeError(err)
		return nil, err
	}
	v2.CatalogDecodeCounter.Inc()
	return entry, nil
}

func decodeSystemCatalog(ctx context.Context, entryType *uint8, key, value []byte) (Entry, error) {
	if entryType == nil || key == nil {
		return nil, moerr.NewInvalidKey(ctx, "")
	}
	typ, err := EntryTypeFromByte(ctx, *entryType)
	if err != nil {
		return nil, err
	}
	keyStr := strings.ToValidUTF8(string(key), "\uFFFD")

	switch typ {
	case EntryTypeCatalog:
		return CatalogEntry{CatalogName: keyStr}, nil

	case EntryTypeSchema:
		parts := strings.Split(keyStr, ".")
		if len(parts) != 2 {
			return nil, moerr.NewInvalidKey(ctx, keyStr)
		}
		return SchemaEntry{CatalogName: parts[0], SchemaName: parts[1]}, nil

	case EntryTypeTable:
		parts := strings.Split(keyStr, ".")
		if len(parts) < 3 {
			return nil, moerr.NewInvalidKey(ctx, keyStr)
		}
		if value == nil {
			return nil, moerr.NewEmptyValue(ctx)
		}
		v, err := decodeTableEntryValue(ctx, value)
		if err != nil {
			return nil, err
		}
		return TableEntry{
			CatalogName: parts[0],
			SchemaName:  parts[1],
			TableName:   parts[2],
			TableId:     v.TableId,
		}, nil
	}
	panic(moerr.NewInternalError(ctx, "unhandled entry type %s", typ))
}

func recordDecodeError(err error) {
	switch {
	case moerr.IsMoErrCode(err, moerr.ErrInvalidKey):
		v2.CatalogDecodeInvalidKeyCounter.Inc()
	case moerr.IsMoErrCode(err, moerr.ErrInvalidEntryType):
		v2.CatalogDecodeInvalidEntryTypeCounter.Inc()
	case moerr.IsMoErrCode(err, moerr.ErrEmptyValue):
		v2.CatalogDecodeEmptyValueCounter.Inc()
	case moerr.IsMoErrCode(err, moerr.ErrValueDeserialize):
		v2.CatalogDecodeDeserializeCounter.Inc()
	}
}

// DecodeRow decodes row of a batch scanned from the system catalog
// table. NULL cells are treated as absent.
func DecodeRow(ctx context.Context, bat *batch.Batch, row int) (Entry, error) {
	if row < 0 || row >= bat.Length() {
		return nil, moerr.NewInvalidArg(ctx, "row", row)
	}
	cols := make([]*vector.Vector, 3)
	for i, idx := range []int{EntryTypeIndex, KeyIndex, ValueIndex} {
		col := SystemCatalogSchema().Column(idx)
		if cols[i] = bat.GetVector(col.Name); cols[i] == nil {
			return nil, moerr.NewInvalidInput(ctx, "batch has no %s column", col.Name)
		}
		if cols[i].Typ.Oid != col.Type.Oid {
			return nil, moerr.NewInvalidInput(ctx, "column %s is %s, want %s", col.Name, cols[i].Typ.Oid, col.Type.Oid)
		}
	}
	typVec, keyVec, valVec := cols[0], cols[1], cols[2]

	var entryType *uint8
	if !typVec.IsNull(row) {
		t := vector.MustFixedCol[uint8](typVec)[row]
		entryType = &t
	}
	return DecodeSystemCatalog(ctx, entryType, keyVec.GetBytes(row), valVec.GetBytes(row))
}

// BuildTableInsertRequest builds the row recording a table. The table
// id is stored as the JSON value {"table_id": id}.
func BuildTableInsertRequest(fullTableName string, tableId engine.TableId) *engine.InsertRequest {
	return buildInsertRequest(EntryTypeTable, fullTableName, encodeTableEntryValue(tableId))
}

// BuildCatalogInsertRequest builds the row recording a catalog.
func BuildCatalogInsertRequest(catalogName string) *engine.InsertRequest {
	return BuildInsertRequest(CatalogEntry{CatalogName: catalogName})
}

// BuildSchemaInsertRequest builds the row recording a schema.
func BuildSchemaInsertRequest(catalogName, schemaName string) *engine.InsertRequest {
	return BuildInsertRequest(SchemaEntry{CatalogName: catalogName, SchemaName: schemaName})
}

// BuildInsertRequest builds the row recording entry.
func BuildInsertRequest(entry Entry) *engine.InsertRequest {
	return buildInsertRequest(entry.EntryType(), entry.Key(), entry.value())
}

func buildInsertRequest(typ EntryType, key string, value []byte) *engine.InsertRequest {
	now := nowFunc()
	return &engine.InsertRequest{
		TableName: SystemCatalogTableName,
		ColumnsValues: map[string]*vector.Vector{
			EntryTypeColumnName:   vector.NewWithUint8s([]uint8{uint8(typ)}),
			KeyColumnName:         vector.NewWithBytes([][]byte{[]byte(key)}),
			TimestampColumnName:   vector.NewWithTimestamps([]types.Timestamp{0}),
			ValueColumnName:       vector.NewWithBytes([][]byte{value}),
			GmtCreatedColumnName:  vector.NewWithTimestamps([]types.Timestamp{now}),
			GmtModifiedColumnName: vector.NewWithTimestamps([]types.Timestamp{now}),
		},
	}
}
