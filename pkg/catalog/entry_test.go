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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
)

func TestEntryTypeFromByte(t *testing.T) {
	ctx := context.Background()
	for _, typ := range []EntryType{EntryTypeCatalog, EntryTypeSchema, EntryTypeTable} {
		got, err := EntryTypeFromByte(ctx, uint8(typ))
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}
	require.Equal(t, uint8(1), uint8(EntryTypeCatalog))
	require.Equal(t, uint8(2), uint8(EntryTypeSchema))
	require.Equal(t, uint8(3), uint8(EntryTypeTable))

	for _, b := range []uint8{0, 4, 42, 255} {
		_, err := EntryTypeFromByte(ctx, b)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidEntryType), "%d", b)
	}
}

func TestEntryTypeString(t *testing.T) {
	require.Equal(t, "Catalog", EntryTypeCatalog.String())
	require.Equal(t, "Schema", EntryTypeSchema.String())
	require.Equal(t, "Table", EntryTypeTable.String())
	require.Equal(t, "EntryType(9)", EntryType(9).String())
}

func TestEntryKey(t *testing.T) {
	cases := []struct {
		entry Entry
		typ   EntryType
		key   string
		value string
	}{
		{CatalogEntry{CatalogName: "c"}, EntryTypeCatalog, "c", ""},
		{SchemaEntry{CatalogName: "c", SchemaName: "s"}, EntryTypeSchema, "c.s", ""},
		{TableEntry{CatalogName: "c", SchemaName: "s", TableName: "t", TableId: 9}, EntryTypeTable, "c.s.t", `{"table_id":9}`},
	}
	for _, c := range cases {
		require.Equal(t, c.typ, c.entry.EntryType())
		require.Equal(t, c.key, c.entry.Key())
		require.NotNil(t, c.entry.value())
		require.Equal(t, c.value, string(c.entry.value()))
	}
}

func TestDecodeTableEntryValue(t *testing.T) {
	ctx := context.Background()
	v, err := decodeTableEntryValue(ctx, []byte(`{"table_id": 4294967295, "extra": true}`))
	require.NoError(t, err)
	require.Equal(t, uint32(4294967295), v.TableId)

	for _, data := range []string{
		``, `{}`, `null`, `{"table_id": null}`, `{"table_id": -1}`,
		`{"table_id": 4294967296}`, `{"table_id": "7"}`, `[7]`, `{"table_id": 7`,
	} {
		_, err := decodeTableEntryValue(ctx, []byte(data))
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrValueDeserialize), "%q", data)
	}
}
