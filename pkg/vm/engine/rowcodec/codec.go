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

// Package rowcodec encodes engine rows for storage. Keys are memcomparable:
// comparing encoded keys bytewise orders rows the same way as comparing
// their primary key columns one by one.
package rowcodec

import (
	"context"
	"encoding/binary"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
	"github.com/matrixorigin/mocatalog/pkg/vm/engine"
)

const (
	nullFlag    byte = 0x00
	notNullFlag byte = 0x01

	escape     byte = 0x00
	escapedNul byte = 0xff
	terminator byte = 0x01
)

// EncodeKey encodes the primary key columns of row.
func EncodeKey(schema *engine.Schema, pk []int, row engine.Row) []byte {
	var buf []byte
	for _, idx := range pk {
		buf = appendKeyValue(buf, schema.Column(idx).Type.Oid, row[idx])
	}
	return buf
}

func appendKeyValue(buf []byte, oid types.T, v any) []byte {
	if v == nil {
		return append(buf, nullFlag)
	}
	buf = append(buf, notNullFlag)
	switch oid {
	case types.T_uint8:
		return append(buf, v.(uint8))
	case types.T_timestamp:
		// flip the sign bit so negative values sort first
		return binary.BigEndian.AppendUint64(buf, uint64(v.(types.Timestamp))^(1<<63))
	case types.T_varbinary:
		for _, b := range v.([]byte) {
			if b == escape {
				buf = append(buf, escape, escapedNul)
			} else {
				buf = append(buf, b)
			}
		}
		return append(buf, escape, terminator)
	}
	panic(moerr.NewInternalError(context.Background(), "unsupported key type %s", oid))
}

// EncodeRow encodes every column of row.
func EncodeRow(schema *engine.Schema, row engine.Row) []byte {
	var buf []byte
	for i := 0; i < schema.NumColumns(); i++ {
		v := row[i]
		if v == nil {
			buf = append(buf, nullFlag)
			continue
		}
		buf = append(buf, notNullFlag)
		switch schema.Column(i).Type.Oid {
		case types.T_uint8:
			buf = append(buf, v.(uint8))
		case types.T_timestamp:
			buf = binary.BigEndian.AppendUint64(buf, uint64(v.(types.Timestamp)))
		case types.T_varbinary:
			data := v.([]byte)
			buf = binary.AppendUvarint(buf, uint64(len(data)))
			buf = append(buf, data...)
		}
	}
	return buf
}

// DecodeRow is the inverse of EncodeRow. Non NULL binary cells decode to
// non nil slices, empty or not.
func DecodeRow(ctx context.Context, schema *engine.Schema, data []byte) (engine.Row, error) {
	row := make(engine.Row, schema.NumColumns())
	for i := 0; i < schema.NumColumns(); i++ {
		if len(data) == 0 {
			return nil, moerr.NewUnexpectedEOF(ctx, "row column "+schema.Column(i).Name)
		}
		flag := data[0]
		data = data[1:]
		if flag == nullFlag {
			continue
		}
		switch schema.Column(i).Type.Oid {
		case types.T_uint8:
			if len(data) < 1 {
				return nil, moerr.NewUnexpectedEOF(ctx, "row column "+schema.Column(i).Name)
			}
			row[i] = data[0]
			data = data[1:]
		case types.T_timestamp:
			if len(data) < 8 {
				return nil, moerr.NewUnexpectedEOF(ctx, "row column "+schema.Column(i).Name)
			}
			row[i] = types.Timestamp(binary.BigEndian.Uint64(data))
			data = data[8:]
		case types.T_varbinary:
			n, sz := binary.Uvarint(data)
			if sz <= 0 || uint64(len(data)-sz) < n {
				return nil, moerr.NewUnexpectedEOF(ctx, "row column "+schema.Column(i).Name)
			}
			row[i] = append([]byte{}, data[sz:sz+int(n)]...)
			data = data[sz+int(n):]
		default:
			return nil, moerr.NewInternalError(ctx, "unsupported column type %s", schema.Column(i).Type)
		}
	}
	if len(data) != 0 {
		return nil, moerr.NewInvalidInput(ctx, "%d trailing bytes after row", len(data))
	}
	return row, nil
}
