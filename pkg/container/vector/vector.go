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

package vector

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matrixorigin/mocatalog/pkg/common/moerr"
	"github.com/matrixorigin/mocatalog/pkg/container/nulls"
	"github.com/matrixorigin/mocatalog/pkg/container/types"
)

// Vector represent a column
type Vector struct {
	Typ types.Type
	// Col is []uint8, []types.Timestamp or [][]byte depending on Typ
	Col any
	// Nsp is the set of NULL positions
	Nsp *nulls.Nulls
}

// New returns an empty vector of typ.
func New(typ types.Type) *Vector {
	v := &Vector{Typ: typ, Nsp: nulls.New()}
	switch typ.Oid {
	case types.T_uint8:
		v.Col = []uint8{}
	case types.T_timestamp:
		v.Col = []types.Timestamp{}
	case types.T_varbinary:
		v.Col = [][]byte{}
	default:
		panic(moerr.NewInternalError(context.Background(), "unsupported vector type %s", typ))
	}
	return v
}

func NewWithUint8s(vs []uint8) *Vector {
	return &Vector{Typ: types.New(types.T_uint8), Col: vs, Nsp: nulls.New()}
}

func NewWithTimestamps(vs []types.Timestamp) *Vector {
	return &Vector{Typ: types.New(types.T_timestamp), Col: vs, Nsp: nulls.New()}
}

func NewWithBytes(vs [][]byte) *Vector {
	return &Vector{Typ: types.New(types.T_varbinary), Col: vs, Nsp: nulls.New()}
}

// MustFixedCol returns the column data of a fixed length vector.
func MustFixedCol[T any](v *Vector) []T {
	return v.Col.([]T)
}

func (v *Vector) Length() int {
	switch col := v.Col.(type) {
	case []uint8:
		return len(col)
	case []types.Timestamp:
		return len(col)
	case [][]byte:
		return len(col)
	}
	return 0
}

// Append appends a value of the vector's element type.
func (v *Vector) Append(w any) error {
	switch col := v.Col.(type) {
	case []uint8:
		x, ok := w.(uint8)
		if !ok {
			return v.typeMismatch(w)
		}
		v.Col = append(col, x)
	case []types.Timestamp:
		x, ok := w.(types.Timestamp)
		if !ok {
			return v.typeMismatch(w)
		}
		v.Col = append(col, x)
	case [][]byte:
		x, ok := w.([]byte)
		if !ok {
			return v.typeMismatch(w)
		}
		v.Col = append(col, x)
	default:
		return moerr.NewInternalError(context.Background(), "unexpected vector column %T", v.Col)
	}
	return nil
}

// AppendNull appends a NULL cell.
func (v *Vector) AppendNull() error {
	row := uint64(v.Length())
	switch col := v.Col.(type) {
	case []uint8:
		v.Col = append(col, 0)
	case []types.Timestamp:
		v.Col = append(col, 0)
	case [][]byte:
		v.Col = append(col, nil)
	default:
		return moerr.NewInternalError(context.Background(), "unexpected vector column %T", v.Col)
	}
	nulls.Add(v.Nsp, row)
	return nil
}

func (v *Vector) typeMismatch(w any) error {
	return moerr.NewInvalidInput(context.Background(), "cannot append %T to %s vector", w, v.Typ)
}

func (v *Vector) IsNull(i int) bool {
	return nulls.Contains(v.Nsp, uint64(i))
}

// GetBytes returns the i-th cell of a varbinary vector, nil when NULL.
func (v *Vector) GetBytes(i int) []byte {
	if v.IsNull(i) {
		return nil
	}
	return v.Col.([][]byte)[i]
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteString("[")
	hasNulls := nulls.Any(v.Nsp)
	for i := 0; i < v.Length(); i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		if hasNulls && v.IsNull(i) {
			buf.WriteString("null")
			continue
		}
		switch col := v.Col.(type) {
		case []uint8:
			fmt.Fprintf(&buf, "%d", col[i])
		case []types.Timestamp:
			buf.WriteString(col[i].String())
		case [][]byte:
			fmt.Fprintf(&buf, "%q", col[i])
		}
	}
	buf.WriteString("]")
	return buf.String()
}
