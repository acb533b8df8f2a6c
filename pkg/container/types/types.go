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

package types

import "fmt"

type T uint8

const (
	// any family
	T_any T = 0

	// numeric family
	T_uint8 T = 25

	// date family
	T_timestamp T = 53

	// string family
	T_varbinary T = 64
)

// Type describes the storage type of a column.
type Type struct {
	Oid T
	// Size is the fixed width in bytes, 0 for variable length types.
	Size int32
}

func New(oid T) Type {
	return oid.ToType()
}

func (t T) ToType() Type {
	return Type{Oid: t, Size: int32(t.TypeLen())}
}

// TypeLen returns the fixed width of the type in bytes, 0 for variable
// length types.
func (t T) TypeLen() int {
	switch t {
	case T_uint8:
		return 1
	case T_timestamp:
		return 8
	default:
		return 0
	}
}

func (t T) FixedLength() bool {
	return t.TypeLen() > 0
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_uint8:
		return "TINYINT UNSIGNED"
	case T_timestamp:
		return "TIMESTAMP"
	case T_varbinary:
		return "VARBINARY"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

func (t T) OidString() string {
	switch t {
	case T_any:
		return "T_any"
	case T_uint8:
		return "T_uint8"
	case T_timestamp:
		return "T_timestamp"
	case T_varbinary:
		return "T_varbinary"
	}
	return "unknown_type"
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid
}
