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

package batch

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/mocatalog/pkg/container/vector"
)

// Batch represents a part of a relationship
//
//	(Attrs) - list of attributes
//	(Vecs)  - columns
type Batch struct {
	// Attrs column name list
	Attrs []string
	// Vecs col data
	Vecs []*vector.Vector
}

func New(attrs []string) *Batch {
	return &Batch{
		Attrs: attrs,
		Vecs:  make([]*vector.Vector, len(attrs)),
	}
}

// Length returns the row count, taken from the first column.
func (bat *Batch) Length() int {
	if bat == nil || len(bat.Vecs) == 0 || bat.Vecs[0] == nil {
		return 0
	}
	return bat.Vecs[0].Length()
}

// GetVector returns the column named attr, or nil.
func (bat *Batch) GetVector(attr string) *vector.Vector {
	for i, name := range bat.Attrs {
		if name == attr {
			return bat.Vecs[i]
		}
	}
	return nil
}

func (bat *Batch) String() string {
	var buf bytes.Buffer
	for i, vec := range bat.Vecs {
		fmt.Fprintf(&buf, "%s: %v\n", bat.Attrs[i], vec)
	}
	return buf.String()
}
