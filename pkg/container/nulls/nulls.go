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

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// Vectors use nulls to store all NULL positions in a column.
package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	Np *roaring.Bitmap
}

func New() *Nulls {
	return &Nulls{}
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint64) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return nsp.Np.Contains(uint32(row))
}

func Add(nsp *Nulls, rows ...uint64) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	for _, row := range rows {
		nsp.Np.Add(uint32(row))
	}
}

func (nsp *Nulls) String() string {
	if nsp == nil || nsp.Np == nil {
		return "[]"
	}
	return fmt.Sprintf("%v", nsp.Np.ToArray())
}
