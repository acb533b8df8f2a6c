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
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/matrixorigin/mocatalog/pkg/container/types"
)

func TestAppend(t *testing.T) {
	convey.Convey("append typed values", t, func() {
		v := New(types.New(types.T_uint8))
		convey.So(v.Append(uint8(3)), convey.ShouldBeNil)
		convey.So(v.Append(uint8(1)), convey.ShouldBeNil)
		convey.So(v.Length(), convey.ShouldEqual, 2)
		convey.So(MustFixedCol[uint8](v), convey.ShouldResemble, []uint8{3, 1})

		convey.So(v.Append("x"), convey.ShouldNotBeNil)
		convey.So(v.Length(), convey.ShouldEqual, 2)
	})

	convey.Convey("append nulls", t, func() {
		v := New(types.New(types.T_varbinary))
		convey.So(v.Append([]byte("a")), convey.ShouldBeNil)
		convey.So(v.AppendNull(), convey.ShouldBeNil)
		convey.So(v.Append([]byte{}), convey.ShouldBeNil)

		convey.So(v.IsNull(0), convey.ShouldBeFalse)
		convey.So(v.IsNull(1), convey.ShouldBeTrue)
		convey.So(v.GetBytes(1), convey.ShouldBeNil)
		convey.So(v.GetBytes(2), convey.ShouldNotBeNil)
		convey.So(len(v.GetBytes(2)), convey.ShouldEqual, 0)
		convey.So(v.String(), convey.ShouldEqual, `["a" null ""]`)
	})

	convey.Convey("timestamps", t, func() {
		v := New(types.New(types.T_timestamp))
		convey.So(v.Append(types.TimestampFromMillis(0)), convey.ShouldBeNil)
		convey.So(v.Append(int64(1)), convey.ShouldNotBeNil)
		convey.So(v.String(), convey.ShouldEqual, "[1970-01-01 00:00:00.000]")
	})
}

func TestNewPanicsOnUnsupportedType(t *testing.T) {
	convey.Convey("unsupported type", t, func() {
		convey.So(func() { New(types.New(types.T_any)) }, convey.ShouldPanic)
	})
}
