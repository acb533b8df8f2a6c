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

import (
	gotime "time"
)

// Timestamp is a point in time as milliseconds since the unix epoch, UTC.
type Timestamp int64

const timestampLayout = "2006-01-02 15:04:05.000"

func TimestampFromMillis(ms int64) Timestamp {
	return Timestamp(ms)
}

func (ts Timestamp) Millis() int64 {
	return int64(ts)
}

func (ts Timestamp) ToTime() gotime.Time {
	return gotime.UnixMilli(int64(ts)).UTC()
}

func (ts Timestamp) String() string {
	return ts.ToTime().Format(timestampLayout)
}

// CurrentTimestamp returns the wall clock time truncated to milliseconds.
func CurrentTimestamp() Timestamp {
	return Timestamp(gotime.Now().UnixMilli())
}
