// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	t.Parallel()

	Convey("ParseTime accepts the API's timestamp layouts as UTC", t, func() {
		for _, s := range []string{
			"2024-11-01 06:01:36",
			"2024-11-01T06:01:36",
			"2024-11-01 06:01:36.123",
			"2024-11-01T06:01:36.123",
			"2024-11-01T06:01:36.123Z",
		} {
			tm, err := ParseTime(s)
			So(err, ShouldBeNil)
			So(tm.Location(), ShouldEqual, time.UTC)
			So(tm.Hour(), ShouldEqual, 6)
		}

		tm, err := ParseTime("2024-11-01")
		So(err, ShouldBeNil)
		So(tm, ShouldResemble, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC))

		_, err = ParseTime("01/11/2024")
		So(err, ShouldNotBeNil)
	})

	Convey("Date", t, func() {
		d := NewDate(2023, 12, 31)

		Convey("string and JSON round trip", func() {
			So(d.String(), ShouldEqual, "2023-12-31")
			js, err := json.Marshal(d)
			So(err, ShouldBeNil)
			So(string(js), ShouldEqual, `"2023-12-31"`)
			var d2 Date
			So(json.Unmarshal(js, &d2), ShouldBeNil)
			So(d2, ShouldResemble, d)
		})

		Convey("from a timestamp string", func() {
			d2, err := NewDateFromString("2023-12-31 06:01:36")
			So(err, ShouldBeNil)
			So(d2, ShouldResemble, d)
			_, err = NewDateFromString("eventually")
			So(err, ShouldNotBeNil)
		})

		Convey("comparisons", func() {
			So(NewDate(2023, 1, 2).Before(d), ShouldBeTrue)
			So(d.After(NewDate(2023, 1, 2)), ShouldBeTrue)
			So(d.Before(d), ShouldBeFalse)
			So(Date{}.IsZero(), ShouldBeTrue)
			So(d.IsZero(), ShouldBeFalse)
		})
	})

	Convey("Time", t, func() {
		tm := NewTime(2024, 11, 1, 6, 1, 36)
		So(tm.String(), ShouldEqual, "2024-11-01 06:01:36")
		js, err := json.Marshal(&tm)
		So(err, ShouldBeNil)
		So(string(js), ShouldEqual, `"2024-11-01 06:01:36"`)
		var tm2 Time
		So(json.Unmarshal(js, &tm2), ShouldBeNil)
		So(tm2, ShouldResemble, tm)
	})
}
