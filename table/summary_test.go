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
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	Convey("Summarize", t, func() {
		Convey("computes stats over numeric cells only", func() {
			tbl := NewTable("symbol", "price", "volume")
			tbl.AddRow(
				Row{String("ABCX.US"), Number(10.0), Int(100)},
				Row{String("GLOTECH.TO"), Number(20.0), Null()},
				Row{String("THIRD.L"), Number(30.0), Int(300)},
			)
			s := tbl.Summarize()
			So(s.Header, ShouldResemble,
				[]string{"column", "count", "mean", "std", "min", "max"})
			So(s.Rows, ShouldResemble, []Row{
				{String("price"), Int(3), Number(20.0), Number(10.0),
					Number(10.0), Number(30.0)},
				{String("volume"), Int(2), Number(200.0), Number(math.Sqrt(20000)),
					Number(100.0), Number(300.0)},
			})
		})

		Convey("single sample has zero deviation", func() {
			tbl := NewTable("price")
			tbl.AddRow(Row{Number(152.35)})
			s := tbl.Summarize()
			So(s.Rows, ShouldResemble, []Row{
				{String("price"), Int(1), Number(152.35), Number(0.0),
					Number(152.35), Number(152.35)},
			})
		})

		Convey("non-numeric table summarizes to no rows", func() {
			tbl := NewTable("symbol")
			tbl.AddRow(Row{String("ABCX.US")})
			So(len(tbl.Summarize().Rows), ShouldEqual, 0)
		})
	})
}
