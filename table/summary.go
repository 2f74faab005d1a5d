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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes count, mean, standard deviation, min and max for every
// numeric column, one row per column. Null and non-numeric cells are skipped.
// Columns with no numeric values are omitted from the result.
func (t *Table) Summarize() *Table {
	out := NewTable("column", "count", "mean", "std", "min", "max")
	for col, name := range t.Header {
		var xs []float64
		for _, row := range t.Rows {
			if f, ok := row[col].Float(); ok {
				xs = append(xs, f)
			}
		}
		if len(xs) == 0 {
			continue
		}
		std := 0.0
		if len(xs) > 1 {
			std = stat.StdDev(xs, nil)
		}
		out.AddRow(Row{
			String(name),
			Int(int64(len(xs))),
			Number(stat.Mean(xs, nil)),
			Number(std),
			Number(floats.Min(xs)),
			Number(floats.Max(xs)),
		})
	}
	return out
}
