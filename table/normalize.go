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
	"strconv"
	"strings"
	"time"
	"unicode"
)

// SnakeCase converts a camelCase-ish name to snake_case: a separator is
// inserted between a lowercase letter and the uppercase letter immediately
// following it, and the result is lowercased. Runs of uppercase letters (NYSE)
// have no internal boundary and lowercase as a whole. The function is
// idempotent.
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsLower(runes[i-1]) && unicode.IsUpper(r) {
			b.WriteRune('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// NormalizeNames renames all columns to snake_case. Row data and row order
// are not affected.
func (t *Table) NormalizeNames() {
	for i, name := range t.Header {
		t.Header[i] = SnakeCase(name)
	}
}

// CoerceTypes applies heuristic type coercion based on the (already
// normalized, snake_case) column names:
//
//   - columns whose name contains "calendar_year" become integer columns;
//     values that fail to parse become null;
//   - columns whose name contains "date" become Date columns when no value in
//     the column carries a time-of-day component, and Time columns otherwise.
//
// The date/time precision choice is column-wide: a single value with a
// non-midnight clock keeps full timestamps for every row in that column. All
// other columns are left untouched.
func (t *Table) CoerceTypes() {
	for col, name := range t.Header {
		switch {
		case strings.Contains(name, "calendar_year"):
			t.coerceInt(col)
		case strings.Contains(name, "date"):
			t.coerceDate(col)
		}
	}
}

// coerceInt converts the column's values to integer cells.
func (t *Table) coerceInt(col int) {
	for _, row := range t.Rows {
		row[col] = intCell(row[col])
	}
}

func intCell(c Cell) Cell {
	switch c.kind {
	case intKind:
		return c
	case numberKind:
		return Int(int64(c.number))
	case stringKind:
		if n, err := strconv.ParseInt(strings.TrimSpace(c.str), 10, 64); err == nil {
			return Int(n)
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(c.str), 64); err == nil {
			return Int(int64(f))
		}
	}
	return Null()
}

// coerceDate parses the column's values as UTC timestamps, then stores them
// as Date cells when every parsed value is at midnight, and as Time cells
// otherwise. Unparseable values become null.
func (t *Table) coerceDate(col int) {
	parsed := make([]*time.Time, len(t.Rows))
	fullTime := false
	for i, row := range t.Rows {
		tm, ok := parseCellTime(row[col])
		if !ok {
			continue
		}
		parsed[i] = &tm
		if hasClock(tm) {
			fullTime = true
		}
	}
	for i, row := range t.Rows {
		if parsed[i] == nil {
			row[col] = Null()
			continue
		}
		if fullTime {
			row[col] = TimeCell(Time(*parsed[i]))
		} else {
			row[col] = DateCell(NewDateFromTime(*parsed[i]))
		}
	}
}

func parseCellTime(c Cell) (time.Time, bool) {
	switch c.kind {
	case stringKind:
		tm, err := ParseTime(c.str)
		if err != nil {
			return time.Time{}, false
		}
		return tm, true
	case dateKind:
		return c.date.ToTime(), true
	case timeKind:
		return time.Time(c.time), true
	}
	return time.Time{}, false
}

// hasClock checks for a non-midnight time-of-day component.
func hasClock(t time.Time) bool {
	h, m, s := t.Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}
