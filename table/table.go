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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// cellKind enumerates the value types a Cell can hold.
type cellKind uint8

const (
	nullKind cellKind = iota
	stringKind
	numberKind
	boolKind
	intKind
	dateKind
	timeKind
)

// Cell is a single table value: a string, a number, a bool, an integer, a
// Date, a Time, or null. The zero value is null.
type Cell struct {
	kind    cellKind
	str     string
	number  float64
	integer int64
	boolean bool
	date    Date
	time    Time
}

// Null creates a null Cell, same as the zero value.
func Null() Cell { return Cell{} }

// String creates a string Cell.
func String(s string) Cell { return Cell{kind: stringKind, str: s} }

// Number creates a floating point Cell.
func Number(n float64) Cell { return Cell{kind: numberKind, number: n} }

// Int creates an integer Cell.
func Int(n int64) Cell { return Cell{kind: intKind, integer: n} }

// Bool creates a boolean Cell.
func Bool(b bool) Cell { return Cell{kind: boolKind, boolean: b} }

// DateCell creates a Cell holding a calendar date.
func DateCell(d Date) Cell { return Cell{kind: dateKind, date: d} }

// TimeCell creates a Cell holding a full timestamp.
func TimeCell(t Time) Cell { return Cell{kind: timeKind, time: t} }

// IsNull checks whether the Cell holds no value.
func (c Cell) IsNull() bool { return c.kind == nullKind }

// Float returns the Cell's numeric value. The second value is false for
// non-numeric cells. Integer cells convert to float64.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case numberKind:
		return c.number, true
	case intKind:
		return float64(c.integer), true
	}
	return 0.0, false
}

// String renders the Cell's value for text and CSV output. Null renders as an
// empty string.
func (c Cell) String() string {
	switch c.kind {
	case stringKind:
		return c.str
	case numberKind:
		return strconv.FormatFloat(c.number, 'g', -1, 64)
	case boolKind:
		return strconv.FormatBool(c.boolean)
	case intKind:
		return strconv.FormatInt(c.integer, 10)
	case dateKind:
		return c.date.String()
	case timeKind:
		return c.time.String()
	}
	return ""
}

// Row is an ordered sequence of cells, one per table column.
type Row []Cell

// CSV is an encoding/csv compatible representation of the Row.
func (r Row) CSV() []string {
	res := make([]string, len(r))
	for i, c := range r {
		res[i] = c.String()
	}
	return res
}

// Table is a dynamically shaped tabular result: a list of column names and
// rows of cells. Each Row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   []Row
}

// NewTable creates a new Table instance with optional column names.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Column returns the index of the named column, or -1 when absent.
func (t *Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// cellFromJSON converts a generic JSON value, as decoded by encoding/json,
// into a Cell. Nested objects and arrays keep their JSON text as a string.
func cellFromJSON(v interface{}) Cell {
	switch v2 := v.(type) {
	case nil:
		return Null()
	case string:
		return String(v2)
	case float64:
		return Number(v2)
	case bool:
		return Bool(v2)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return String(fmt.Sprintf("%v", v))
	}
	return String(string(b))
}

// FromRecords flattens a sequence of JSON objects into a Table. The column
// set is the union of all observed field names, ordered by the record that
// first mentions them (alphabetically within a record, since JSON objects
// decode into unordered maps). Fields missing from a record become null cells
// in its row. Row order follows the record order.
func FromRecords(records []map[string]interface{}) *Table {
	t := NewTable()
	index := make(map[string]int)
	for _, rec := range records {
		keys := maps.Keys(rec)
		slices.Sort(keys)
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(t.Header)
				t.Header = append(t.Header, k)
			}
		}
	}
	for _, rec := range records {
		row := make(Row, len(t.Header))
		for k, v := range rec {
			row[index[k]] = cellFromJSON(v)
		}
		t.AddRow(row)
	}
	return t
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var widths []int
	update := func(row []string) error {
		if len(row) == 0 {
			return errors.Reason("row size = 0")
		}
		if len(widths) == 0 {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
		return nil
	}

	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	dashedRow := func() []string {
		row := make([]string, len(widths))
		for i, w := range widths {
			row[i] = strings.Repeat("-", w)
		}
		return row
	}

	if !p.NoHeader && len(t.Header) > 0 {
		if err := update(t.Header); err != nil {
			return errors.Annotate(err, "failed to update header widths")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := update(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to update row widths")
		}
	}

	if !p.NoHeader && len(t.Header) > 0 {
		if err := write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		if err := write(dashedRow()); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i, r := range t.Rows {
		if p.Rows > 0 && i >= p.Rows {
			break
		}
		if err := write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
