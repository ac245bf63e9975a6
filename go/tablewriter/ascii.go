// Copyright 2020 The SQLFlow Authors. All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tablewriter renders pipeline results, such as metrics and
// coefficients, as tables.
package tablewriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// TableWriter writes a table in some format. For example:
//
// table, _ := tablewriter.Create("ascii", 1024, os.Stdout)
// table.SetHeader(map[string]interface{}{"columnNames": []string{"metric", "value"}})
// table.AppendRow([]interface{}{"MSE", 0.31})
// if e := table.Flush(); e != nil {
//   log.Fatal(e)
// }
//
type TableWriter interface {
	SetHeader(map[string]interface{}) error
	AppendRow([]interface{}) error
	Flush() error
	FlushWithError(error) error
}

// Create returns a TableWriter instance. Only "ascii" is supported.
func Create(name string, bufSize int, w io.Writer) (TableWriter, error) {
	if name == "ascii" {
		return createASCIIWriter(bufSize, w), nil
	}
	return nil, fmt.Errorf("unsupported tablewriter: %s", name)
}

// Render writes one complete ASCII table with the given columns and rows.
func Render(w io.Writer, columns []string, rows [][]interface{}) error {
	t := createASCIIWriter(len(rows)+1, w)
	if err := t.SetHeader(map[string]interface{}{"columnNames": columns}); err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) != len(columns) {
			return fmt.Errorf("row %v has %d cells, want %d", row, len(row), len(columns))
		}
		if err := t.AppendRow(row); err != nil {
			return err
		}
	}
	return t.Flush()
}

// ASCIIWriter write table as ASCII format
type ASCIIWriter struct {
	table   *tablewriter.Table
	bufSize int
	w       io.Writer
}

func createASCIIWriter(bufSize int, w io.Writer) *ASCIIWriter {
	return &ASCIIWriter{
		table:   tablewriter.NewWriter(w),
		bufSize: bufSize,
		w:       w,
	}
}

// SetHeader sets the column names given under the "columnNames" key.
func (t *ASCIIWriter) SetHeader(head map[string]interface{}) error {
	cn, ok := head["columnNames"]
	if !ok {
		return fmt.Errorf("can't find field columnNames in head")
	}
	cols, ok := cn.([]string)
	if !ok {
		return fmt.Errorf("invalid header type %T", cn)
	}
	t.table.SetHeader(cols)
	return nil
}

// AppendRow append row data. Floats keep six significant digits. Rows are
// rendered every bufSize lines.
func (t *ASCIIWriter) AppendRow(row []interface{}) error {
	s := make([]string, 0, len(row))
	for _, d := range row {
		s = append(s, formatCell(d))
	}
	t.table.Append(s)
	if t.table.NumLines() >= t.bufSize {
		t.table.Render()
		t.table.ClearRows()
	}
	return nil
}

// FlushWithError flushes the buffer and end with the error message
func (t *ASCIIWriter) FlushWithError(e error) error {
	if e := t.Flush(); e != nil {
		return e
	}
	_, e = t.w.Write([]byte(fmt.Sprintf("%v\n", e)))
	return e
}

// Flush the buffer
func (t *ASCIIWriter) Flush() error {
	if t.table.NumLines() > 0 {
		t.table.Render()
		t.table.ClearRows()
	}
	return nil
}

func formatCell(d interface{}) string {
	switch v := d.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', 6, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 6, 32)
	}
	return fmt.Sprint(d)
}
