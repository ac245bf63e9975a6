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

package dataset

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
)

func TestIngest(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "reviewflow_dataset")
	a.NoError(err)
	defer os.RemoveAll(dir)

	path, err := WriteCSV(dir, "reviews.csv", TestingRecords(10))
	a.NoError(err)
	df, err := Ingest(path)
	a.NoError(err)
	a.Equal(10, df.Nrow())
	a.Equal(TestingColumns, df.Names())
	a.Equal(series.String, df.Col("order_purchase_timestamp").Type())
	a.Equal(series.Int, df.Col("product_weight_g").Type())
	a.Equal(series.String, df.Col("review_comment_message").Type())

	_, err = Ingest(filepath.Join(dir, "no_such_file.csv"))
	a.Error(err)
}

func TestIngestXLSX(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "reviewflow_dataset")
	a.NoError(err)
	defer os.RemoveAll(dir)

	records := TestingRecords(8)
	// a blank trailing cell
	records[3][len(TestingColumns)-1] = ""
	path, err := WriteXLSX(dir, "reviews.xlsx", records)
	a.NoError(err)
	df, err := Ingest(path)
	a.NoError(err)
	a.Equal(8, df.Nrow())
	a.Equal(TestingColumns, df.Names())
	a.Equal(series.Int, df.Col("product_width_cm").Type())
	a.True(IsMissing(df.Col("review_score").Elem(2)))

	_, err = Ingest(filepath.Join(dir, "no_such_file.xlsx"))
	a.Error(err)
	path, err = WriteXLSX(dir, "header_only.xlsx", records[:1])
	a.NoError(err)
	_, err = Ingest(path)
	a.Error(err)
}

func TestIngestNaNValues(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "reviewflow_dataset")
	a.NoError(err)
	defer os.RemoveAll(dir)

	records := TestingRecords(6)
	records[1][1] = "NULL"
	records[2][1] = "N/A"
	records[3][1] = "null"
	records[4][5] = "None"
	path, err := WriteCSV(dir, "reviews.csv", records)
	a.NoError(err)
	df, err := Ingest(path)
	a.NoError(err)
	a.Equal(series.Int, df.Col("product_weight_g").Type())
	for i := 0; i < 3; i++ {
		a.True(IsMissing(df.Col("product_weight_g").Elem(i)))
	}
	a.False(IsMissing(df.Col("product_weight_g").Elem(3)))
	a.True(IsMissing(df.Col("review_comment_message").Elem(3)))

	path, err = WriteXLSX(dir, "reviews.xlsx", records)
	a.NoError(err)
	df, err = Ingest(path)
	a.NoError(err)
	a.Equal(series.Int, df.Col("product_weight_g").Type())
	a.True(IsMissing(df.Col("product_weight_g").Elem(0)))
}

func TestFingerprint(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "reviewflow_dataset")
	a.NoError(err)
	defer os.RemoveAll(dir)

	p1, err := WriteCSV(dir, "a.csv", TestingRecords(5))
	a.NoError(err)
	p2, err := WriteCSV(dir, "b.csv", TestingRecords(5))
	a.NoError(err)
	p3, err := WriteCSV(dir, "c.csv", TestingRecords(6))
	a.NoError(err)

	f1, err := Fingerprint(p1)
	a.NoError(err)
	f2, err := Fingerprint(p2)
	a.NoError(err)
	f3, err := Fingerprint(p3)
	a.NoError(err)
	a.Equal(f1, f2)
	a.NotEqual(f1, f3)
	a.Len(f1, 64)

	_, err = Fingerprint(filepath.Join(dir, "missing.csv"))
	a.Error(err)
}

func TestIsMissing(t *testing.T) {
	a := assert.New(t)
	df := dataframe.LoadRecords([][]string{
		{"n", "s"},
		{"1", "text"},
		{"NaN", " "},
	})
	a.NoError(df.Err)
	a.False(IsMissing(df.Col("n").Elem(0)))
	a.True(IsMissing(df.Col("n").Elem(1)))
	a.False(IsMissing(df.Col("s").Elem(0)))
	a.True(IsMissing(df.Col("s").Elem(1)))
}

func TestFloatsAndMatrix(t *testing.T) {
	a := assert.New(t)
	df := dataframe.LoadRecords([][]string{
		{"x1", "x2", "name", "gap"},
		{"1", "0.5", "a", "1"},
		{"2", "1.5", "b", "NaN"},
		{"3", "2.5", "c", "3"},
	})
	a.NoError(df.Err)
	a.True(IsNumeric(df.Col("x1").Type()))
	a.False(IsNumeric(df.Col("name").Type()))

	v, err := Floats(df.Col("x2"))
	a.NoError(err)
	a.Equal([]float64{0.5, 1.5, 2.5}, v)
	_, err = Floats(df.Col("name"))
	a.Error(err)
	_, err = Floats(df.Col("gap"))
	a.Error(err)

	m, err := Matrix(df, []string{"x2", "x1"})
	a.NoError(err)
	r, c := m.Dims()
	a.Equal(3, r)
	a.Equal(2, c)
	a.Equal(2.5, m.At(2, 0))
	a.Equal(3.0, m.At(2, 1))

	_, err = Matrix(df, []string{"x3"})
	a.Error(err)
	_, err = Matrix(df, nil)
	a.Error(err)
	a.True(HasColumn(df, "gap"))
	a.False(HasColumn(df, "x3"))
}
