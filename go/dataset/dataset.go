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

// Package dataset loads the raw review table from CSV and converts gota
// columns into the float data the models consume.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"
)

// NaNValues are the cell values read as missing, the same tokens pandas
// recognises by default. Blank cells are handled by IsMissing.
var NaNValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "<nil>", "N/A", "NA", "NULL", "NaN",
	"None", "n/a", "nan", "null",
}

// Ingest reads the CSV file at path into a DataFrame. Files ending in .xlsx
// are read from their first sheet instead. Column types are detected from
// the content; no schema is enforced here.
func Ingest(path string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingestXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("cannot open dataset %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.NaNValues(NaNValues))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("cannot parse dataset %s: %w", path, df.Err)
	}
	return df, nil
}

// Fingerprint returns the hex sha256 of the file content at path.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsMissing reports whether e holds no value. gota only marks NaN-like
// tokens as NA, so blank strings are treated as missing as well.
func IsMissing(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	return e.Type() == series.String && strings.TrimSpace(e.String()) == ""
}

// IsNumeric reports whether columns of type t hold numbers.
func IsNumeric(t series.Type) bool {
	return t == series.Int || t == series.Float
}

// HasColumn reports whether df has a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Floats converts a numeric series without missing values to float64.
func Floats(s series.Series) ([]float64, error) {
	if !IsNumeric(s.Type()) {
		return nil, fmt.Errorf("column %s is of type %s, not numeric", s.Name, s.Type())
	}
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			return nil, fmt.Errorf("column %s has a missing value at row %d", s.Name, i)
		}
	}
	return s.Float(), nil
}

// Matrix copies the named columns of df into a rows x len(columns) matrix,
// in the order given.
func Matrix(df dataframe.DataFrame, columns []string) (*mat.Dense, error) {
	rows := df.Nrow()
	if rows == 0 || len(columns) == 0 {
		return nil, fmt.Errorf("cannot build a %dx%d matrix", rows, len(columns))
	}
	m := mat.NewDense(rows, len(columns), nil)
	for j, name := range columns {
		if !HasColumn(df, name) {
			return nil, fmt.Errorf("column %s not found", name)
		}
		col, err := Floats(df.Col(name))
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			m.Set(i, j, v)
		}
	}
	return m, nil
}
