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
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// ingestXLSX loads the first sheet of an Excel workbook. The first row is
// the header.
func ingestXLSX(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("cannot open dataset %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataset %s has no sheet", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("cannot read sheet %s of %s: %w", sheets[0], path, err)
	}
	if len(rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("dataset %s has no data row", path)
	}
	// GetRows drops trailing empty cells
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row[:width]
	}
	df := dataframe.LoadRecords(rows, dataframe.NaNValues(NaNValues))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("cannot parse dataset %s: %w", path, df.Err)
	}
	return df, nil
}
