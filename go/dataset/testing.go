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
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// TestingColumns is the header of the CSV produced by TestingRecords.
var TestingColumns = []string{
	"order_purchase_timestamp",
	"product_weight_g",
	"product_length_cm",
	"product_height_cm",
	"product_width_cm",
	"review_comment_message",
	"custumer_zip_code_prefix",
	"order_item_id",
	"review_score",
}

// TestingRecords returns a header row followed by n fully populated rows of
// order reviews. The content is deterministic so that tests can compare
// runs.
func TestingRecords(n int) [][]string {
	records := [][]string{append([]string{}, TestingColumns...)}
	for i := 0; i < n; i++ {
		weight := 100 + (i*37)%900
		length := 10 + (i*13)%50
		height := 2 + (i*7)%30
		width := 5 + (i*11)%40
		score := 1 + (weight/250+length/20+i%3)%5
		records = append(records, []string{
			fmt.Sprintf("2018-%02d-%02d 10:%02d:00", 1+i%12, 1+i%28, i%60),
			fmt.Sprint(weight),
			fmt.Sprint(length),
			fmt.Sprint(height),
			fmt.Sprint(width),
			fmt.Sprintf("review number %d", i),
			fmt.Sprint(10000 + i*17),
			fmt.Sprint(1 + i%3),
			fmt.Sprint(score),
		})
	}
	return records
}

// WriteCSV writes records to dir/name and returns the file path.
func WriteCSV(dir, name string, records [][]string) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return path, f.Close()
}

// WriteXLSX writes records to the first sheet of a new workbook dir/name and
// returns the file path.
func WriteXLSX(dir, name string, records [][]string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range records {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
