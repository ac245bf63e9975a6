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

package cleaning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"sqlflow.org/reviewflow/go/dataset"
)

// CommentFill replaces missing review comments.
const CommentFill = "No comment"

var (
	// DateColumns are the order timestamps, dropped when present.
	DateColumns = []string{
		"order_purchase_timestamp",
		"order_approved_at",
		"order_delivered_carrier_date",
		"order_delivered_customer_date",
		"order_estimated_delivery_date",
	}
	// IDColumns are numeric identifiers that carry no signal, dropped when present.
	IDColumns = []string{"custumer_zip_code_prefix", "order_item_id"}
	// MedianColumns are imputed with their median and must be present.
	MedianColumns = []string{"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm"}
	// CommentColumn is imputed with CommentFill and must be present.
	CommentColumn = "review_comment_message"
)

// PreprocessStrategy drops the date and identifier columns, imputes the
// product measurements and the comment, drops the rows that still have a
// missing value and keeps the numeric columns only.
//
// Imputation runs before the row drop, so a row whose only gap is in an
// imputed column is kept.
type PreprocessStrategy struct{}

// Handle implements Strategy. df itself is left untouched.
func (PreprocessStrategy) Handle(df dataframe.DataFrame) (Result, error) {
	df, err := trimColumnNames(df.Copy())
	if err != nil {
		return Result{}, err
	}
	df = dropIfPresent(df, DateColumns, IDColumns)
	if df.Err != nil {
		return Result{}, df.Err
	}

	for _, name := range MedianColumns {
		if !dataset.HasColumn(df, name) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		filled, changed, err := fillMedian(df.Col(name))
		if err != nil {
			return Result{}, err
		}
		if changed {
			df = df.Mutate(filled)
		}
	}
	if !dataset.HasColumn(df, CommentColumn) {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingColumn, CommentColumn)
	}
	df = df.Mutate(fillConstant(df.Col(CommentColumn), CommentFill))
	if df.Err != nil {
		return Result{}, df.Err
	}

	df, err = dropMissingRows(df)
	if err != nil {
		return Result{}, err
	}
	df, err = selectNumeric(df)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: TableResult, Table: df}, nil
}

func trimColumnNames(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	seen := map[string]string{}
	for _, name := range df.Names() {
		trimmed := strings.TrimSpace(name)
		if other, ok := seen[trimmed]; ok {
			return df, fmt.Errorf("%w: %q and %q are both %s", ErrDuplicateColumn, other, name, trimmed)
		}
		seen[trimmed] = name
	}
	for _, name := range df.Names() {
		if trimmed := strings.TrimSpace(name); trimmed != name {
			df = df.Rename(trimmed, name)
		}
	}
	return df, df.Err
}

func dropIfPresent(df dataframe.DataFrame, groups ...[]string) dataframe.DataFrame {
	drop := []string{}
	for _, group := range groups {
		for _, name := range group {
			if dataset.HasColumn(df, name) {
				drop = append(drop, name)
			}
		}
	}
	if len(drop) == 0 {
		return df
	}
	return df.Drop(drop)
}

// fillMedian replaces the missing values of a numeric column with the median
// of the others. A column without any value is returned unchanged.
func fillMedian(s series.Series) (series.Series, bool, error) {
	if !dataset.IsNumeric(s.Type()) {
		return s, false, fmt.Errorf("column %s is of type %s, cannot impute a median", s.Name, s.Type())
	}
	values := s.Float()
	present := make([]float64, 0, len(values))
	missing := 0
	for i, v := range values {
		if s.Elem(i).IsNA() {
			missing++
			continue
		}
		present = append(present, v)
	}
	if missing == 0 || len(present) == 0 {
		return s, false, nil
	}
	m := median(present)
	for i := range values {
		if s.Elem(i).IsNA() {
			values[i] = m
		}
	}
	return series.New(values, series.Float, s.Name), true, nil
}

func fillConstant(s series.Series, fill string) series.Series {
	records := s.Records()
	for i := range records {
		if dataset.IsMissing(s.Elem(i)) {
			records[i] = fill
		}
	}
	return series.New(records, series.String, s.Name)
}

func median(x []float64) float64 {
	sorted := append([]float64{}, x...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func dropMissingRows(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}
	keep := make([]int, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		complete := true
		for _, c := range cols {
			if dataset.IsMissing(c.Elem(i)) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return df, fmt.Errorf("%w: every row has a missing value", ErrEmptyDataset)
	}
	if len(keep) == df.Nrow() {
		return df, nil
	}
	df = df.Subset(keep)
	return df, df.Err
}

func selectNumeric(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	numeric := []string{}
	types := df.Types()
	for j, name := range df.Names() {
		if dataset.IsNumeric(types[j]) {
			numeric = append(numeric, name)
		}
	}
	if len(numeric) == 0 {
		return df, fmt.Errorf("%w: no numeric column", ErrEmptyDataset)
	}
	df = df.Select(numeric)
	return df, df.Err
}
