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

// Package cleaning turns the raw review table into a numeric table and then
// into train/test splits.
package cleaning

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrMissingColumn is returned when a column the strategy relies on is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicateColumn is returned when two column names are equal once
	// trimmed.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrEmptyDataset is returned when no row survives cleaning.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Kind tells which field of a Result is set.
type Kind int

const (
	// TableResult is produced by PreprocessStrategy.
	TableResult Kind = iota
	// SplitResult is produced by SplitStrategy.
	SplitResult
)

// Result is the output of a Strategy: either a cleaned table or a split.
type Result struct {
	Kind  Kind
	Table dataframe.DataFrame
	Split *Split
}

// Split holds the four tables produced by SplitStrategy.
type Split struct {
	XTrain dataframe.DataFrame
	XTest  dataframe.DataFrame
	YTrain series.Series
	YTest  series.Series
}

// Strategy is one way of handling a table. PreprocessStrategy and
// SplitStrategy are the only implementations.
type Strategy interface {
	Handle(df dataframe.DataFrame) (Result, error)
}

// DataCleaning applies a Strategy to a table.
type DataCleaning struct {
	Data     dataframe.DataFrame
	Strategy Strategy
}

// HandleData runs the strategy on the data.
func (c *DataCleaning) HandleData() (Result, error) {
	if c.Strategy == nil {
		return Result{}, fmt.Errorf("no cleaning strategy given")
	}
	return c.Strategy.Handle(c.Data)
}

// Table runs the strategy and requires a table result.
func (c *DataCleaning) Table() (dataframe.DataFrame, error) {
	r, err := c.HandleData()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if r.Kind != TableResult {
		return dataframe.DataFrame{}, fmt.Errorf("strategy %T does not produce a table", c.Strategy)
	}
	return r.Table, nil
}

// Split runs the strategy and requires a split result.
func (c *DataCleaning) Split() (*Split, error) {
	r, err := c.HandleData()
	if err != nil {
		return nil, err
	}
	if r.Kind != SplitResult || r.Split == nil {
		return nil, fmt.Errorf("strategy %T does not produce a split", c.Strategy)
	}
	return r.Split, nil
}
