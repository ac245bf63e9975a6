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

// Package model trains regression models on the cleaned review table and
// saves them as model_meta.json.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"sqlflow.org/reviewflow/go/attribute"
)

// ErrUnsupportedModel matches every *UnsupportedModelError.
var ErrUnsupportedModel = errors.New("unsupported model")

// UnsupportedModelError is returned by New for a name that is not registered.
type UnsupportedModelError struct {
	Name string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model %q, supported models are: %s", e.Name, strings.Join(Names(), ", "))
}

// Is makes errors.Is(err, ErrUnsupportedModel) true.
func (e *UnsupportedModelError) Is(target error) bool {
	return target == ErrUnsupportedModel
}

// Model fits a Predictor on a feature table and a label column.
type Model interface {
	Name() string
	// Attributes declares the options Train accepts.
	Attributes() attribute.Dictionary
	Train(x dataframe.DataFrame, y series.Series, attrs map[string]interface{}) (Predictor, error)
}

// Predictor is a fitted model.
type Predictor interface {
	Predict(x dataframe.DataFrame) ([]float64, error)
}

var registry = map[string]func() Model{
	LinearRegressionName: func() Model { return &LinearRegressionModel{} },
}

// New returns the model registered under name. Names are matched exactly.
func New(name string) (Model, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, &UnsupportedModelError{Name: name}
	}
	return ctor(), nil
}

// Names lists the registered model names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
