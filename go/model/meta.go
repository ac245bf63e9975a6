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

package model

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bitly/go-simplejson"
)

const modelMetaFileName = "model_meta.json"

// Meta is the content of a model_meta.json file.
type Meta struct {
	*simplejson.Json
}

// GetMetaAsString return specified metadata as string
func (m *Meta) GetMetaAsString(key string) string {
	if m == nil || m.Json == nil {
		return ""
	}
	return m.Get(key).MustString()
}

// Evaluation returns the metrics stored with the model.
func (m *Meta) Evaluation() map[string]float64 {
	metrics := map[string]float64{}
	for k := range m.Get("evaluation").MustMap() {
		if v, err := m.Get("evaluation").Get(k).Float64(); err == nil {
			metrics[k] = v
		}
	}
	return metrics
}

// Save writes the fitted model and its evaluation metrics to
// dir/model_meta.json, creating dir if needed. It returns the file path.
func (m *LinearRegression) Save(dir string, evaluation map[string]float64) (string, error) {
	meta := simplejson.New()
	meta.Set("estimator", LinearRegressionName)
	meta.Set("features", m.Features)
	meta.Set("coefficients", m.Coefficients)
	meta.Set("intercept", m.Intercept)
	meta.Set("attributes", m.Attributes)
	meta.Set("evaluation", evaluation)
	data, err := meta.EncodePretty()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, modelMetaFileName)
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("cannot write model meta: %w", err)
	}
	return path, nil
}

// Load reads dir/model_meta.json back into a LinearRegression.
func Load(dir string) (*LinearRegression, *Meta, error) {
	meta, err := loadMeta(filepath.Join(dir, modelMetaFileName))
	if err != nil {
		return nil, nil, err
	}
	if estimator := meta.GetMetaAsString("estimator"); estimator != LinearRegressionName {
		return nil, nil, &UnsupportedModelError{Name: estimator}
	}
	features, err := meta.Get("features").StringArray()
	if err != nil {
		return nil, nil, fmt.Errorf("model meta features: %w", err)
	}
	coefs := meta.Get("coefficients")
	n := len(coefs.MustArray())
	if n != len(features) {
		return nil, nil, fmt.Errorf("model meta has %d features but %d coefficients", len(features), n)
	}
	m := &LinearRegression{
		Features:     features,
		Coefficients: make([]float64, n),
		Attributes:   map[string]interface{}{},
	}
	for i := range m.Coefficients {
		if m.Coefficients[i], err = coefs.GetIndex(i).Float64(); err != nil {
			return nil, nil, fmt.Errorf("model meta coefficient %d: %w", i, err)
		}
	}
	if m.Intercept, err = meta.Get("intercept").Float64(); err != nil {
		return nil, nil, fmt.Errorf("model meta intercept: %w", err)
	}
	for k, v := range meta.Get("attributes").MustMap() {
		if num, ok := v.(json.Number); ok {
			if v, err = num.Float64(); err != nil {
				return nil, nil, fmt.Errorf("model meta attribute %s: %w", k, err)
			}
		}
		m.Attributes[k] = v
	}
	return m, meta, nil
}

func loadMeta(metaFileName string) (*Meta, error) {
	data, err := ioutil.ReadFile(metaFileName)
	if err != nil {
		return nil, fmt.Errorf("can't read model metadata file: %w", err)
	}
	js, err := simplejson.NewJson(data)
	if err != nil {
		return nil, fmt.Errorf("model meta json parse error: %v", err)
	}
	return &Meta{js}, nil
}
