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
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
)

// y = 3 + 2*a - b
func linearFixture() (dataframe.DataFrame, series.Series) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{2, 1, 4, 3, 6, 5}
	y := make([]float64, len(a))
	for i := range a {
		y[i] = 3 + 2*a[i] - b[i]
	}
	x := dataframe.New(series.New(a, series.Float, "a"), series.New(b, series.Float, "b"))
	return x, series.New(y, series.Float, "y")
}

func TestNew(t *testing.T) {
	a := assert.New(t)
	m, err := New("LinearRegressionModel")
	a.NoError(err)
	a.Equal(LinearRegressionName, m.Name())
	a.Equal([]string{LinearRegressionName}, Names())

	m, err = New("linearregressionmodel")
	a.Nil(m)
	a.True(errors.Is(err, ErrUnsupportedModel))
	var unsupported *UnsupportedModelError
	a.True(errors.As(err, &unsupported))
	a.Equal("linearregressionmodel", unsupported.Name)
}

func TestLinearRegressionTrain(t *testing.T) {
	a := assert.New(t)
	x, y := linearFixture()
	p, err := (&LinearRegressionModel{}).Train(x, y, nil)
	a.NoError(err)
	lr := p.(*LinearRegression)
	a.Equal([]string{"a", "b"}, lr.Features)
	a.InDelta(2, lr.Coefficients[0], 1e-9)
	a.InDelta(-1, lr.Coefficients[1], 1e-9)
	a.InDelta(3, lr.Intercept, 1e-9)
	a.Equal(true, lr.Attributes["fit_intercept"])
	a.Equal(1e-12, lr.Attributes["rcond"])

	pred, err := p.Predict(x.Select([]string{"b", "a"}))
	a.NoError(err)
	for i, want := range y.Float() {
		a.InDelta(want, pred[i], 1e-9)
	}

	_, err = p.Predict(x.Select([]string{"a"}))
	a.Error(err)
}

func TestLinearRegressionWithoutIntercept(t *testing.T) {
	a := assert.New(t)
	x, y := linearFixture()
	p, err := (&LinearRegressionModel{}).Train(x, y, map[string]interface{}{"fit_intercept": false})
	a.NoError(err)
	lr := p.(*LinearRegression)
	a.Equal(0., lr.Intercept)
	a.Len(lr.Coefficients, 2)
}

func TestLinearRegressionRankDeficient(t *testing.T) {
	a := assert.New(t)
	v := []float64{1, 2, 3, 4}
	x := dataframe.New(series.New(v, series.Float, "a"), series.New(v, series.Float, "a_copy"))
	y := series.New([]float64{2, 4, 6, 8}, series.Float, "y")
	p, err := (&LinearRegressionModel{}).Train(x, y, nil)
	a.NoError(err)
	lr := p.(*LinearRegression)
	// the minimum norm solution splits the weight evenly
	a.InDelta(1, lr.Coefficients[0], 1e-9)
	a.InDelta(1, lr.Coefficients[1], 1e-9)
	a.InDelta(0, lr.Intercept, 1e-9)
}

func TestLinearRegressionTrainErrors(t *testing.T) {
	a := assert.New(t)
	x, y := linearFixture()
	m := &LinearRegressionModel{}
	_, err := m.Train(x, y, map[string]interface{}{"normalize": true})
	a.Error(err)
	_, err = m.Train(x, y, map[string]interface{}{"rcond": -1})
	a.Error(err)
	_, err = m.Train(x, y, map[string]interface{}{"fit_intercept": "no"})
	a.Error(err)
	_, err = m.Train(x, y.Subset([]int{0, 1}), nil)
	a.Error(err)
	_, err = m.Train(x, series.New([]string{"a", "b", "c", "d", "e", "f"}, series.String, "y"), nil)
	a.Error(err)
}

func TestSaveAndLoad(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "model_meta")
	a.NoError(err)
	defer os.RemoveAll(dir)

	x, y := linearFixture()
	p, err := (&LinearRegressionModel{}).Train(x, y, map[string]interface{}{"rcond": 1e-10})
	a.NoError(err)
	lr := p.(*LinearRegression)
	path, err := lr.Save(filepath.Join(dir, "out"), map[string]float64{"MSE": 0.5, "R2": 0.75})
	a.NoError(err)
	a.Equal(filepath.Join(dir, "out", modelMetaFileName), path)

	loaded, meta, err := Load(filepath.Join(dir, "out"))
	a.NoError(err)
	a.Equal(LinearRegressionName, meta.GetMetaAsString("estimator"))
	a.Equal(map[string]float64{"MSE": 0.5, "R2": 0.75}, meta.Evaluation())
	a.Equal(lr.Features, loaded.Features)
	a.InDeltaSlice(lr.Coefficients, loaded.Coefficients, 1e-12)
	a.InDelta(lr.Intercept, loaded.Intercept, 1e-12)
	a.Equal(lr.Attributes, loaded.Attributes)

	_, _, err = Load(dir)
	a.Error(err)
	a.NoError(ioutil.WriteFile(filepath.Join(dir, modelMetaFileName), []byte(`{"estimator": "DNNRegressor"}`), 0644))
	_, _, err = Load(dir)
	a.True(errors.Is(err, ErrUnsupportedModel))
}
