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
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"sqlflow.org/reviewflow/go/attribute"
	"sqlflow.org/reviewflow/go/dataset"
)

// LinearRegressionName is the registry name of LinearRegressionModel.
const LinearRegressionName = "LinearRegressionModel"

var linearRegressionAttributes = attribute.Dictionary{}.
	Bool("fit_intercept", true, "[default=true]\nWhether to center the data and fit an intercept.", nil).
	Float("rcond", 1e-12, "[default=1e-12]\nSingular values at or below rcond times the largest one are treated as zero.", func(f float64) error {
		if f < 0 {
			return fmt.Errorf("must be non-negative, got %v", f)
		}
		return nil
	})

// LinearRegressionModel fits ordinary least squares through a singular
// value decomposition. Rank deficient inputs get the minimum norm solution.
type LinearRegressionModel struct{}

// LinearRegression is a fitted LinearRegressionModel.
type LinearRegression struct {
	Features     []string
	Coefficients []float64
	Intercept    float64
	Attributes   map[string]interface{}
}

// Name implements Model.
func (*LinearRegressionModel) Name() string { return LinearRegressionName }

// Attributes implements Model.
func (*LinearRegressionModel) Attributes() attribute.Dictionary { return linearRegressionAttributes }

// Train implements Model. Every column of x is a feature.
func (*LinearRegressionModel) Train(x dataframe.DataFrame, y series.Series, attrs map[string]interface{}) (Predictor, error) {
	attrs, err := linearRegressionAttributes.Resolve(attrs)
	if err != nil {
		return nil, err
	}
	if x.Nrow() != y.Len() {
		return nil, fmt.Errorf("%d feature rows but %d labels", x.Nrow(), y.Len())
	}
	features := x.Names()
	xm, err := dataset.Matrix(x, features)
	if err != nil {
		return nil, err
	}
	labels, err := dataset.Floats(y)
	if err != nil {
		return nil, err
	}
	coef, intercept, err := leastSquares(xm, labels, attrs["fit_intercept"].(bool), attrs["rcond"].(float64))
	if err != nil {
		return nil, err
	}
	return &LinearRegression{
		Features:     features,
		Coefficients: coef,
		Intercept:    intercept,
		Attributes:   attrs,
	}, nil
}

// leastSquares solves min ||x*coef + intercept - y||. With fitIntercept the
// columns of x and y are centered first and the intercept is recovered from
// the means.
func leastSquares(x *mat.Dense, y []float64, fitIntercept bool, rcond float64) ([]float64, float64, error) {
	rows, cols := x.Dims()
	a := mat.DenseCopyOf(x)
	b := append([]float64{}, y...)
	xMean := make([]float64, cols)
	yMean := 0.
	if fitIntercept {
		col := make([]float64, rows)
		for j := 0; j < cols; j++ {
			mat.Col(col, j, x)
			xMean[j] = stat.Mean(col, nil)
			floats.AddConst(-xMean[j], col)
			a.SetCol(j, col)
		}
		yMean = stat.Mean(b, nil)
		floats.AddConst(-yMean, b)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, fmt.Errorf("singular value decomposition failed")
	}
	coef := make([]float64, cols)
	if rank := svd.Rank(rcond); rank > 0 {
		var sol mat.Dense
		svd.SolveTo(&sol, mat.NewDense(rows, 1, b), rank)
		mat.Col(coef, 0, &sol)
	}
	intercept := 0.
	if fitIntercept {
		intercept = yMean - floats.Dot(xMean, coef)
	}
	return coef, intercept, nil
}

// Predict implements Predictor. x must contain every training feature;
// extra columns are ignored.
func (m *LinearRegression) Predict(x dataframe.DataFrame) ([]float64, error) {
	for _, f := range m.Features {
		if !dataset.HasColumn(x, f) {
			return nil, fmt.Errorf("feature %s not found in prediction data", f)
		}
	}
	xm, err := dataset.Matrix(x, m.Features)
	if err != nil {
		return nil, err
	}
	var pred mat.VecDense
	pred.MulVec(xm, mat.NewVecDense(len(m.Coefficients), m.Coefficients))
	out := make([]float64, pred.Len())
	for i := range out {
		out[i] = pred.AtVec(i) + m.Intercept
	}
	return out, nil
}
