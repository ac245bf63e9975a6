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

// Package evaluation scores predictions against the true labels.
package evaluation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"sqlflow.org/reviewflow/go/log"
)

var (
	// ErrLengthMismatch is returned when labels and predictions differ in length.
	ErrLengthMismatch = errors.New("labels and predictions have different lengths")
	// ErrEmptyInput is returned when there is nothing to score.
	ErrEmptyInput = errors.New("no labels to score")
)

// Strategy computes one metric.
type Strategy interface {
	Name() string
	Score(yTrue, yPred []float64) (float64, error)
}

// MSE is the mean of the squared errors.
type MSE struct{}

// RMSE is the square root of MSE.
type RMSE struct{}

// R2 is the coefficient of determination.
type R2 struct{}

// Name implements Strategy.
func (MSE) Name() string { return "MSE" }

// Score implements Strategy.
func (MSE) Score(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	diff := make([]float64, len(yTrue))
	floats.SubTo(diff, yTrue, yPred)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// Name implements Strategy.
func (RMSE) Name() string { return "RMSE" }

// Score implements Strategy.
func (RMSE) Score(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE{}.Score(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// Name implements Strategy.
func (R2) Name() string { return "R2" }

// Score implements Strategy. A constant yTrue scores 1 when predicted
// exactly and 0 otherwise.
func (R2) Score(yTrue, yPred []float64) (float64, error) {
	if err := check(yTrue, yPred); err != nil {
		return 0, err
	}
	mean := stat.Mean(yTrue, nil)
	ssTot := 0.
	for _, y := range yTrue {
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		if floats.Equal(yTrue, yPred) {
			return 1, nil
		}
		return 0, nil
	}
	return stat.RSquaredFrom(yPred, yTrue, nil), nil
}

func check(yTrue, yPred []float64) error {
	if len(yTrue) != len(yPred) {
		return fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// Calculate runs s and logs its outcome. The error, if any, is returned
// unchanged.
func Calculate(logger *log.Logger, s Strategy, yTrue, yPred []float64) (float64, error) {
	logger.Infof("Calculating %s", s.Name())
	score, err := s.Score(yTrue, yPred)
	if err != nil {
		logger.Errorf("Error in calculating %s: %v", s.Name(), err)
		return 0, err
	}
	logger.WithField("metric", s.Name()).Infof("%s: %v", s.Name(), score)
	return score, nil
}

// Metrics is the result of Evaluate.
type Metrics struct {
	MSE  float64
	RMSE float64
	R2   float64
}

// Evaluate computes MSE, RMSE and R2 in that order and stops at the first
// error.
func Evaluate(logger *log.Logger, yTrue, yPred []float64) (Metrics, error) {
	var m Metrics
	for _, c := range []struct {
		s   Strategy
		dst *float64
	}{{MSE{}, &m.MSE}, {RMSE{}, &m.RMSE}, {R2{}, &m.R2}} {
		v, err := Calculate(logger, c.s, yTrue, yPred)
		if err != nil {
			return Metrics{}, err
		}
		*c.dst = v
	}
	return m, nil
}
