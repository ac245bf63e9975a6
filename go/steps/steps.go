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

// Package steps holds the four pipeline steps. Each step takes the run's
// logger, logs its own failure and returns the error to the caller.
package steps

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"sqlflow.org/reviewflow/go/cleaning"
	"sqlflow.org/reviewflow/go/dataset"
	"sqlflow.org/reviewflow/go/evaluation"
	"sqlflow.org/reviewflow/go/log"
	"sqlflow.org/reviewflow/go/model"
)

// Ingest loads the CSV file at path.
func Ingest(logger *log.Logger, path string) (dataframe.DataFrame, error) {
	logger.Infof("Ingesting data from %s", path)
	df, err := dataset.Ingest(path)
	if err != nil {
		logger.Errorf("Error while ingesting data: %v", err)
		return dataframe.DataFrame{}, err
	}
	logger.WithFields(log.Fields{"rows": df.Nrow(), "columns": df.Ncol()}).Info("Data ingested")
	return df, nil
}

// Clean preprocesses raw and splits the result into train and test sets.
func Clean(logger *log.Logger, raw dataframe.DataFrame) (*cleaning.Split, error) {
	cleaned, err := (&cleaning.DataCleaning{Data: raw, Strategy: cleaning.PreprocessStrategy{}}).Table()
	if err != nil {
		logger.Errorf("Error in cleaning data: %v", err)
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	logger.WithFields(log.Fields{"rows": cleaned.Nrow(), "columns": cleaned.Names()}).Info("Data preprocessed")

	split, err := (&cleaning.DataCleaning{Data: cleaned, Strategy: cleaning.NewSplitStrategy()}).Split()
	if err != nil {
		logger.Errorf("Error in splitting data: %v", err)
		return nil, fmt.Errorf("split: %w", err)
	}
	logger.WithFields(log.Fields{"train": split.XTrain.Nrow(), "test": split.XTest.Nrow()}).Info("Data split")
	return split, nil
}

// Train fits the model registered as modelName on the training set.
func Train(logger *log.Logger, split *cleaning.Split, modelName string, attrs map[string]interface{}) (model.Predictor, error) {
	m, err := model.New(modelName)
	if err != nil {
		logger.Errorf("Model %s not supported", modelName)
		return nil, err
	}
	logger.Infof("Training %s", m.Name())
	p, err := m.Train(split.XTrain, split.YTrain, attrs)
	if err != nil {
		logger.Errorf("Error in training model: %v", err)
		return nil, fmt.Errorf("train %s: %w", m.Name(), err)
	}
	logger.Info("Model trained")
	return p, nil
}

// Evaluate scores the predictions of p on the test set.
func Evaluate(logger *log.Logger, p model.Predictor, xTest dataframe.DataFrame, yTest series.Series) (evaluation.Metrics, error) {
	pred, err := p.Predict(xTest)
	if err != nil {
		logger.Errorf("Error in predicting: %v", err)
		return evaluation.Metrics{}, fmt.Errorf("predict: %w", err)
	}
	yTrue, err := dataset.Floats(yTest)
	if err != nil {
		logger.Errorf("Error in reading labels: %v", err)
		return evaluation.Metrics{}, err
	}
	return evaluation.Evaluate(logger, yTrue, pred)
}
