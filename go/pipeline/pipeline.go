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

// Package pipeline runs ingest, clean, train and evaluate in that order and
// caches the output of each step.
package pipeline

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"sqlflow.org/reviewflow/go/cleaning"
	"sqlflow.org/reviewflow/go/dataset"
	"sqlflow.org/reviewflow/go/evaluation"
	"sqlflow.org/reviewflow/go/log"
	"sqlflow.org/reviewflow/go/model"
	"sqlflow.org/reviewflow/go/steps"
)

// DefaultName is the name of a Pipeline built without WithName.
const DefaultName = "training_pipeline"

// Step names, as reported by StepError and logged in the step field.
const (
	StepIngest   = "ingest_data"
	StepClean    = "clean_data"
	StepTrain    = "train_model"
	StepEvaluate = "evaluate_model"
)

// Stage is the last step a run completed.
type Stage int

const (
	// Created means no step has completed yet.
	Created Stage = iota
	// Ingested means the raw table is loaded.
	Ingested
	// Cleaned means the train/test split is ready.
	Cleaned
	// Trained means the model is fitted.
	Trained
	// Evaluated means the metrics are computed.
	Evaluated
)

func (s Stage) String() string {
	switch s {
	case Created:
		return "created"
	case Ingested:
		return "ingested"
	case Cleaned:
		return "cleaned"
	case Trained:
		return "trained"
	case Evaluated:
		return "evaluated"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StepError reports the step at which a run stopped.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

// Unwrap returns the cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a successful Run.
type Result struct {
	RunID     string
	Stage     Stage
	TrainRows int
	TestRows  int
	Predictor model.Predictor
	Metrics   evaluation.Metrics
}

// Pipeline trains ModelName with Attributes on the data given to Run.
type Pipeline struct {
	Name        string
	EnableCache bool
	ModelName   string
	Attributes  map[string]interface{}

	logger *log.Logger
	cache  *gocache.Cache
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithName sets the pipeline name that is attached to every log line.
func WithName(name string) Option {
	return func(p *Pipeline) { p.Name = name }
}

// WithCache turns the step cache on or off.
func WithCache(enable bool) Option {
	return func(p *Pipeline) { p.EnableCache = enable }
}

// WithModel selects the model by its registry name.
func WithModel(name string) Option {
	return func(p *Pipeline) { p.ModelName = name }
}

// WithAttributes sets the model attributes.
func WithAttributes(attrs map[string]interface{}) Option {
	return func(p *Pipeline) { p.Attributes = attrs }
}

// WithLogger sets the logger the run loggers derive from.
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New returns a cached LinearRegressionModel pipeline modified by opts.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		Name:        DefaultName,
		EnableCache: true,
		ModelName:   model.LinearRegressionName,
		Attributes:  map[string]interface{}{},
		logger:      log.GetDefaultLogger(),
		// no janitor goroutine, entries never expire
		cache: gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the four steps on the CSV file at dataPath. The first
// failing step ends the run with a *StepError.
func (p *Pipeline) Run(dataPath string) (*Result, error) {
	res := &Result{RunID: uuid.New().String(), Stage: Created}
	logger := p.logger.With(log.Fields{"pipeline": p.Name, "run_id": res.RunID})
	logger.WithField("cache", p.EnableCache).Infof("Running pipeline on %s", dataPath)

	ingestKey := ""
	if p.EnableCache {
		fp, err := dataset.Fingerprint(dataPath)
		if err != nil {
			logger.Errorf("Error while reading %s: %v", dataPath, err)
			return nil, &StepError{Step: StepIngest, Err: err}
		}
		ingestKey = cacheKey(StepIngest, fp)
	}
	v, err := p.step(logger, StepIngest, ingestKey, func(l *log.Logger) (interface{}, error) {
		return steps.Ingest(l, dataPath)
	})
	if err != nil {
		return nil, err
	}
	raw := v.(dataframe.DataFrame)
	res.Stage = Ingested

	cleanKey := cacheKey(StepClean, ingestKey)
	v, err = p.step(logger, StepClean, cleanKey, func(l *log.Logger) (interface{}, error) {
		return steps.Clean(l, raw)
	})
	if err != nil {
		return nil, err
	}
	split := v.(*cleaning.Split)
	res.Stage = Cleaned
	res.TrainRows, res.TestRows = split.XTrain.Nrow(), split.XTest.Nrow()

	trainKey := cacheKey(StepTrain, cleanKey, p.ModelName, formatAttributes(p.Attributes))
	v, err = p.step(logger, StepTrain, trainKey, func(l *log.Logger) (interface{}, error) {
		return steps.Train(l, split, p.ModelName, p.Attributes)
	})
	if err != nil {
		return nil, err
	}
	res.Predictor = v.(model.Predictor)
	res.Stage = Trained

	v, err = p.step(logger, StepEvaluate, cacheKey(StepEvaluate, trainKey), func(l *log.Logger) (interface{}, error) {
		return steps.Evaluate(l, res.Predictor, split.XTest, split.YTest)
	})
	if err != nil {
		return nil, err
	}
	res.Metrics = v.(evaluation.Metrics)
	res.Stage = Evaluated

	logger.WithFields(log.Fields{"mse": res.Metrics.MSE, "rmse": res.Metrics.RMSE, "r2": res.Metrics.R2}).Info("Pipeline finished")
	return res, nil
}

// step runs f unless its output is cached under key.
func (p *Pipeline) step(logger *log.Logger, name, key string, f func(*log.Logger) (interface{}, error)) (interface{}, error) {
	l := logger.With(log.Fields{"step": name})
	if p.EnableCache {
		if v, ok := p.cache.Get(key); ok {
			l.Info("cache hit")
			return v, nil
		}
	}
	v, err := f(l)
	if err != nil {
		return nil, &StepError{Step: name, Err: err}
	}
	if p.EnableCache {
		p.cache.Set(key, v, gocache.NoExpiration)
	}
	return v, nil
}

func cacheKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

func formatAttributes(attrs map[string]interface{}) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]string, len(keys))
	for i, k := range keys {
		kv[i] = fmt.Sprintf("%s=%#v", k, attrs[k])
	}
	return strings.Join(kv, ",")
}
