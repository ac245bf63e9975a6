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
	"math"
	"math/rand"

	"github.com/go-gota/gota/dataframe"
	"sqlflow.org/reviewflow/go/dataset"
)

const (
	// DefaultLabel is the column predicted by the pipeline.
	DefaultLabel = "review_score"
	// DefaultTestSize is the share of rows held out for evaluation.
	DefaultTestSize = 0.2
	// DefaultSeed makes the split reproducible across runs.
	DefaultSeed int64 = 14527
)

// SplitStrategy separates the label from the features and partitions the
// rows into train and test sets. The first ceil(TestSize*n) positions of a
// seeded permutation form the test set.
type SplitStrategy struct {
	Label    string
	TestSize float64
	Seed     int64
}

// NewSplitStrategy returns the 80/20 review_score split.
func NewSplitStrategy() *SplitStrategy {
	return &SplitStrategy{Label: DefaultLabel, TestSize: DefaultTestSize, Seed: DefaultSeed}
}

// Handle implements Strategy.
func (s *SplitStrategy) Handle(df dataframe.DataFrame) (Result, error) {
	if !dataset.HasColumn(df, s.Label) {
		return Result{}, fmt.Errorf("%w: label %s", ErrMissingColumn, s.Label)
	}
	if s.TestSize <= 0 || s.TestSize >= 1 {
		return Result{}, fmt.Errorf("test size must be in (0, 1), got %v", s.TestSize)
	}
	n := df.Nrow()
	nTest := int(math.Ceil(s.TestSize * float64(n)))
	if nTest < 1 || n-nTest < 1 {
		return Result{}, fmt.Errorf("cannot split %d rows with test size %v", n, s.TestSize)
	}

	features := []string{}
	for _, name := range df.Names() {
		if name != s.Label {
			features = append(features, name)
		}
	}
	if len(features) == 0 {
		return Result{}, fmt.Errorf("%w: no feature column besides %s", ErrMissingColumn, s.Label)
	}

	perm := rand.New(rand.NewSource(s.Seed)).Perm(n)
	test, train := perm[:nTest], perm[nTest:]
	x := df.Select(features)
	y := df.Col(s.Label)
	split := &Split{
		XTrain: x.Subset(train),
		XTest:  x.Subset(test),
		YTrain: y.Subset(train),
		YTest:  y.Subset(test),
	}
	for _, part := range []dataframe.DataFrame{split.XTrain, split.XTest} {
		if part.Err != nil {
			return Result{}, part.Err
		}
	}
	return Result{Kind: SplitResult, Split: split}, nil
}
