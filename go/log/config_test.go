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

package log

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestOrderedTextFormatter(t *testing.T) {
	a := assert.New(t)
	InitLogger("", OrderedTextFormatter)
	b := &bytes.Buffer{}
	logrus.SetOutput(b)
	defer logrus.SetOutput(os.Stdout)

	logger := WithFields(Fields{"step": "clean", "rows": 100, "pipeline": "training pipeline"})
	logger.Info("data cleaning and splitting complete")
	expectedWithoutTime := " info msg=\"data cleaning and splitting complete\" pipeline=\"training pipeline\" rows=100 step=\"clean\"\n"
	a.Truef(strings.HasSuffix(b.String(), expectedWithoutTime), "must contain: %s, but got: %s", expectedWithoutTime, b.String())
}

func TestWithKeepsParentFields(t *testing.T) {
	a := assert.New(t)
	InitLogger("", OrderedTextFormatter)
	b := &bytes.Buffer{}
	logrus.SetOutput(b)
	defer logrus.SetOutput(os.Stdout)

	WithFields(Fields{"run_id": "r1"}).With(Fields{"step": "train"}).Error("boom")
	a.Contains(b.String(), " error msg=\"boom\" run_id=\"r1\" step=\"train\"")
}

func TestLogToFile(t *testing.T) {
	a := assert.New(t)
	dir, err := ioutil.TempDir("", "reviewflow_log")
	a.NoError(err)
	defer os.RemoveAll(dir)
	defer logrus.SetOutput(os.Stdout)

	filename := filepath.Join(dir, "reviewflow.log")
	InitLogger(filename, OrderedTextFormatter)
	GetDefaultLogger().Info("to the file")
	content, err := ioutil.ReadFile(filename)
	a.NoError(err)
	a.Contains(string(content), "msg=\"to the file\"")
}

func TestSetLevel(t *testing.T) {
	a := assert.New(t)
	defer logrus.SetLevel(logrus.InfoLevel)
	a.NoError(SetLevel(""))
	a.NoError(SetLevel("debug"))
	a.Equal(logrus.DebugLevel, logrus.GetLevel())
	a.Error(SetLevel("chatty"))
}

func TestDiscard(t *testing.T) {
	a := assert.New(t)
	b := &bytes.Buffer{}
	logrus.SetOutput(b)
	defer logrus.SetOutput(os.Stdout)
	Discard().Info("nothing")
	a.Equal("", b.String())
}

func TestNew(t *testing.T) {
	a := assert.New(t)
	b := &bytes.Buffer{}
	New(b).With(Fields{"step": "ingest_data"}).Info("cache hit")
	a.Contains(b.String(), " info msg=\"cache hit\" step=\"ingest_data\"\n")
}
