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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	docopt "github.com/docopt/docopt-go"
	"github.com/joho/godotenv"
	"sqlflow.org/reviewflow/go/log"
	"sqlflow.org/reviewflow/go/model"
	"sqlflow.org/reviewflow/go/pipeline"
	"sqlflow.org/reviewflow/go/tablewriter"
)

// dotEnvFilename is the filename of the .env file
const dotEnvFilename string = ".reviewflow_env"

const usage = `ReviewFlow Command-line Tool.

Trains a regression model on order review CSV files and prints MSE, RMSE and R2.

Usage:
    reviewflow [options] run [--model=<name>] [--attr=<kv>]... [--no-cache] [--output=<dir>] <data_path>...
    reviewflow [options] attributes [--model=<name>]
    reviewflow [options] show <model_dir>

Options:
    -h, --help                print this screen
    -v, --version             print the version and exit
        --env-file=<file>     config file in KEY=VAL format
        --log-file=<file>     write logs to file, /dev/null discards them
        --log-level=<level>   log level: debug, info, warn or error

Run Options:
    -m, --model=<name>        model to train, LinearRegressionModel if not given
    -a, --attr=<kv>           model attribute, e.g. fit_intercept=false
        --no-cache            run every step even if its output is cached
    -o, --output=<dir>        save model_meta.json under <dir>/<data file name>`

type options struct {
	Run        bool     `docopt:"run"`
	Attributes bool     `docopt:"attributes"`
	Show       bool     `docopt:"show"`
	DataPath   []string `docopt:"<data_path>"`
	ModelDir   string   `docopt:"<model_dir>"`
	Model      string   `docopt:"--model"`
	Attr       []string `docopt:"--attr"`
	NoCache    bool     `docopt:"--no-cache"`
	Output     string   `docopt:"--output"`
	EnvFile    string   `docopt:"--env-file"`
	LogFile    string   `docopt:"--log-file"`
	LogLevel   string   `docopt:"--log-level"`
	Help       bool     `docopt:"--help"`
	Version    bool     `docopt:"--version"`
}

// initEnvFromFile initializes environment variables from the .env file
func initEnvFromFile(f string) {
	_ = godotenv.Load(f)
}

// applyEnv fills the options left empty on the command line from the
// environment.
func applyEnv(opts *options) {
	if opts.Model == "" {
		opts.Model = os.Getenv("REVIEWFLOW_MODEL")
	}
	if opts.Model == "" {
		opts.Model = model.LinearRegressionName
	}
	if opts.LogFile == "" {
		opts.LogFile = os.Getenv("REVIEWFLOW_LOG_FILE")
	}
	if disable, err := strconv.ParseBool(os.Getenv("REVIEWFLOW_DISABLE_CACHE")); err == nil && disable {
		opts.NoCache = true
	}
}

func runPipeline(opts *options, out io.Writer) error {
	m, err := model.New(opts.Model)
	if err != nil {
		return err
	}
	attrs, err := m.Attributes().ParseAssignments(opts.Attr)
	if err != nil {
		return err
	}
	p := pipeline.New(
		pipeline.WithModel(m.Name()),
		pipeline.WithAttributes(attrs),
		pipeline.WithCache(!opts.NoCache))
	for _, path := range opts.DataPath {
		res, err := p.Run(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (run %s, %d train rows, %d test rows)\n", path, res.RunID, res.TrainRows, res.TestRows)
		if err := printMetrics(out, map[string]float64{"MSE": res.Metrics.MSE, "RMSE": res.Metrics.RMSE, "R2": res.Metrics.R2}); err != nil {
			return err
		}
		lr, ok := res.Predictor.(*model.LinearRegression)
		if !ok {
			continue
		}
		if err := printCoefficients(out, lr); err != nil {
			return err
		}
		if opts.Output != "" {
			dir := filepath.Join(opts.Output, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
			saved, err := lr.Save(dir, map[string]float64{"MSE": res.Metrics.MSE, "RMSE": res.Metrics.RMSE, "R2": res.Metrics.R2})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "model saved to %s\n", saved)
		}
	}
	return nil
}

func printAttributes(opts *options, out io.Writer) error {
	m, err := model.New(opts.Model)
	if err != nil {
		return err
	}
	rows := [][]interface{}{}
	for _, doc := range m.Attributes().Docs() {
		desc := strings.Join(strings.Fields(doc.Doc), " ")
		rows = append(rows, []interface{}{doc.Name, doc.Type, doc.Default, desc})
	}
	return tablewriter.Render(out, []string{"attribute", "type", "default", "description"}, rows)
}

func showModel(opts *options, out io.Writer) error {
	lr, meta, err := model.Load(opts.ModelDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", meta.GetMetaAsString("estimator"))
	if err := printCoefficients(out, lr); err != nil {
		return err
	}
	return printMetrics(out, meta.Evaluation())
}

func printMetrics(out io.Writer, metrics map[string]float64) error {
	rows := [][]interface{}{}
	for _, name := range []string{"MSE", "RMSE", "R2"} {
		if v, ok := metrics[name]; ok {
			rows = append(rows, []interface{}{name, v})
		}
	}
	return tablewriter.Render(out, []string{"metric", "value"}, rows)
}

func printCoefficients(out io.Writer, lr *model.LinearRegression) error {
	rows := make([][]interface{}, 0, len(lr.Features)+1)
	for i, f := range lr.Features {
		rows = append(rows, []interface{}{f, lr.Coefficients[i]})
	}
	rows = append(rows, []interface{}{"(intercept)", lr.Intercept})
	return tablewriter.Render(out, []string{"feature", "coefficient"}, rows)
}

func processOptions(opts *options, out io.Writer) error {
	log.InitLogger(opts.LogFile, log.OrderedTextFormatter)
	if err := log.SetLevel(opts.LogLevel); err != nil {
		return err
	}
	switch {
	case opts.Run:
		return runPipeline(opts, out)
	case opts.Attributes:
		return printAttributes(opts, out)
	case opts.Show:
		return showModel(opts, out)
	}
	return fmt.Errorf("no command given")
}

func main() {
	opts, err := docopt.ParseArgs(usage, nil, "1.0.0")
	if err != nil {
		log.GetDefaultLogger().Fatal(err)
	}
	optionData := &options{}
	if err := opts.Bind(optionData); err != nil {
		log.GetDefaultLogger().Fatal(err)
	}
	var envFilePath string
	if optionData.EnvFile != "" {
		envFilePath = optionData.EnvFile
	} else {
		envFilePath = filepath.Join(os.Getenv("HOME"), dotEnvFilename)
	}
	initEnvFromFile(envFilePath)
	applyEnv(optionData)
	if err := processOptions(optionData, os.Stdout); err != nil {
		log.GetDefaultLogger().Fatalf("Failed due to %v", err)
	}
}
