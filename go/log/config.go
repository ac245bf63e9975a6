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

// Package log is the logging collaborator shared by every pipeline step.
// It wraps logrus so that callers never import it directly.
package log

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formatter is for user to specific the log formatter
type Formatter int

const (
	// TextFormatter means unordered fields
	TextFormatter Formatter = iota
	// OrderedTextFormatter writes the fields(only but not level&msg) orderly
	OrderedTextFormatter
)

// InitLogger set the output and formatter
func InitLogger(filename string, f Formatter) {
	setOutput(filename)
	if f == OrderedTextFormatter {
		logrus.SetFormatter(&orderedFieldsTextFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}

// SetLevel parses level and applies it globally. An empty level keeps the
// current one.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// setOutput sets log output to filename globally.
// filename="/var/log/reviewflow.log": write the log to file
// filename="": write the log to stdout
// filename="/dev/null": ignore log message
func setOutput(filename string) {
	filename = strings.Trim(filename, " ")
	if filename == "/dev/null" {
		logrus.SetOutput(ioutil.Discard)
	} else if filename == "" {
		logrus.SetOutput(os.Stdout)
	} else {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   filename,
			MaxSize:    32, // megabytes
			MaxBackups: 64,
			MaxAge:     15, // days
			Compress:   true,
		})
	}
}

// orderedFieldsTextFormatter writes the fields(only but not level or msg) orderly
type orderedFieldsTextFormatter struct{}

func (f *orderedFieldsTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}
	fmt.Fprintf(b, "%s %s msg=\"%s\"", entry.Time.Format("2006-01-02 15:04:05"), entry.Level.String(), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := entry.Data[k]
		if _, ok := v.(string); ok {
			fmt.Fprintf(b, " %s=\"%s\"", k, v)
		} else {
			fmt.Fprintf(b, " %s=%v", k, v)
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
