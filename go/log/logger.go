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
	"io"
	"io/ioutil"

	"github.com/sirupsen/logrus"
)

// Fields type, used to pass to `WithFields`.
type Fields = logrus.Fields

// Logger wraps logrus.Entry. A nil *Logger is not valid; use
// GetDefaultLogger when no fields are needed.
type Logger struct {
	*logrus.Entry
}

// WithFields returns a Logger carrying fields.
func WithFields(fields Fields) *Logger {
	return &Logger{logrus.WithFields(fields)}
}

// GetDefaultLogger returns a Logger without any field.
func GetDefaultLogger() *Logger {
	return &Logger{logrus.NewEntry(logrus.StandardLogger())}
}

// With derives a Logger that carries the extra fields on top of l's.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{l.Entry.WithFields(fields)}
}

// New returns a Logger that writes ordered text to out, independent of the
// global logger.
func New(out io.Writer) *Logger {
	lg := logrus.New()
	lg.Out = out
	lg.Formatter = &orderedFieldsTextFormatter{}
	return &Logger{logrus.NewEntry(lg)}
}

// Discard returns a Logger that drops everything, for tests and library
// callers that do not care about logs.
func Discard() *Logger {
	lg := logrus.New()
	lg.Out = ioutil.Discard
	return &Logger{logrus.NewEntry(lg)}
}
