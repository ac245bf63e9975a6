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

// Package attribute declares and validates the pass-through options a model
// accepts, e.g. fit_intercept=false.
package attribute

import (
	"fmt"
	"log"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const (
	errUnsupportedAttribute = "unsupported attribute %v"
)

var (
	boolType  = reflect.TypeOf(true)
	floatType = reflect.TypeOf(float64(0.))
)

// Dictionary contains the description of all attributes
type Dictionary map[string]*description

// description describes a requirement for a particular attribute
type description struct {
	typ          reflect.Type
	defaultValue interface{}
	doc          string
	checker      func(value interface{}, name string) error
}

// Doc is one row of the attribute table printed to users.
type Doc struct {
	Name    string
	Type    string
	Default interface{}
	Doc     string
}

// Float declares an attribute of float64-typed in Dictionary d. Int values
// are accepted and converted.
func (d Dictionary) Float(name string, value interface{}, doc string, checker func(float64) error) Dictionary {
	interfaceChecker := func(value interface{}, name string) error {
		f, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("attribute %s must be of type float, but got %T", name, value)
		}
		if checker != nil {
			if err := checker(f); err != nil {
				return fmt.Errorf("attribute %s error: %s", name, err)
			}
		}
		return nil
	}
	if f, ok := toFloat(value); ok {
		value = f
	}
	d.declare(name, floatType, value, doc, interfaceChecker)
	return d
}

// Bool declares an attribute of bool-typed in Dictionary d.
func (d Dictionary) Bool(name string, value interface{}, doc string, checker func(bool) error) Dictionary {
	interfaceChecker := func(value interface{}, name string) error {
		if boolValue, ok := value.(bool); ok {
			if checker != nil {
				if err := checker(boolValue); err != nil {
					return fmt.Errorf("attribute %s error: %s", name, err)
				}
			}
			return nil
		}
		return fmt.Errorf("attribute %s must be of type bool, but got %T", name, value)
	}
	d.declare(name, boolType, value, doc, interfaceChecker)
	return d
}

// declare panics on an invalid default value: that is a bug in the
// declaration, not a user error.
func (d Dictionary) declare(name string, typ reflect.Type, value interface{}, doc string, checker func(interface{}, string) error) {
	if value != nil {
		if err := checker(value, name); err != nil {
			log.Panicf("default value of attribute %s is invalid, error is: %s", name, err)
		}
	}
	d[name] = &description{
		typ:          typ,
		defaultValue: value,
		doc:          doc,
		checker:      checker,
	}
}

// ExportDefaults exports default values defined in Dictionary to attrs.
func (d Dictionary) ExportDefaults(attrs map[string]interface{}) {
	for k, v := range d {
		if v.defaultValue == nil {
			continue
		}
		if _, ok := attrs[k]; !ok {
			attrs[k] = v.defaultValue
		}
	}
}

// Validate validates the attribute based on dictionary. The validation includes
//   1. Type checking
//   2. Customer checker
func (d Dictionary) Validate(attrs map[string]interface{}) error {
	for _, k := range sortedKeys(attrs) {
		desc, ok := d[k]
		if !ok {
			return fmt.Errorf(errUnsupportedAttribute, k)
		}
		if v := attrs[k]; v != nil && desc.checker != nil {
			if err := desc.checker(v, k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolve validates attrs and returns a copy where unset and nil attributes
// take their defaults and float attributes hold a float64.
func (d Dictionary) Resolve(attrs map[string]interface{}) (map[string]interface{}, error) {
	if err := d.Validate(attrs); err != nil {
		return nil, err
	}
	resolved := make(map[string]interface{}, len(d))
	for k, v := range attrs {
		if v == nil {
			continue
		}
		if f, ok := toFloat(v); ok && d[k].typ == floatType {
			v = f
		}
		resolved[k] = v
	}
	d.ExportDefaults(resolved)
	return resolved, nil
}

// Docs lists the declared attributes sorted by name.
func (d Dictionary) Docs() []Doc {
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Strings(names)
	docs := make([]Doc, 0, len(names))
	for _, k := range names {
		desc := d[k]
		docs = append(docs, Doc{Name: k, Type: desc.typ.String(), Default: desc.defaultValue, Doc: desc.doc})
	}
	return docs
}

// ParseAssignments turns command line assignments like "fit_intercept=false"
// into typed attribute values, using d to pick the type of each key.
// Keys that d does not declare are kept as strings so that Validate can
// report them.
func (d Dictionary) ParseAssignments(assignments []string) (map[string]interface{}, error) {
	attrs := map[string]interface{}{}
	for _, as := range assignments {
		kv := strings.SplitN(as, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, fmt.Errorf("attribute assignment %q should be like key=value", as)
		}
		key, raw := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		desc, ok := d[key]
		if !ok {
			attrs[key] = raw
			continue
		}
		v, err := parseValue(desc.typ, raw)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", key, err)
		}
		attrs[key] = v
	}
	return attrs, nil
}

func parseValue(typ reflect.Type, raw string) (interface{}, error) {
	switch typ {
	case boolType:
		return strconv.ParseBool(raw)
	case floatType:
		return strconv.ParseFloat(raw, 64)
	default:
		return strings.Trim(raw, `"'`), nil
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func sortedKeys(attrs map[string]interface{}) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
