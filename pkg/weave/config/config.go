// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the TOML run configuration a `weave run` invocation
// is driven by (SPEC_FULL.md §4.11): the call timeout and the argument
// bindings to call with. The `[[sources]]` list is decoded into
// Config.Sources; the CLI takes its source files as command-line arguments
// and does not read it.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/weavelang/weave/pkg/weave/value"
)

// Config is a fully decoded run configuration.
type Config struct {
	// Timeout bounds a single Executable.Call. Zero means no deadline.
	Timeout time.Duration
	// Sources lists the program files to parse, in order.
	Sources []string
	// Arguments binds argument names to the values a call should supply.
	Arguments map[string]value.Value
}

// rawSource mirrors one [[sources]] table entry.
type rawSource struct {
	Path string `toml:"path"`
}

// rawConfig mirrors the file's TOML shape before argument values are
// converted into value.Value (BurntSushi/toml decodes untyped TOML leaves
// into plain Go values, which toValue then normalizes).
type rawConfig struct {
	Timeout   string                 `toml:"timeout"`
	Sources   []rawSource            `toml:"sources"`
	Arguments map[string]interface{} `toml:"arguments"`
}

// Load decodes a run configuration from path (SPEC_FULL.md §4.11).
func Load(path string) (*Config, error) {
	var raw rawConfig

	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		Arguments: make(map[string]value.Value, len(raw.Arguments)),
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("config: invalid timeout %q: %w", raw.Timeout, err)
		}

		cfg.Timeout = d
	}

	for _, s := range raw.Sources {
		cfg.Sources = append(cfg.Sources, s.Path)
	}

	for name, raw := range raw.Arguments {
		v, err := toValue(raw)
		if err != nil {
			return nil, fmt.Errorf("config: argument %q: %w", name, err)
		}

		cfg.Arguments[name] = v
	}

	return cfg, nil
}

// toValue converts a TOML leaf (as decoded by BurntSushi/toml: int64,
// float64, string, bool, or a nested table/array) into the matching
// value.Value variant. Tables and arrays are not valid argument bindings
// (spec.md §3's Arguments are opaque call-time values, not nested
// structure) and are rejected.
func toValue(raw interface{}) (value.Value, error) {
	switch v := raw.(type) {
	case int64:
		return value.NewNumberFromInt64(v), nil
	case float64:
		n, ok := value.ParseNumber(fmt.Sprintf("%v", v))
		if !ok {
			return nil, fmt.Errorf("cannot represent %v as a Number", v)
		}

		return n, nil
	case string:
		return value.NewString(v), nil
	case bool:
		return value.Boolean(v), nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", raw)
	}
}
