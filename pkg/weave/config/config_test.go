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
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/pkg/weave/value"
)

const sample = `
timeout = "5s"

[[sources]]
path = "program.weave"

[arguments]
x = 10
name = "hello"
enabled = true
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadDecodesAllFields(t *testing.T) {
	path := writeTemp(t, sample)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"program.weave"}, cfg.Sources)

	x, ok := cfg.Arguments["x"]
	require.True(t, ok)
	assert.Equal(t, "10", x.(value.Number).Decimal())

	name, ok := cfg.Arguments["name"]
	require.True(t, ok)
	assert.Equal(t, "hello", name.(value.String_).Text())

	enabled, ok := cfg.Arguments["enabled"]
	require.True(t, ok)
	assert.Equal(t, value.Boolean(true), enabled)
}

func TestLoadZeroTimeoutWhenAbsent(t *testing.T) {
	path := writeTemp(t, "[arguments]\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	path := writeTemp(t, "timeout = \"not-a-duration\"\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
