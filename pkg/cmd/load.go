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
package cmd

import (
	"fmt"

	"github.com/weavelang/weave/pkg/util/source"
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/compiler"
)

// loadProgram reads and parses every named source file (a command's
// positional arguments), merging their top-level declarations into a
// single ast.Program so that several files compile as one program.
// Duplicate names across files surface later as a DuplicateName
// CompileError from BuildRegistry, exactly as duplicates within one file
// would.
func loadProgram(filenames []string) (*ast.Program, []compiler.Warning, error) {
	files, err := source.ReadFiles(filenames...)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sources: %w", err)
	}

	program := &ast.Program{}

	var warnings []compiler.Warning

	for i := range files {
		part, warns, cerr := compiler.ParseProgram(&files[i])
		if cerr != nil {
			return nil, nil, cerr
		}

		program.Arguments = append(program.Arguments, part.Arguments...)
		program.Constants = append(program.Constants, part.Constants...)
		program.Modules = append(program.Modules, part.Modules...)
		warnings = append(warnings, warns...)
	}

	return program, warnings, nil
}
