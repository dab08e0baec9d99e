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
	"os"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/pkg/weave/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] file...",
	Short: "Compile a program and print its execution plan.",
	Long: `Compile one or more weave source files and print the computed execution
groups: which steps run together, and whether each is sync or async.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyVerbosity(cmd)

		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		program, warnings, err := loadProgram(args)
		if err != nil {
			printCompileError(err)
			os.Exit(1)
		}

		compiled, cerr := compiler.Compile(program)
		if cerr != nil {
			printCompileError(cerr)
			os.Exit(1)
		}

		for _, w := range warnings {
			fmt.Println(w)
		}

		for i, group := range compiled.Plan.Groups {
			fmt.Printf("group %d:\n", i)

			for _, step := range group {
				fmt.Printf("  [%d] %s (%s)\n", step.ID, step.Name(), step.Kind)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
