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
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/weavelang/weave/pkg/weave/compiler"
	"github.com/weavelang/weave/pkg/weave/config"
	"github.com/weavelang/weave/pkg/weave/runtime"
	"github.com/weavelang/weave/pkg/weave/value"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file...",
	Short: "Compile a program and call it, printing the result bundle.",
	Long: `Compile one or more weave source files, bind its arguments from a TOML
config and/or a JSON args file, call it, and print the Result bundle.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyVerbosity(cmd)

		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		bindings, timeout := loadRunInputs(cmd)

		program, warnings, err := loadProgram(args)
		if err != nil {
			printCompileError(err)
			os.Exit(1)
		}

		for _, w := range warnings {
			fmt.Println(w)
		}

		compiled, cerr := compiler.Compile(program)
		if cerr != nil {
			printCompileError(cerr)
			os.Exit(1)
		}

		callArgs := make([]value.Value, len(program.Arguments))

		for i, a := range program.Arguments {
			v, ok := bindings[a.Ident]
			if !ok {
				fmt.Printf("missing binding for argument %q\n", a.Ident)
				os.Exit(1)
			}

			callArgs[i] = v
		}

		exe := runtime.New(compiled, compiled.Registry.Comparer())
		result := exe.Call(context.Background(), callArgs, timeout)

		printResult(cmd, result)
	},
}

// loadRunInputs merges --config, --timeout and --args-file into one
// argument-binding map and a resolved timeout, in increasing order of
// precedence: config file, then --timeout, then --args-file.
func loadRunInputs(cmd *cobra.Command) (map[string]value.Value, time.Duration) {
	bindings := map[string]value.Value{}

	var timeout time.Duration

	if path := GetString(cmd, "config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for k, v := range cfg.Arguments {
			bindings[k] = v
		}

		timeout = cfg.Timeout
	}

	if d := GetDuration(cmd, "timeout"); d > 0 {
		timeout = d
	}

	if path := GetString(cmd, "args-file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		var envelopes map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelopes); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		for name, env := range envelopes {
			v, err := value.UnmarshalValue(env)
			if err != nil {
				fmt.Printf("args-file: argument %q: %s\n", name, err)
				os.Exit(1)
			}

			bindings[name] = v
		}
	}

	return bindings, timeout
}

func printResult(cmd *cobra.Command, result *runtime.Result) {
	if GetFlag(cmd, "json") {
		out, err := json.Marshal(result)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Println(string(out))

		return
	}

	fmt.Printf("trace: %s\n", result.TraceID)

	for module, formulas := range result.Modules {
		for formula, v := range formulas {
			fmt.Printf("%s.%s = %s\n", module, formula, v.String())
		}
	}

	for name, e := range result.Errors {
		fmt.Printf("%s: %s\n", name, e.String())
	}
}

func init() {
	runCmd.Flags().String("config", "", "TOML run configuration (SPEC_FULL.md 4.11)")
	runCmd.Flags().String("args-file", "", "JSON file of argument bindings, overriding --config")
	runCmd.Flags().Duration("timeout", 0, "call timeout, overriding --config")
	runCmd.Flags().Bool("json", false, "print the result bundle as JSON")
	rootCmd.AddCommand(runCmd)
}
