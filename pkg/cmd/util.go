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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/pkg/weave/compiler"
)

// GetFlag gets an expected boolean flag, or exits if none is registered.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if none is registered.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetDuration gets an expected duration flag, or exits if none is registered.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// printCompileError renders err the way the teacher renders a
// source.SyntaxError: source line, caret underline, and all, when err is a
// *compiler.Error carrying a File. Any other error (a file-read failure, or a
// *compiler.Error raised after parsing with no File attached) just prints.
func printCompileError(err error) {
	cerr, ok := err.(*compiler.Error)
	if !ok || cerr.File == nil {
		fmt.Println(err)
		return
	}

	span := cerr.Span
	line := cerr.FirstEnclosingLine()
	lineOffset := span.Start() - line.Start()
	length := min(line.Length()-lineOffset, span.Length())

	fmt.Printf("%s:%d:%d-%d %s\n", cerr.File.Filename(), line.Number(), 1+lineOffset, 1+lineOffset+length, cerr.Message)
	fmt.Println()
	fmt.Println(line.String())
	fmt.Print(strings.Repeat(" ", lineOffset))
	fmt.Println(strings.Repeat("^", length))
}
