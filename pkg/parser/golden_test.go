/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/dburkart/strata/pkg/ast"
)

// TestParseFiles runs every program under test/parsing/<mode>/input. The
// first line of each program is a comment saying whether it should PASS or
// FAIL; the expectation is the dumped tree or the error message.
func TestParseFiles(t *testing.T) {
	for _, mode := range []Mode{ModeModule, ModeInteractive, ModeExpression} {
		testDirectory, err := filepath.Abs(path.Join("../../test/parsing", mode.String()))
		if err != nil {
			panic(err)
		}

		inputDirectory := path.Join(testDirectory, "input")
		expectationDirectory := path.Join(testDirectory, "expectations")

		tests, err := filepath.Glob(fmt.Sprintf("%s/*.txt", inputDirectory))
		if err != nil {
			t.Fatal(err)
		}

		for _, test := range tests {
			mode := mode
			test := test
			t.Run(mode.String()+"/"+filepath.Base(test), func(t *testing.T) {
				var expected string
				expectation := path.Join(expectationDirectory, filepath.Base(test))
				expectedBytes, err := os.ReadFile(expectation)
				if err == nil {
					expected = string(expectedBytes)
				}

				input, err := os.ReadFile(test)
				if err != nil {
					t.Fatalf("Error opening test: %s", test)
				}

				source := string(input)
				header, _, _ := strings.Cut(source, "\n")
				shouldPass := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(header, "#"))) == "PASS"

				actual := ""
				mod, err := ParseString(source, mode)
				switch {
				case shouldPass && err != nil:
					t.Fatal(err)
				case !shouldPass && err == nil:
					t.Fatalf("Expected program to fail: %s", test)
				case shouldPass:
					actual = ast.Dump(mod)
				default:
					actual = err.Error()
				}

				if os.Getenv("SHOULD_REBASE") != "" {
					err := os.WriteFile(expectation, []byte(actual), 0666)
					if err != nil {
						t.Error(err)
					}
					expected = actual
				}

				if a, e := strings.TrimSpace(actual), strings.TrimSpace(expected); a != e {
					t.Errorf("Expectation not met:\n%s", diff.LineDiff(e, a))
				}
			})
		}
	}
}
