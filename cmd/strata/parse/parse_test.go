/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dburkart/strata/pkg/parser"
)

func TestRender(t *testing.T) {
	mod, err := parser.ParseString("x = 1\n", parser.ModeModule)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, mod, "dump"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Module[]\n    Assign[]\n") {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}

	buf.Reset()
	if err := Render(&buf, mod, "json"); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["_type"] != "Module" {
		t.Errorf("wanted a Module, got %v", m["_type"])
	}

	buf.Reset()
	if err := Render(&buf, mod, "yaml"); err != nil {
		t.Fatal(err)
	}
	m = nil
	if err := yaml.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["_type"] != "Module" {
		t.Errorf("wanted a Module, got %v", m["_type"])
	}

	if err := Render(&buf, mod, "xml"); err == nil {
		t.Errorf("wanted an unknown format to be rejected")
	}
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	if err := os.WriteFile(path, []byte("pass\n"), 0666); err != nil {
		t.Fatal(err)
	}

	source, err := ReadSource(path)
	if err != nil || source != "pass\n" {
		t.Errorf("wanted the file contents, got %q (%v)", source, err)
	}

	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing.py")); !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("wanted a not-exist error, got %v", err)
	}
}
