/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"strings"
)

type Dumper struct {
	Output string
	indent int
}

func (d *Dumper) Visit(node Node) Visitor {
	if node == nil {
		d.indent -= 1
		return nil
	}

	level := strings.Repeat("    ", d.indent)
	output := level + node.Kind() + "[" + node.Label() + "]" + "\n"

	d.Output += output
	d.indent += 1

	return d
}

// Dump renders the tree rooted at node as indented text, one node per line.
func Dump(node Node) string {
	d := Dumper{}
	Walk(&d, node)
	return d.Output
}
