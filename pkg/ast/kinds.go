/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"fmt"
	"strings"
)

func (*Module) Kind() string         { return "Module" }
func (*Interactive) Kind() string    { return "Interactive" }
func (*Expression) Kind() string     { return "Expression" }
func (*FunctionDef) Kind() string    { return "FunctionDef" }
func (*ClassDef) Kind() string       { return "ClassDef" }
func (*Return) Kind() string         { return "Return" }
func (*Delete) Kind() string         { return "Delete" }
func (*Assign) Kind() string         { return "Assign" }
func (*AugAssign) Kind() string      { return "AugAssign" }
func (*AnnAssign) Kind() string      { return "AnnAssign" }
func (*For) Kind() string            { return "For" }
func (*While) Kind() string          { return "While" }
func (*If) Kind() string             { return "If" }
func (*With) Kind() string           { return "With" }
func (*Raise) Kind() string          { return "Raise" }
func (*Try) Kind() string            { return "Try" }
func (*Assert) Kind() string         { return "Assert" }
func (*Import) Kind() string         { return "Import" }
func (*ImportFrom) Kind() string     { return "ImportFrom" }
func (*Global) Kind() string         { return "Global" }
func (*Nonlocal) Kind() string       { return "Nonlocal" }
func (*ExprStmt) Kind() string       { return "ExprStmt" }
func (*Pass) Kind() string           { return "Pass" }
func (*Break) Kind() string          { return "Break" }
func (*Continue) Kind() string       { return "Continue" }
func (*BoolOp) Kind() string         { return "BoolOp" }
func (*NamedExpr) Kind() string      { return "NamedExpr" }
func (*BinOp) Kind() string          { return "BinOp" }
func (*UnaryOp) Kind() string        { return "UnaryOp" }
func (*Lambda) Kind() string         { return "Lambda" }
func (*IfExp) Kind() string          { return "IfExp" }
func (*Dict) Kind() string           { return "Dict" }
func (*Set) Kind() string            { return "Set" }
func (*ListComp) Kind() string       { return "ListComp" }
func (*SetComp) Kind() string        { return "SetComp" }
func (*DictComp) Kind() string       { return "DictComp" }
func (*GeneratorExp) Kind() string   { return "GeneratorExp" }
func (*Await) Kind() string          { return "Await" }
func (*Yield) Kind() string          { return "Yield" }
func (*YieldFrom) Kind() string      { return "YieldFrom" }
func (*Compare) Kind() string        { return "Compare" }
func (*Call) Kind() string           { return "Call" }
func (*FormattedValue) Kind() string { return "FormattedValue" }
func (*JoinedStr) Kind() string      { return "JoinedStr" }
func (*Constant) Kind() string       { return "Constant" }
func (*Attribute) Kind() string      { return "Attribute" }
func (*Subscript) Kind() string      { return "Subscript" }
func (*Starred) Kind() string        { return "Starred" }
func (*Name) Kind() string           { return "Name" }
func (*List) Kind() string           { return "List" }
func (*Tuple) Kind() string          { return "Tuple" }
func (*Slice) Kind() string          { return "Slice" }
func (*Comprehension) Kind() string  { return "Comprehension" }
func (*ExceptHandler) Kind() string  { return "ExceptHandler" }
func (*Arguments) Kind() string      { return "Arguments" }
func (*Arg) Kind() string            { return "Arg" }
func (*Keyword) Kind() string        { return "Keyword" }
func (*Alias) Kind() string          { return "Alias" }
func (*WithItem) Kind() string       { return "WithItem" }

func (n *Name) Label() string      { return n.Id + " " + n.Ctx.String() }
func (n *Constant) Label() string  { return n.Value.String() }
func (n *BinOp) Label() string     { return n.Op.String() }
func (n *AugAssign) Label() string { return n.Op.String() }
func (n *UnaryOp) Label() string   { return n.Op.String() }
func (n *BoolOp) Label() string    { return n.Op.String() }
func (n *Attribute) Label() string { return n.Attr + " " + n.Ctx.String() }
func (n *Subscript) Label() string { return n.Ctx.String() }
func (n *Starred) Label() string   { return n.Ctx.String() }
func (n *List) Label() string      { return n.Ctx.String() }
func (n *Tuple) Label() string     { return n.Ctx.String() }
func (n *Arg) Label() string       { return n.Arg }
func (n *ClassDef) Label() string  { return n.Name }

func (n *Compare) Label() string {
	ops := make([]string, len(n.Ops))
	for i, op := range n.Ops {
		ops[i] = op.String()
	}
	return strings.Join(ops, " ")
}

func (n *FunctionDef) Label() string {
	if n.IsAsync {
		return "async " + n.Name
	}
	return n.Name
}

func (n *For) Label() string {
	if n.IsAsync {
		return "async"
	}
	return ""
}

func (n *With) Label() string {
	if n.IsAsync {
		return "async"
	}
	return ""
}

func (n *Comprehension) Label() string {
	if n.IsAsync {
		return "async"
	}
	return ""
}

func (n *AnnAssign) Label() string {
	if n.Simple {
		return "simple"
	}
	return ""
}

func (n *ImportFrom) Label() string {
	if n.Module == "" {
		return fmt.Sprintf("level=%d", n.Level)
	}
	return fmt.Sprintf("%s level=%d", n.Module, n.Level)
}

// Label describes how the children of the parameter list split into
// positional-only, plain, star, keyword-only and keyword parameters and
// their defaults, in walk order.
func (n *Arguments) Label() string {
	var parts []string
	count := func(name string, c int) {
		if c > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, c))
		}
	}

	count("posonly", len(n.Posonlyargs))
	count("args", len(n.Args))
	if n.Vararg != nil {
		parts = append(parts, "vararg")
	}
	count("kwonly", len(n.Kwonlyargs))
	kwDefaults := 0
	for _, d := range n.KwDefaults {
		if d != nil {
			kwDefaults++
		}
	}
	count("kw_defaults", kwDefaults)
	if n.Kwarg != nil {
		parts = append(parts, "kwarg")
	}
	count("defaults", len(n.Defaults))

	return strings.Join(parts, " ")
}

func (n *Alias) Label() string {
	if n.AsName != "" {
		return n.Name + " as " + n.AsName
	}
	return n.Name
}

func (n *Keyword) Label() string {
	if n.Arg == "" {
		return "**"
	}
	return n.Arg
}

func (n *ExceptHandler) Label() string { return n.Name }
func (n *Global) Label() string        { return strings.Join(n.Names, ", ") }
func (n *Nonlocal) Label() string      { return strings.Join(n.Names, ", ") }

func (n *FormattedValue) Label() string {
	if n.Conversion != 0 {
		return "!" + string(n.Conversion)
	}
	return ""
}
