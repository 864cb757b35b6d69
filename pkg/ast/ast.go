/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"github.com/dburkart/strata/pkg/common/parse"
)

// Node is implemented by every syntax tree node. Start and End bound the
// source text the node was produced from.
type Node interface {
	Kind() string
	Label() string
	Start() parse.Location
	End() parse.Location
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Mod interface {
	Node
	modNode()
}

type Visitor interface {
	Visit(Node) Visitor
}

type BaseNode struct {
	Location    parse.Location
	EndLocation parse.Location
}

func (b *BaseNode) Start() parse.Location { return b.Location }
func (b *BaseNode) End() parse.Location   { return b.EndLocation }
func (b *BaseNode) Label() string         { return "" }

// SetSpan records the source range of a node.
func (b *BaseNode) SetSpan(start, end parse.Location) {
	b.Location = start
	b.EndLocation = end
}

type exprBase struct{ BaseNode }

func (*exprBase) exprNode() {}

type stmtBase struct{ BaseNode }

func (*stmtBase) stmtNode() {}

// Roots
type (
	Module struct {
		BaseNode
		Body []Stmt
	}

	Interactive struct {
		BaseNode
		Body []Stmt
	}

	Expression struct {
		BaseNode
		Body Expr
	}
)

func (*Module) modNode()      {}
func (*Interactive) modNode() {}
func (*Expression) modNode()  {}

// Statements
type (
	FunctionDef struct {
		stmtBase
		Name          string
		Args          *Arguments
		Body          []Stmt
		DecoratorList []Expr
		Returns       Expr
		IsAsync       bool
	}

	ClassDef struct {
		stmtBase
		Name          string
		Bases         []Expr
		Keywords      []*Keyword
		Body          []Stmt
		DecoratorList []Expr
	}

	Return struct {
		stmtBase
		Value Expr
	}

	Delete struct {
		stmtBase
		Targets []Expr
	}

	Assign struct {
		stmtBase
		Targets []Expr
		Value   Expr
	}

	AugAssign struct {
		stmtBase
		Target Expr
		Op     Operator
		Value  Expr
	}

	AnnAssign struct {
		stmtBase
		Target     Expr
		Annotation Expr
		Value      Expr
		Simple     bool
	}

	For struct {
		stmtBase
		Target  Expr
		Iter    Expr
		Body    []Stmt
		Orelse  []Stmt
		IsAsync bool
	}

	While struct {
		stmtBase
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	If struct {
		stmtBase
		Test   Expr
		Body   []Stmt
		Orelse []Stmt
	}

	With struct {
		stmtBase
		Items   []*WithItem
		Body    []Stmt
		IsAsync bool
	}

	Raise struct {
		stmtBase
		Exc   Expr
		Cause Expr
	}

	Try struct {
		stmtBase
		Body      []Stmt
		Handlers  []*ExceptHandler
		Orelse    []Stmt
		Finalbody []Stmt
	}

	Assert struct {
		stmtBase
		Test Expr
		Msg  Expr
	}

	Import struct {
		stmtBase
		Names []*Alias
	}

	ImportFrom struct {
		stmtBase
		Module string
		Names  []*Alias
		Level  int
	}

	Global struct {
		stmtBase
		Names []string
	}

	Nonlocal struct {
		stmtBase
		Names []string
	}

	ExprStmt struct {
		stmtBase
		Value Expr
	}

	Pass struct{ stmtBase }

	Break struct{ stmtBase }

	Continue struct{ stmtBase }
)

// Expressions
type (
	BoolOp struct {
		exprBase
		Op     BoolOperator
		Values []Expr
	}

	NamedExpr struct {
		exprBase
		Target Expr
		Value  Expr
	}

	BinOp struct {
		exprBase
		Left  Expr
		Op    Operator
		Right Expr
	}

	UnaryOp struct {
		exprBase
		Op      UnaryOperator
		Operand Expr
	}

	Lambda struct {
		exprBase
		Args *Arguments
		Body Expr
	}

	IfExp struct {
		exprBase
		Test   Expr
		Body   Expr
		Orelse Expr
	}

	// Dict keys are nil for `**mapping` entries.
	Dict struct {
		exprBase
		Keys   []Expr
		Values []Expr
	}

	Set struct {
		exprBase
		Elts []Expr
	}

	ListComp struct {
		exprBase
		Elt        Expr
		Generators []*Comprehension
	}

	SetComp struct {
		exprBase
		Elt        Expr
		Generators []*Comprehension
	}

	DictComp struct {
		exprBase
		Key        Expr
		Value      Expr
		Generators []*Comprehension
	}

	GeneratorExp struct {
		exprBase
		Elt        Expr
		Generators []*Comprehension
	}

	Await struct {
		exprBase
		Value Expr
	}

	Yield struct {
		exprBase
		Value Expr
	}

	YieldFrom struct {
		exprBase
		Value Expr
	}

	// Compare holds a whole comparison chain: len(Ops) == len(Comparators).
	Compare struct {
		exprBase
		Left        Expr
		Ops         []CmpOperator
		Comparators []Expr
	}

	Call struct {
		exprBase
		Func     Expr
		Args     []Expr
		Keywords []*Keyword
	}

	// FormattedValue is a replacement field of an f-string. Conversion is
	// 's', 'r', 'a' or 0 when absent.
	FormattedValue struct {
		exprBase
		Value      Expr
		Conversion rune
		FormatSpec Expr
	}

	JoinedStr struct {
		exprBase
		Values []Expr
	}

	// Constant is a literal value. StringKind is "u" for strings written
	// with a u prefix and empty otherwise.
	Constant struct {
		exprBase
		Value      Value
		StringKind string
	}

	Attribute struct {
		exprBase
		Value Expr
		Attr  string
		Ctx   ExprContext
	}

	Subscript struct {
		exprBase
		Value Expr
		Slice Expr
		Ctx   ExprContext
	}

	Starred struct {
		exprBase
		Value Expr
		Ctx   ExprContext
	}

	Name struct {
		exprBase
		Id  string
		Ctx ExprContext
	}

	List struct {
		exprBase
		Elts []Expr
		Ctx  ExprContext
	}

	Tuple struct {
		exprBase
		Elts []Expr
		Ctx  ExprContext
	}

	Slice struct {
		exprBase
		Lower Expr
		Upper Expr
		Step  Expr
	}
)

// Auxiliary nodes
type (
	Comprehension struct {
		BaseNode
		Target  Expr
		Iter    Expr
		Ifs     []Expr
		IsAsync bool
	}

	ExceptHandler struct {
		BaseNode
		Type Expr
		Name string
		Body []Stmt
	}

	// Arguments is a parameter list. Defaults align with the tail of
	// Posonlyargs+Args; KwDefaults is parallel to Kwonlyargs with nil entries
	// for parameters without a default.
	Arguments struct {
		BaseNode
		Posonlyargs []*Arg
		Args        []*Arg
		Vararg      *Arg
		Kwonlyargs  []*Arg
		KwDefaults  []Expr
		Kwarg       *Arg
		Defaults    []Expr
	}

	Arg struct {
		BaseNode
		Arg        string
		Annotation Expr
	}

	// Keyword is a keyword argument; Arg is empty for `**mapping`.
	Keyword struct {
		BaseNode
		Arg   string
		Value Expr
	}

	Alias struct {
		BaseNode
		Name   string
		AsName string
	}

	WithItem struct {
		BaseNode
		ContextExpr  Expr
		OptionalVars Expr
	}
)
