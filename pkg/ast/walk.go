/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

// Walk traverses the tree rooted at node in depth-first order. v.Visit is
// called for each node; if it returns nil the node's children are skipped.
// After a node's children have been walked, the returned visitor is called
// with nil.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Module:
		walkStmts(v, n.Body)

	case *Interactive:
		walkStmts(v, n.Body)

	case *Expression:
		Walk(v, n.Body)

	case *FunctionDef:
		walkExprs(v, n.DecoratorList)
		Walk(v, n.Args)
		walkExpr(v, n.Returns)
		walkStmts(v, n.Body)

	case *ClassDef:
		walkExprs(v, n.DecoratorList)
		walkExprs(v, n.Bases)
		for _, k := range n.Keywords {
			Walk(v, k)
		}
		walkStmts(v, n.Body)

	case *Return:
		walkExpr(v, n.Value)

	case *Delete:
		walkExprs(v, n.Targets)

	case *Assign:
		walkExprs(v, n.Targets)
		Walk(v, n.Value)

	case *AugAssign:
		Walk(v, n.Target)
		Walk(v, n.Value)

	case *AnnAssign:
		Walk(v, n.Target)
		Walk(v, n.Annotation)
		walkExpr(v, n.Value)

	case *For:
		Walk(v, n.Target)
		Walk(v, n.Iter)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)

	case *While:
		Walk(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)

	case *If:
		Walk(v, n.Test)
		walkStmts(v, n.Body)
		walkStmts(v, n.Orelse)

	case *With:
		for _, item := range n.Items {
			Walk(v, item)
		}
		walkStmts(v, n.Body)

	case *Raise:
		walkExpr(v, n.Exc)
		walkExpr(v, n.Cause)

	case *Try:
		walkStmts(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
		walkStmts(v, n.Orelse)
		walkStmts(v, n.Finalbody)

	case *Assert:
		Walk(v, n.Test)
		walkExpr(v, n.Msg)

	case *Import:
		for _, a := range n.Names {
			Walk(v, a)
		}

	case *ImportFrom:
		for _, a := range n.Names {
			Walk(v, a)
		}

	case *ExprStmt:
		Walk(v, n.Value)

	case *Global, *Nonlocal, *Pass, *Break, *Continue:
		// Skip, leaf nodes

	case *BoolOp:
		walkExprs(v, n.Values)

	case *NamedExpr:
		Walk(v, n.Target)
		Walk(v, n.Value)

	case *BinOp:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *UnaryOp:
		Walk(v, n.Operand)

	case *Lambda:
		Walk(v, n.Args)
		Walk(v, n.Body)

	case *IfExp:
		Walk(v, n.Test)
		Walk(v, n.Body)
		Walk(v, n.Orelse)

	case *Dict:
		for i := range n.Values {
			walkExpr(v, n.Keys[i])
			Walk(v, n.Values[i])
		}

	case *Set:
		walkExprs(v, n.Elts)

	case *ListComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)

	case *SetComp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)

	case *GeneratorExp:
		Walk(v, n.Elt)
		walkComprehensions(v, n.Generators)

	case *DictComp:
		Walk(v, n.Key)
		Walk(v, n.Value)
		walkComprehensions(v, n.Generators)

	case *Await:
		Walk(v, n.Value)

	case *Yield:
		walkExpr(v, n.Value)

	case *YieldFrom:
		Walk(v, n.Value)

	case *Compare:
		Walk(v, n.Left)
		walkExprs(v, n.Comparators)

	case *Call:
		Walk(v, n.Func)
		walkExprs(v, n.Args)
		for _, k := range n.Keywords {
			Walk(v, k)
		}

	case *FormattedValue:
		Walk(v, n.Value)
		walkExpr(v, n.FormatSpec)

	case *JoinedStr:
		walkExprs(v, n.Values)

	case *Constant, *Name:
		// Skip, leaf nodes

	case *Attribute:
		Walk(v, n.Value)

	case *Subscript:
		Walk(v, n.Value)
		Walk(v, n.Slice)

	case *Starred:
		Walk(v, n.Value)

	case *List:
		walkExprs(v, n.Elts)

	case *Tuple:
		walkExprs(v, n.Elts)

	case *Slice:
		walkExpr(v, n.Lower)
		walkExpr(v, n.Upper)
		walkExpr(v, n.Step)

	case *Comprehension:
		Walk(v, n.Target)
		Walk(v, n.Iter)
		walkExprs(v, n.Ifs)

	case *ExceptHandler:
		walkExpr(v, n.Type)
		walkStmts(v, n.Body)

	case *Arguments:
		for _, a := range n.Posonlyargs {
			Walk(v, a)
		}
		for _, a := range n.Args {
			Walk(v, a)
		}
		if n.Vararg != nil {
			Walk(v, n.Vararg)
		}
		for _, a := range n.Kwonlyargs {
			Walk(v, a)
		}
		walkExprs(v, n.KwDefaults)
		if n.Kwarg != nil {
			Walk(v, n.Kwarg)
		}
		walkExprs(v, n.Defaults)

	case *Arg:
		walkExpr(v, n.Annotation)

	case *Keyword:
		Walk(v, n.Value)

	case *Alias:
		// Skip, leaf node

	case *WithItem:
		Walk(v, n.ContextExpr)
		walkExpr(v, n.OptionalVars)

	default:
		panic("Unexpected Node passed to Walk")
	}

	v.Visit(nil)
}

func walkExpr(v Visitor, e Expr) {
	if e != nil {
		Walk(v, e)
	}
}

func walkExprs(v Visitor, list []Expr) {
	for _, e := range list {
		walkExpr(v, e)
	}
}

func walkStmts(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

func walkComprehensions(v Visitor, list []*Comprehension) {
	for _, c := range list {
		Walk(v, c)
	}
}

// Inspect walks the tree calling f for every node until f returns false.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if node == nil {
		return nil
	}
	if f(node) {
		return f
	}
	return nil
}
