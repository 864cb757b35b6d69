/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"math/big"
	"testing"

	"github.com/dburkart/strata/pkg/common/parse"
)

func sampleAssign() *Module {
	x := &Name{Id: "x", Ctx: Store}
	x.SetSpan(parse.NewLocation(1, 0), parse.NewLocation(1, 1))

	one := &Constant{Value: IntValue{big.NewInt(1)}}
	one.SetSpan(parse.NewLocation(1, 4), parse.NewLocation(1, 5))

	two := &Constant{Value: StrValue("two")}
	two.SetSpan(parse.NewLocation(1, 8), parse.NewLocation(1, 13))

	sum := &BinOp{Left: one, Op: Add, Right: two}
	sum.SetSpan(parse.NewLocation(1, 4), parse.NewLocation(1, 13))

	assign := &Assign{Targets: []Expr{x}, Value: sum}
	assign.SetSpan(parse.NewLocation(1, 0), parse.NewLocation(1, 13))

	return &Module{Body: []Stmt{assign}}
}

func TestDump(t *testing.T) {
	want := `Module[]
    Assign[]
        Name[x Store]
        BinOp[Add]
            Constant[1]
            Constant["two"]
`
	if got := Dump(sampleAssign()); got != want {
		t.Errorf("unexpected dump:\n%s\nwanted:\n%s", got, want)
	}
}

func TestInspectCountsNodes(t *testing.T) {
	count := 0
	Inspect(sampleAssign(), func(n Node) bool {
		count++
		return true
	})

	if count != 6 {
		t.Errorf("wanted 6 nodes, got %d", count)
	}

	// Returning false prunes the subtree
	count = 0
	Inspect(sampleAssign(), func(n Node) bool {
		count++
		_, isAssign := n.(*Assign)
		return !isAssign
	})

	if count != 2 {
		t.Errorf("wanted 2 nodes, got %d", count)
	}
}

func TestToMap(t *testing.T) {
	m := ToMap(sampleAssign())
	if m["_type"] != "Module" {
		t.Fatalf("wanted Module, got %v", m["_type"])
	}

	body := m["body"].([]any)
	assign := body[0].(map[string]any)
	if assign["_type"] != "Assign" {
		t.Errorf("wanted Assign, got %v", assign["_type"])
	}

	loc := assign["end_location"].([]int)
	if loc[0] != 1 || loc[1] != 13 {
		t.Errorf("wanted end location [1 13], got %v", loc)
	}

	target := assign["targets"].([]any)[0].(map[string]any)
	if target["id"] != "x" || target["ctx"] != "Store" {
		t.Errorf("unexpected target %v", target)
	}

	value := assign["value"].(map[string]any)
	if value["op"] != "Add" {
		t.Errorf("wanted Add, got %v", value["op"])
	}
	if value["left"].(map[string]any)["value"] != int64(1) {
		t.Errorf("wanted constant 1, got %v", value["left"])
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"DecoratorList": "decorator_list",
		"Id":            "id",
		"KwDefaults":    "kw_defaults",
	}

	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%s) = %s, wanted %s", in, got, want)
		}
	}
}

func TestOperatorNames(t *testing.T) {
	tests := map[Operator]string{
		Add:      "Add",
		Modulo:   "Mod",
		FloorDiv: "FloorDiv",
	}

	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("wanted %s, got %s", want, got)
		}
	}
}

func TestArgumentsLabel(t *testing.T) {
	one := &Constant{Value: IntValue{big.NewInt(1)}}

	tests := []struct {
		args *Arguments
		want string
	}{
		{&Arguments{}, ""},
		{
			&Arguments{
				Posonlyargs: []*Arg{{Arg: "a"}},
				Args:        []*Arg{{Arg: "b"}},
				Defaults:    []Expr{one},
			},
			"posonly=1 args=1 defaults=1",
		},
		{
			&Arguments{
				Vararg:     &Arg{Arg: "rest"},
				Kwonlyargs: []*Arg{{Arg: "c"}, {Arg: "d"}},
				KwDefaults: []Expr{nil, one},
				Kwarg:      &Arg{Arg: "kw"},
			},
			"vararg kwonly=2 kw_defaults=1 kwarg",
		},
	}

	for _, test := range tests {
		if got := test.args.Label(); got != test.want {
			t.Errorf("wanted label %q, got %q", test.want, got)
		}
	}
}

func TestImportFromLabel(t *testing.T) {
	if got := (&ImportFrom{Level: 1}).Label(); got != "level=1" {
		t.Errorf("wanted level=1, got %q", got)
	}
	if got := (&ImportFrom{Module: "os", Level: 0}).Label(); got != "os level=0" {
		t.Errorf("wanted os level=0, got %q", got)
	}
}
