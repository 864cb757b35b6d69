/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"math/big"
	"strconv"

	"github.com/dburkart/strata/pkg/token"
)

// Value is the payload of a Constant.
type Value interface {
	String() string
	constantValue()
}

type (
	NoneValue     struct{}
	EllipsisValue struct{}
	BoolValue     bool
	IntValue      struct{ *big.Int }
	FloatValue    float64
	ComplexValue  struct{ Real, Imag float64 }
	StrValue      string
	BytesValue    []byte
)

func (NoneValue) constantValue()     {}
func (EllipsisValue) constantValue() {}
func (BoolValue) constantValue()     {}
func (IntValue) constantValue()      {}
func (FloatValue) constantValue()    {}
func (ComplexValue) constantValue()  {}
func (StrValue) constantValue()      {}
func (BytesValue) constantValue()    {}

func (NoneValue) String() string     { return "None" }
func (EllipsisValue) String() string { return "..." }

func (b BoolValue) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (i IntValue) String() string {
	return i.Int.String()
}

func (f FloatValue) String() string {
	return token.FormatFloat(float64(f))
}

func (c ComplexValue) String() string {
	return token.NewComplex(c.Real, c.Imag).String()
}

func (s StrValue) String() string {
	return strconv.Quote(string(s))
}

func (b BytesValue) String() string {
	return "b" + strconv.Quote(string(b))
}
