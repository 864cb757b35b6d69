/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ast

import (
	"math"
	"reflect"
	"strings"
	"unicode"
)

var baseNodeType = reflect.TypeOf(BaseNode{})

// ToMap converts a tree into nested maps and slices suitable for JSON or
// YAML encoding. Every node map carries its kind under "_type" and its span
// under "location" and "end_location".
func ToMap(node Node) map[string]any {
	if node == nil {
		return nil
	}
	v := reflect.ValueOf(node)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}

	m := map[string]any{"_type": node.Kind()}
	start, end := node.Start(), node.End()
	if !start.IsZero() || !end.IsZero() {
		m["location"] = []int{start.Row, start.Column}
		m["end_location"] = []int{end.Row, end.Column}
	}

	addFields(m, v.Elem())
	return m
}

func addFields(m map[string]any, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.Anonymous {
			if f.Type != baseNodeType {
				addFields(m, v.Field(i))
			}
			continue
		}
		if !f.IsExported() {
			continue
		}

		field := v.Field(i)
		if f.Type.Kind() == reflect.Int32 {
			// Conversion characters
			if field.Int() == 0 {
				m[snakeCase(f.Name)] = nil
			} else {
				m[snakeCase(f.Name)] = string(rune(field.Int()))
			}
			continue
		}
		m[snakeCase(f.Name)] = convert(field)
	}
}

func convert(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
	case reflect.Slice:
		if _, ok := v.Interface().(BytesValue); !ok {
			out := make([]any, v.Len())
			for i := range out {
				out[i] = convert(v.Index(i))
			}
			return out
		}
	}

	switch x := v.Interface().(type) {
	case Node:
		return ToMap(x)
	case Value:
		return constantToAny(x)
	case interface{ String() string }:
		return x.String()
	default:
		return x
	}
}

func constantToAny(v Value) any {
	switch c := v.(type) {
	case NoneValue:
		return nil
	case BoolValue:
		return bool(c)
	case IntValue:
		if c.IsInt64() {
			return c.Int64()
		}
		return c.String()
	case FloatValue:
		if math.IsInf(float64(c), 0) || math.IsNaN(float64(c)) {
			return c.String()
		}
		return float64(c)
	case ComplexValue:
		return map[string]any{"real": c.Real, "imag": c.Imag}
	case StrValue:
		return string(c)
	case BytesValue:
		return string(c)
	}
	return v.String()
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
