/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import "testing"

func TestFormatError(t *testing.T) {
	s := NewSyntaxError(NewLocation(2, 6), 3, "unrecognized token 'def'")

	got := s.FormatError("x = 1\ny = 2 def\n")
	want := "Syntax error found at 2:6:\ny = 2 def\n      ^~~ unrecognized token 'def'\n"
	if got != want {
		t.Errorf("wanted:\n%q\ngot:\n%q", want, got)
	}
}

func TestFormatErrorOutOfRange(t *testing.T) {
	s := NewSyntaxError(Location{}, 0, "unexpected end of input")

	got := s.FormatError("")
	want := "Syntax error found at 0:0:\nunexpected end of input\n"
	if got != want {
		t.Errorf("wanted %q, got %q", want, got)
	}
}

func TestLocationBefore(t *testing.T) {
	tests := []struct {
		a, b Location
		want bool
	}{
		{NewLocation(1, 0), NewLocation(1, 1), true},
		{NewLocation(1, 5), NewLocation(2, 0), true},
		{NewLocation(2, 0), NewLocation(1, 9), false},
		{NewLocation(3, 3), NewLocation(3, 3), false},
	}

	for _, tt := range tests {
		if got := tt.a.Before(tt.b); got != tt.want {
			t.Errorf("%s.Before(%s) = %v, wanted %v", tt.a, tt.b, got, tt.want)
		}
	}
}
