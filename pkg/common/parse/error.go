/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SyntaxError is the display form shared by lexical and syntax errors.
type SyntaxError struct {
	Location Location
	Width    int
	Message  string
}

func NewSyntaxError(loc Location, width int, m string) SyntaxError {
	return SyntaxError{Location: loc, Width: width, Message: m}
}

// FormatError renders the offending source row with a caret under the error
// column, followed by the message.
func (s *SyntaxError) FormatError(input string) string {
	repeat := s.Width - 1
	if repeat < 0 {
		repeat = 0
	}

	errorString := fmt.Sprintf("Syntax error found at %s:\n", s.Location)

	lines := strings.Split(input, "\n")
	if s.Location.Row < 1 || s.Location.Row > len(lines) {
		return errorString + s.Message + "\n"
	}
	line := strings.TrimRight(lines[s.Location.Row-1], "\r")

	column := s.Location.Column
	if n := utf8.RuneCountInString(line); column > n {
		column = n
	}

	errorString += line
	errorString += fmt.Sprintf("\n%s^%s ", strings.Repeat(" ", column), strings.Repeat("~", repeat))
	errorString += fmt.Sprintf("%s\n", s.Message)
	return errorString
}
