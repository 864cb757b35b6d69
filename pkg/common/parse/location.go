/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import "fmt"

// Location is a position in source text. Row is 1-based, Column is a 0-based
// rune offset into the row.
type Location struct {
	Row    int
	Column int
}

func NewLocation(row, column int) Location {
	return Location{Row: row, Column: column}
}

// Before reports whether l sorts strictly before o.
func (l Location) Before(o Location) bool {
	if l.Row != o.Row {
		return l.Row < o.Row
	}
	return l.Column < o.Column
}

func (l Location) IsZero() bool {
	return l.Row == 0 && l.Column == 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Row, l.Column)
}
