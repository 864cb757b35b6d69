/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"errors"
	"strconv"
	"strings"
)

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// decodeEscapes resolves backslash escapes in a non-raw string literal body.
// Unknown escapes are kept verbatim.
func decodeEscapes(s string, bytes bool) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}

		n := s[i+1]
		if v, ok := simpleEscapes[n]; ok {
			b.WriteByte(v)
			i += 2
			continue
		}

		switch {
		case n == '\n':
			i += 2
		case n == '\r':
			i += 2
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case n >= '0' && n <= '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			writeCode(&b, v, bytes)
			i = j
		case n == 'x':
			v, err := hexEscape(s, i+2, 2)
			if err != nil {
				return "", errors.New(`truncated \xXX escape`)
			}
			writeCode(&b, v, bytes)
			i += 4
		case !bytes && (n == 'u' || n == 'U'):
			size := 4
			if n == 'U' {
				size = 8
			}
			v, err := hexEscape(s, i+2, size)
			if err != nil || v > 0x10FFFF {
				return "", errors.New("invalid unicode escape")
			}
			b.WriteRune(rune(v))
			i += 2 + size
		default:
			b.WriteByte('\\')
			i++
		}
	}

	return b.String(), nil
}

func hexEscape(s string, start, size int) (uint64, error) {
	if start+size > len(s) {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(s[start:start+size], 16, 32)
}

func writeCode(b *strings.Builder, v uint64, bytes bool) {
	if bytes {
		b.WriteByte(byte(v))
		return
	}
	b.WriteRune(rune(v))
}
