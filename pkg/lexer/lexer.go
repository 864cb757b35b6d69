/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package lexer

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/token"
)

const tabSize = 8

// Error is a lexical error. The parser hands it back to callers unchanged.
type Error struct {
	Location parse.Location
	Message  string
	// Incomplete is set when more input could still make the source valid,
	// such as an open bracket or triple-quoted string at end of input.
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

var operators = map[string]token.TokenType{}

func init() {
	for t := token.TOK_LPAR; t <= token.TOK_ELLIPSIS; t++ {
		operators[t.Text()] = t
	}
}

// Scanner turns source text into tokens, tracking indentation and bracket
// nesting. It implements token.Source.
type Scanner struct {
	Input string
	Start int
	Pos   int

	origin      parse.Location
	lineStarts  []int
	indents     []int
	depth       int
	atLineStart bool
	lineOpen    bool
	pending     []token.Spanned
	done        bool
}

func New(input string) *Scanner {
	return NewAt(input, parse.NewLocation(1, 0))
}

// NewAt returns a Scanner whose locations are reported relative to origin,
// for lexing fragments embedded in a larger source.
func NewAt(input string, origin parse.Location) *Scanner {
	s := &Scanner{
		Input:       input,
		origin:      origin,
		lineStarts:  []int{0},
		indents:     []int{0},
		atLineStart: true,
	}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Tokenize lexes input in full.
func Tokenize(input string) ([]token.Spanned, error) {
	return token.Collect(New(input))
}

func (s *Scanner) NextToken() (token.Spanned, error) {
	for len(s.pending) == 0 {
		if s.done {
			return token.Spanned{}, io.EOF
		}
		if err := s.scan(); err != nil {
			s.done = true
			return token.Spanned{}, err
		}
	}

	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, nil
}

// Location converts a byte offset into a row/column location.
func (s *Scanner) Location(offset int) parse.Location {
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	column := utf8.RuneCountInString(s.Input[s.lineStarts[line]:offset])

	if line == 0 {
		column += s.origin.Column
	}
	return parse.NewLocation(line+s.origin.Row, column)
}

func (s *Scanner) errorf(offset int, format string, args ...any) error {
	return &Error{Location: s.Location(offset), Message: fmt.Sprintf(format, args...)}
}

func (s *Scanner) incomplete(offset int, message string) error {
	return &Error{Location: s.Location(offset), Message: message, Incomplete: true}
}

func (s *Scanner) emit(tok token.Token) {
	s.pending = append(s.pending, token.Spanned{
		Start: s.Location(s.Start),
		Tok:   tok,
		End:   s.Location(s.Pos),
	})

	switch tok.Type {
	case token.TOK_NEWLINE, token.TOK_NL, token.TOK_COMMENT, token.TOK_INDENT, token.TOK_DEDENT:
	default:
		s.lineOpen = true
	}
}

func (s *Scanner) scan() error {
	if s.atLineStart && s.depth == 0 {
		s.atLineStart = false
		if err := s.indentation(); err != nil {
			return err
		}
		if len(s.pending) > 0 {
			return nil
		}
	}

	if err := s.skipWhitespace(); err != nil {
		return err
	}

	s.Start = s.Pos
	if s.Pos >= len(s.Input) {
		return s.finish()
	}

	r, width := utf8.DecodeRuneInString(s.Input[s.Pos:])

	switch {
	case r == '\n' || r == '\r':
		s.newline(width)
	case r == '#':
		s.Pos += s.MatchComment()
		s.emit(token.NewComment(s.Input[s.Start+1 : s.Pos]))
	case isIdentifierStart(r):
		ident := s.Input[s.Pos : s.Pos+s.MatchIdentifier()]
		if s.Pos+len(ident) < len(s.Input) && isQuote(s.Input[s.Pos+len(ident)]) && isStringPrefix(ident) {
			s.Pos += len(ident)
			return s.scanString(strings.ToLower(ident))
		}
		s.Pos += len(ident)
		if t, ok := token.Keyword(ident); ok {
			s.emit(token.New(t))
		} else {
			s.emit(token.NewName(ident))
		}
	case isDigit(r) || (r == '.' && s.Pos+1 < len(s.Input) && isDigit(rune(s.Input[s.Pos+1]))):
		return s.scanNumber()
	case r == '"' || r == '\'':
		return s.scanString("")
	default:
		return s.scanOperator()
	}

	return nil
}

// indentation measures the leading whitespace of a logical line and emits
// Indent/Dedent tokens against the indentation stack.
func (s *Scanner) indentation() error {
	column := 0
measure:
	for s.Pos < len(s.Input) {
		switch s.Input[s.Pos] {
		case ' ':
			column++
		case '\t':
			column = (column/tabSize + 1) * tabSize
		case '\f':
			column = 0
		default:
			break measure
		}
		s.Pos++
	}

	if s.Pos >= len(s.Input) {
		return nil
	}
	switch s.Input[s.Pos] {
	case '\n', '\r', '#':
		// Blank and comment-only lines don't affect indentation
		return nil
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case column > top:
		s.indents = append(s.indents, column)
		s.Start = s.lineStarts[s.Location(s.Pos).Row-s.origin.Row]
		s.emit(token.New(token.TOK_INDENT))
	case column < top:
		s.Start = s.Pos
		for column < s.indents[len(s.indents)-1] {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(token.New(token.TOK_DEDENT))
		}
		if column != s.indents[len(s.indents)-1] {
			return s.errorf(s.Pos, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (s *Scanner) skipWhitespace() error {
	for s.Pos < len(s.Input) {
		switch s.Input[s.Pos] {
		case ' ', '\t', '\f':
			s.Pos++
		case '\\':
			rest := s.Input[s.Pos+1:]
			switch {
			case strings.HasPrefix(rest, "\r\n"):
				s.Pos += 3
			case strings.HasPrefix(rest, "\n"):
				s.Pos += 2
			default:
				return s.errorf(s.Pos, "unexpected character after line continuation character")
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) newline(width int) {
	if s.Input[s.Pos] == '\r' && strings.HasPrefix(s.Input[s.Pos:], "\r\n") {
		width = 2
	}

	tok := token.New(token.TOK_NL)
	if s.depth == 0 && s.lineOpen {
		tok = token.New(token.TOK_NEWLINE)
		s.lineOpen = false
	}

	start := s.Location(s.Start)
	s.Pos += width
	s.pending = append(s.pending, token.Spanned{
		Start: start,
		Tok:   tok,
		End:   parse.NewLocation(start.Row, start.Column+1),
	})

	if s.depth == 0 {
		s.atLineStart = true
	}
}

func (s *Scanner) finish() error {
	if s.depth > 0 {
		return s.incomplete(s.Pos, "unexpected EOF in multi-line statement")
	}
	if s.lineOpen {
		s.emit(token.New(token.TOK_NEWLINE))
		s.lineOpen = false
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(token.New(token.TOK_DEDENT))
	}
	s.done = true
	return nil
}

// MatchComment returns the length of the comment starting at Pos, up to but
// not including the line break.
func (s *Scanner) MatchComment() int {
	end := strings.IndexAny(s.Input[s.Pos:], "\r\n")
	if end < 0 {
		return len(s.Input) - s.Pos
	}
	return end
}

// MatchIdentifier returns the length of the next token, assuming it is an
// identifier.
//
// Grammar:
//
//	identifier      = ( ALPHA / "_" ) *( ALPHA / DIGIT / "_" )
func (s *Scanner) MatchIdentifier() int {
	i := s.Pos
	size := 0
	r, width := utf8.DecodeRuneInString(s.Input[i:])

	for i < len(s.Input) && (isIdentifierStart(r) || unicode.IsDigit(r)) {
		size += width
		i += width
		r, width = utf8.DecodeRuneInString(s.Input[i:])
	}

	return size
}

// MatchDigits returns the number of bytes at offset that are digits valid in
// base, or underscores.
func (s *Scanner) MatchDigits(offset int, base int) int {
	i := offset
	for i < len(s.Input) {
		c := s.Input[i]
		if c != '_' && !isDigitInBase(c, base) {
			break
		}
		i++
	}
	return i - offset
}

func (s *Scanner) scanNumber() error {
	if s.Input[s.Pos] == '0' && s.Pos+1 < len(s.Input) {
		base := 0
		switch s.Input[s.Pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			width := s.MatchDigits(s.Pos+2, base)
			run := s.Input[s.Pos+2 : s.Pos+2+width]
			if !validUnderscores(run, true) {
				return s.errorf(s.Start, "invalid number literal")
			}
			value, ok := new(big.Int).SetString(strings.ReplaceAll(run, "_", ""), base)
			if !ok {
				return s.errorf(s.Start, "invalid number literal")
			}
			return s.endNumber(s.Pos+2+width, token.NewInt(value))
		}
	}

	i := s.Pos + s.MatchDigits(s.Pos, 10)
	if !validUnderscores(s.Input[s.Pos:i], false) {
		return s.errorf(s.Start, "invalid number literal")
	}
	isFloat := false

	if i < len(s.Input) && s.Input[i] == '.' {
		i++
		end := i + s.MatchDigits(i, 10)
		if !validUnderscores(s.Input[i:end], false) {
			return s.errorf(s.Start, "invalid number literal")
		}
		i = end
		isFloat = true
	}

	// An exponent marker without digits is left for endNumber to reject,
	// unless it starts a keyword such as `else`.
	if i < len(s.Input) && (s.Input[i] == 'e' || s.Input[i] == 'E') {
		j := i + 1
		if j < len(s.Input) && (s.Input[j] == '+' || s.Input[j] == '-') {
			j++
		}
		if j < len(s.Input) && isDigit(rune(s.Input[j])) {
			end := j + s.MatchDigits(j, 10)
			if !validUnderscores(s.Input[j:end], false) {
				return s.errorf(s.Start, "invalid number literal")
			}
			i = end
			isFloat = true
		} else if j > i+1 {
			return s.errorf(s.Start, "invalid number literal")
		}
	}

	lexeme := strings.ReplaceAll(s.Input[s.Pos:i], "_", "")

	if i < len(s.Input) && (s.Input[i] == 'j' || s.Input[i] == 'J') {
		imag, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return s.errorf(s.Start, "invalid imaginary literal")
		}
		return s.endNumber(i+1, token.NewComplex(0, imag))
	}

	if isFloat {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return s.errorf(s.Start, "invalid float literal")
		}
		return s.endNumber(i, token.NewFloat(value))
	}

	if len(lexeme) > 1 && lexeme[0] == '0' && strings.Trim(lexeme, "0") != "" {
		return s.errorf(s.Start, "leading zeros in decimal integer literals are not permitted")
	}
	value, ok := new(big.Int).SetString(lexeme, 10)
	if !ok {
		return s.errorf(s.Start, "invalid number literal")
	}
	return s.endNumber(i, token.NewInt(value))
}

// keywordsAfterNumber may directly follow a number literal, as in `1if x
// else 2`.
var keywordsAfterNumber = map[string]bool{
	"and": true, "else": true, "for": true, "if": true,
	"in": true, "is": true, "not": true, "or": true,
}

// endNumber emits tok for the literal ending at end. A literal running
// straight into an identifier is invalid.
func (s *Scanner) endNumber(end int, tok token.Token) error {
	s.Pos = end
	if r, _ := utf8.DecodeRuneInString(s.Input[end:]); end < len(s.Input) && isIdentifierStart(r) {
		ident := s.Input[end : end+s.MatchIdentifier()]
		if !keywordsAfterNumber[ident] {
			return s.errorf(s.Start, "invalid number literal")
		}
	}
	s.emit(tok)
	return nil
}

// validUnderscores reports whether every underscore in run sits between two
// digits. After a base prefix a single leading underscore is allowed.
func validUnderscores(run string, afterPrefix bool) bool {
	if run == "" {
		return true
	}
	if run[0] == '_' && !afterPrefix {
		return false
	}
	return run[len(run)-1] != '_' && !strings.Contains(run, "__")
}

func (s *Scanner) scanString(prefix string) error {
	quote := s.Input[s.Pos : s.Pos+1]
	delimiter := quote
	if strings.HasPrefix(s.Input[s.Pos:], strings.Repeat(quote, 3)) {
		delimiter = strings.Repeat(quote, 3)
	}
	triple := len(delimiter) == 3

	i := s.Pos + len(delimiter)
	contentStart := i
	for {
		if i >= len(s.Input) {
			if triple {
				return s.incomplete(s.Start, "unterminated triple-quoted string literal")
			}
			return s.errorf(s.Start, "unterminated string literal")
		}
		c := s.Input[i]
		if c == '\\' {
			i += 2
			continue
		}
		if !triple && (c == '\n' || c == '\r') {
			return s.errorf(s.Start, "unterminated string literal")
		}
		if strings.HasPrefix(s.Input[i:], delimiter) {
			break
		}
		i++
	}
	content := s.Input[contentStart:i]
	s.Pos = i + len(delimiter)

	kind := token.StringPlain
	switch {
	case strings.Contains(prefix, "b"):
		kind = token.StringBytes
	case strings.Contains(prefix, "f"):
		kind = token.StringF
	case strings.Contains(prefix, "u"):
		kind = token.StringUnicode
	}

	if kind == token.StringBytes {
		for j := 0; j < len(content); j++ {
			if content[j] >= utf8.RuneSelf {
				return s.errorf(s.Start, "bytes can only contain ASCII literal characters")
			}
		}
	}

	if !strings.Contains(prefix, "r") {
		decoded, err := decodeEscapes(content, kind == token.StringBytes)
		if err != nil {
			return s.errorf(s.Start, "%s", err.Error())
		}
		content = decoded
	}

	s.emit(token.NewString(content, kind, triple))
	return nil
}

func (s *Scanner) scanOperator() error {
	for n := 3; n >= 1; n-- {
		if s.Pos+n > len(s.Input) {
			continue
		}
		t, ok := operators[s.Input[s.Pos:s.Pos+n]]
		if !ok {
			continue
		}

		switch t {
		case token.TOK_LPAR, token.TOK_LSQB, token.TOK_LBRACE:
			s.depth++
		case token.TOK_RPAR, token.TOK_RSQB, token.TOK_RBRACE:
			if s.depth > 0 {
				s.depth--
			}
		}

		s.Pos += n
		s.emit(token.New(t))
		return nil
	}

	r, _ := utf8.DecodeRuneInString(s.Input[s.Pos:])
	return s.errorf(s.Pos, "invalid character %q", r)
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isDigitInBase(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 8:
		return c >= '0' && c <= '7'
	case 16:
		return isDigit(rune(c)) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return isDigit(rune(c))
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

func isStringPrefix(ident string) bool {
	switch strings.ToLower(ident) {
	case "r", "u", "b", "br", "rb", "f", "fr", "rf":
		return true
	}
	return false
}
