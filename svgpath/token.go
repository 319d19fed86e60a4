// Tokenizes and rewrites the `d` path-data mini-language.
// The grammar is an alternating run of one-letter commands, numbers and
// inert separators; round-tripping the token stream reproduces the input
// byte-for-byte except where a number was rewritten.
package svgpath

import (
	"fmt"
	"strconv"
)

// ErrorReason classifies a path-data parse failure.
type ErrorReason uint8

const (
	InvalidCommand ErrorReason = iota
	InvalidNumber
	InvalidSeparator
	UnexpectedToken
	UnexpectedEOF
)

func (r ErrorReason) String() string {
	switch r {
	case InvalidCommand:
		return "invalid command"
	case InvalidNumber:
		return "invalid number"
	case InvalidSeparator:
		return "invalid separator"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEOF:
		return "unexpected end of input"
	default:
		return "<unknown reason>"
	}
}

// ParseError locates a failure inside path data.
type ParseError struct {
	Offset  int    // byte offset of the offending token
	Snippet string // input text starting at Offset, truncated
	Reason  ErrorReason
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d near %q", e.Reason, e.Offset, e.Snippet)
}

const snippetLen = 16

func newError(d string, offset int, reason ErrorReason) *ParseError {
	end := offset + snippetLen
	if end > len(d) {
		end = len(d)
	}
	return &ParseError{Offset: offset, Snippet: d[offset:end], Reason: reason}
}

// TokenKind discriminates the Token variants.
type TokenKind uint8

const (
	SeparatorToken TokenKind = iota
	CommandToken
	NumberToken
)

// Token is one lexical element of path data. Raw always holds the exact
// input text; Value is set for NumberToken only.
type Token struct {
	Kind  TokenKind
	Raw   string
	Value float64
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v',
		'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || isDigit(c)
}

// scanNumber consumes [+-]?digits?(.digits)?([eE][+-]?digits)? starting
// at i and returns the end offset. ok is false when no digit was seen or
// an exponent marker is not followed by digits.
func scanNumber(d string, i int) (end int, ok bool) {
	hasDigit := false
	if i < len(d) && (d[i] == '+' || d[i] == '-') {
		i++
	}
	for i < len(d) && isDigit(d[i]) {
		hasDigit = true
		i++
	}
	if i < len(d) && d[i] == '.' {
		i++
		for i < len(d) && isDigit(d[i]) {
			hasDigit = true
			i++
		}
	}
	if !hasDigit {
		return i, false
	}
	if i < len(d) && (d[i] == 'e' || d[i] == 'E') {
		i++
		if i < len(d) && (d[i] == '+' || d[i] == '-') {
			i++
		}
		expDigit := false
		for i < len(d) && isDigit(d[i]) {
			expDigit = true
			i++
		}
		if !expDigit {
			return i, false
		}
	}
	return i, true
}

// Tokenize decomposes d into its full token sequence, consuming the
// entire input. Any text the grammar cannot classify is a hard error.
func Tokenize(d string) ([]Token, error) {
	var toks []Token
	seenCommand := false
	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case isSeparator(c):
			start := i
			for i < len(d) && isSeparator(d[i]) {
				i++
			}
			toks = append(toks, Token{Kind: SeparatorToken, Raw: d[start:i]})
		case isCommand(c):
			toks = append(toks, Token{Kind: CommandToken, Raw: d[i : i+1]})
			seenCommand = true
			i++
		case isNumberStart(c):
			if !seenCommand {
				return nil, newError(d, i, UnexpectedToken)
			}
			end, ok := scanNumber(d, i)
			if !ok {
				if end == len(d) && !isDigit(d[end-1]) && (d[end-1] == '+' || d[end-1] == '-' || d[end-1] == '.') {
					return nil, newError(d, i, UnexpectedEOF)
				}
				return nil, newError(d, i, InvalidNumber)
			}
			v, err := strconv.ParseFloat(d[i:end], 64)
			if err != nil {
				return nil, newError(d, i, InvalidNumber)
			}
			toks = append(toks, Token{Kind: NumberToken, Raw: d[i:end], Value: v})
			i = end
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			return nil, newError(d, i, InvalidCommand)
		default:
			return nil, newError(d, i, InvalidSeparator)
		}
	}
	return toks, nil
}
