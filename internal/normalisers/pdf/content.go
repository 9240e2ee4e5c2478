package pdf

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// tjSpaceThreshold is the TJ displacement, in thousandths of an em, beyond
// which a word gap is assumed.
const tjSpaceThreshold = 200

// ContentText extracts the strings shown by text operators in a page
// content stream. Positioning operators start a new line.
func ContentText(stream []byte) string {
	lx := &lexer{data: stream}

	var (
		out      strings.Builder
		line     strings.Builder
		operands []token
	)
	flush := func() {
		s := strings.TrimSpace(collapseSpaces(line.String()))
		line.Reset()
		if s == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(s)
	}

	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}

		switch tok.text {
		case "Tj":
			line.WriteString(lastString(operands))
		case "'", "\"":
			flush()
			line.WriteString(lastString(operands))
		case "TJ":
			for _, op := range operands {
				switch op.kind {
				case tokString:
					line.WriteString(op.text)
				case tokNumber:
					if n, err := strconv.ParseFloat(op.text, 64); err == nil && n < -tjSpaceThreshold {
						line.WriteByte(' ')
					}
				}
			}
		case "Td", "TD", "T*", "Tm", "ET":
			flush()
		case "ID":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}
	flush()

	return out.String()
}

func lastString(operands []token) string {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokString {
			return operands[i].text
		}
	}
	return ""
}

func collapseSpaces(s string) string {
	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		if unicode.IsPrint(r) {
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return b.String()
}

type tokenKind int

const (
	tokOperator tokenKind = iota
	tokString
	tokNumber
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// lexer splits a content stream into operands and operators. Array
// brackets are dropped so TJ sees its elements as plain operands.
type lexer struct {
	data []byte
	pos  int
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhite(c) || c == '[' || c == ']':
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			return token{kind: tokString, text: l.literal()}, true
		case c == '<' && l.peek(1) == '<':
			l.pos += 2
			return token{kind: tokOther, text: "<<"}, true
		case c == '>' && l.peek(1) == '>':
			l.pos += 2
			return token{kind: tokOther, text: ">>"}, true
		case c == '<':
			return token{kind: tokString, text: l.hexString()}, true
		case c == '/':
			start := l.pos
			l.pos++
			for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
				l.pos++
			}
			return token{kind: tokOther, text: string(l.data[start:l.pos])}, true
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			start := l.pos
			l.pos++
			for l.pos < len(l.data) && (l.data[l.pos] == '.' || (l.data[l.pos] >= '0' && l.data[l.pos] <= '9')) {
				l.pos++
			}
			return token{kind: tokNumber, text: string(l.data[start:l.pos])}, true
		default:
			start := l.pos
			for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
				l.pos++
			}
			if l.pos == start {
				// Stray delimiter such as ')' or '{'.
				l.pos++
				continue
			}
			return token{kind: tokOperator, text: string(l.data[start:l.pos])}, true
		}
	}
	return token{}, false
}

// skipInlineImage advances past binary inline image data up to the EI
// operator.
func (l *lexer) skipInlineImage() {
	for l.pos+2 <= len(l.data) {
		if l.data[l.pos] == 'E' && l.data[l.pos+1] == 'I' &&
			(l.pos == 0 || isWhite(l.data[l.pos-1])) &&
			(l.pos+2 == len(l.data) || isWhite(l.data[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.data)
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

// literal reads a parenthesised string with nesting and escapes.
func (l *lexer) literal() string {
	l.pos++ // (
	var raw []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '\\':
			if l.pos >= len(l.data) {
				break
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				raw = append(raw, '\n')
			case 'r':
				raw = append(raw, '\r')
			case 't':
				raw = append(raw, '\t')
			case 'b', 'f':
			case '\r', '\n':
				// Line continuation.
				if e == '\r' && l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					raw = append(raw, byte(val))
				} else {
					raw = append(raw, e)
				}
			}
		case '(':
			depth++
			raw = append(raw, c)
		case ')':
			depth--
			if depth == 0 {
				return decodeText(raw)
			}
			raw = append(raw, c)
		default:
			raw = append(raw, c)
		}
	}
	return decodeText(raw)
}

func (l *lexer) hexString() string {
	l.pos++ // <
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	digits := make([]byte, 0, l.pos-start)
	for _, c := range l.data[start:l.pos] {
		if !isWhite(c) {
			digits = append(digits, c)
		}
	}
	if l.pos < len(l.data) {
		l.pos++ // >
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw, err := hex.DecodeString(string(digits))
	if err != nil {
		return ""
	}
	return decodeText(raw)
}

// decodeText handles UTF-16BE strings with a byte order mark and treats
// everything else as a single-byte encoding.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isRegular(c byte) bool {
	if isWhite(c) {
		return false
	}
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}
