package xslt

import (
	"strings"

	"github.com/ChrisTrenkamp/goxpath/tree"
)

// Variables holding the position and size of the current node list.
// goxpath resolves position() and last() against its own evaluation
// context, which is always a single node here, so calls outside
// predicates are rewritten to read these instead.
const (
	positionVar = "xbelmark.position"
	sizeVar     = "xbelmark.size"
)

// focus is the current node's place in the current node list.
type focus struct {
	pos  int
	size int
}

var rootFocus = focus{pos: 1, size: 1}

// bind returns a copy of s carrying f.
func (f focus) bind(s scope) scope {
	next := make(scope, len(s)+2)
	for k, v := range s {
		next[k] = v
	}
	next[positionVar] = tree.Num(f.pos)
	next[sizeVar] = tree.Num(f.size)
	return next
}

// focusOf reads the focus bound in s.
func focusOf(s scope) focus {
	f := rootFocus
	if v, ok := s[positionVar].(tree.Num); ok {
		f.pos = int(v)
	}
	if v, ok := s[sizeVar].(tree.Num); ok {
		f.size = int(v)
	}
	return f
}

// bindFocus rewrites position() and last() calls that sit outside any
// predicate into references to the focus variables. String literals and
// predicates are left untouched.
func bindFocus(expr string) string {
	if !strings.Contains(expr, "position") && !strings.Contains(expr, "last") {
		return expr
	}

	var (
		b     strings.Builder
		depth int
		quote byte
	)
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case depth == 0 && !isNameByte(prevByte(expr, i)):
			if name, end, ok := focusCall(expr, i); ok {
				b.WriteString(" $")
				b.WriteString(name)
				b.WriteByte(' ')
				i = end - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// focusCall reports whether a position() or last() call starts at i and
// returns the variable replacing it and the index just past the call.
func focusCall(expr string, i int) (string, int, bool) {
	for fn, name := range map[string]string{"position": positionVar, "last": sizeVar} {
		if !strings.HasPrefix(expr[i:], fn) {
			continue
		}
		j := i + len(fn)
		if j < len(expr) && isNameByte(expr[j]) {
			continue
		}
		j = skipSpace(expr, j)
		if j >= len(expr) || expr[j] != '(' {
			continue
		}
		j = skipSpace(expr, j+1)
		if j >= len(expr) || expr[j] != ')' {
			continue
		}
		return name, j + 1, true
	}
	return "", 0, false
}

func prevByte(s string, i int) byte {
	if i == 0 {
		return ' '
	}
	return s[i-1]
}

// isNameByte reports whether c can continue an XPath name. Bytes of
// multibyte runes count as name bytes. ':' and '$' are included so that
// prefixed functions and variables are never rewritten.
func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '-', c == '.', c == ':', c == '$', c >= 0x80:
		return true
	}
	return false
}

func skipSpace(s string, i int) int {
	for i < len(s) && strings.IndexByte(" \t\r\n", s[i]) >= 0 {
		i++
	}
	return i
}
