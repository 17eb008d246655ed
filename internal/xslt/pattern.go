package xslt

import (
	"fmt"
	"strings"
)

// pattern is one alternative of a match attribute.
// A node matches when it is selected by query evaluated from the document
// root: "/" stays as is, absolute patterns are used verbatim, and relative
// patterns get a "//" prefix. Patterns only use the child and attribute
// axes, so this selects exactly the nodes the pattern matches.
type pattern struct {
	source   string
	query    string
	priority float64
}

func (ss *Stylesheet) compilePattern(source string) (*pattern, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty match pattern", ErrStylesheet)
	}

	query := source
	if !strings.HasPrefix(source, "/") {
		query = "//" + source
	}
	if err := ss.compileExpr(query); err != nil {
		return nil, err
	}
	return &pattern{source: source, query: query, priority: defaultPriority(source)}, nil
}

// defaultPriority implements the XSLT 1.0 default priority table.
func defaultPriority(p string) float64 {
	if strings.ContainsAny(p, "/[") {
		return 0.5
	}
	test := strings.TrimPrefix(p, "child::")
	test = strings.TrimPrefix(test, "attribute::")
	test = strings.TrimPrefix(test, "@")

	switch {
	case test == "*", test == "node()", test == "text()", test == "comment()",
		test == "processing-instruction()":
		return -0.5
	case strings.HasSuffix(test, ":*"):
		return -0.25
	case isQName(test), strings.HasPrefix(test, "processing-instruction("):
		return 0
	default:
		return 0.5
	}
}

func isQName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r == '_', r == '-', r == '.', r == ':':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}

// splitPattern splits a match attribute on top-level "|".
func splitPattern(match string) ([]string, error) {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range match {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case r == '|' && depth == 0:
			parts = append(parts, match[start:i])
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced match pattern %q", ErrStylesheet, match)
	}
	parts = append(parts, match[start:])
	return parts, nil
}

// avtPart is a literal run or an embedded expression of an attribute value
// template.
type avtPart struct {
	text   string
	expr   string
	isExpr bool
}

// parseAVT splits an attribute value template into literal text and
// expressions. "{{" and "}}" stand for literal braces.
func parseAVT(s string) ([]avtPart, error) {
	var (
		parts []avtPart
		lit   strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, avtPart{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := closingBrace(s, i+1)
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed '{' in %q", ErrStylesheet, s)
			}
			expr := strings.TrimSpace(s[i+1 : end])
			if expr == "" {
				return nil, fmt.Errorf("%w: empty expression in %q", ErrStylesheet, s)
			}
			flush()
			parts = append(parts, avtPart{expr: expr, isExpr: true})
			i = end
		case c == '}':
			return nil, fmt.Errorf("%w: unmatched '}' in %q", ErrStylesheet, s)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return parts, nil
}

// closingBrace returns the index of the '}' ending an expression that
// starts at from, skipping string literals. Returns -1 if there is none.
func closingBrace(s string, from int) int {
	var quote byte
	for i := from; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '}':
			return i
		}
	}
	return -1
}
