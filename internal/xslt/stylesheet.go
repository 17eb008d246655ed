package xslt

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisTrenkamp/goxpath"
	"github.com/beevik/etree"
)

// Namespace is the XSLT namespace URI.
const Namespace = "http://www.w3.org/1999/XSL/Transform"

// Output holds the xsl:output settings of a stylesheet.
type Output struct {
	Method             string // "xml", "html", "text" or "" (decided from the result)
	Indent             bool
	OmitXMLDeclaration bool
	DoctypePublic      string
	DoctypeSystem      string
}

// Stylesheet is a compiled stylesheet. It is read-only after Compile and
// may be shared by Processors.
type Stylesheet struct {
	output  Output
	rules   []rule
	named   map[string]*template
	globals []*etree.Element

	// Prefix declarations copied onto top-level literal result elements.
	rootDecls []etree.Attr

	namespaces map[*etree.Element]map[string]string
	exprs      map[string]goxpath.XPathExec
	avts       map[string][]avtPart
	excluded   map[string]bool
}

// template is an xsl:template (or the body of a simplified stylesheet).
type template struct {
	name string
	mode string
	body *etree.Element
}

// rule binds one match alternative to its template.
type rule struct {
	pat      *pattern
	tpl      *template
	priority float64
	order    int
}

// Load reads and compiles the stylesheet at path.
func Load(path string) (*Stylesheet, error) {
	f, err := os.Open(path) // #nosec G304 -- stylesheet path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStylesheet, err)
	}
	defer func() { _ = f.Close() }()
	return Compile(f)
}

// Compile parses a stylesheet and compiles every XPath expression, match
// pattern and attribute value template it contains.
func Compile(r io.Reader) (*Stylesheet, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStylesheet, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrStylesheet)
	}

	ss := &Stylesheet{
		named:      make(map[string]*template),
		namespaces: make(map[*etree.Element]map[string]string),
		exprs:      make(map[string]goxpath.XPathExec),
		avts:       make(map[string][]avtPart),
		excluded:   map[string]bool{Namespace: true},
	}
	ss.collectNamespaces(root, nil)

	switch {
	case isXSL(root) && (root.Tag == "stylesheet" || root.Tag == "transform"):
		if err := ss.compileTopLevel(root); err != nil {
			return nil, err
		}
	case xslAttr(root, "version") != nil:
		// Simplified stylesheet: the document element is the template for "/".
		if a := xslAttr(root, "exclude-result-prefixes"); a != nil {
			ss.excludePrefixes(root, a.Value)
		}
		tpl := &template{body: &doc.Element}
		pat, err := ss.compilePattern("/")
		if err != nil {
			return nil, err
		}
		ss.rules = append(ss.rules, rule{pat: pat, tpl: tpl, priority: pat.priority})
	default:
		return nil, fmt.Errorf("%w: root element <%s> is not xsl:stylesheet", ErrStylesheet, root.FullTag())
	}

	if err := ss.compileTree(root); err != nil {
		return nil, err
	}

	// Highest priority first; among equals the last declared wins.
	sort.SliceStable(ss.rules, func(i, j int) bool {
		if ss.rules[i].priority != ss.rules[j].priority {
			return ss.rules[i].priority > ss.rules[j].priority
		}
		return ss.rules[i].order > ss.rules[j].order
	})
	return ss, nil
}

// Output returns the xsl:output settings.
func (ss *Stylesheet) Output() Output {
	return ss.output
}

func (ss *Stylesheet) compileTopLevel(root *etree.Element) error {
	ss.excludePrefixes(root, root.SelectAttrValue("exclude-result-prefixes", ""))
	ss.excludePrefixes(root, root.SelectAttrValue("extension-element-prefixes", ""))
	for _, a := range root.Attr {
		if isNamespaceDecl(a) && !ss.excluded[a.Value] {
			ss.rootDecls = append(ss.rootDecls, a)
		}
	}

	order := 0
	for _, el := range root.ChildElements() {
		if !isXSL(el) {
			continue // user-defined top-level elements are ignored
		}
		switch el.Tag {
		case "output":
			ss.compileOutput(el)
		case "template":
			order++
			if err := ss.compileTemplate(el, order); err != nil {
				return err
			}
		case "param", "variable":
			if el.SelectAttrValue("name", "") == "" {
				return fmt.Errorf("%w: top-level xsl:%s without name", ErrStylesheet, el.Tag)
			}
			ss.globals = append(ss.globals, el)
		case "strip-space", "preserve-space":
		default:
			return fmt.Errorf("%w: top-level xsl:%s", ErrUnsupported, el.Tag)
		}
	}
	return nil
}

func (ss *Stylesheet) compileOutput(el *etree.Element) {
	if v := el.SelectAttrValue("method", ""); v != "" {
		ss.output.Method = strings.ToLower(v)
	}
	if v := el.SelectAttr("indent"); v != nil {
		ss.output.Indent = v.Value == "yes"
	}
	if v := el.SelectAttr("omit-xml-declaration"); v != nil {
		ss.output.OmitXMLDeclaration = v.Value == "yes"
	}
	if v := el.SelectAttrValue("doctype-public", ""); v != "" {
		ss.output.DoctypePublic = v
	}
	if v := el.SelectAttrValue("doctype-system", ""); v != "" {
		ss.output.DoctypeSystem = v
	}
}

func (ss *Stylesheet) compileTemplate(el *etree.Element, order int) error {
	tpl := &template{
		name: el.SelectAttrValue("name", ""),
		mode: el.SelectAttrValue("mode", ""),
		body: el,
	}
	match := el.SelectAttrValue("match", "")
	if tpl.name == "" && match == "" {
		return fmt.Errorf("%w: xsl:template needs a match or name attribute", ErrStylesheet)
	}
	if tpl.name != "" {
		ss.named[tpl.name] = tpl
	}
	if match == "" {
		return nil
	}

	var explicit *float64
	if v := el.SelectAttrValue("priority", ""); v != "" {
		p, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: invalid priority %q", ErrStylesheet, v)
		}
		explicit = &p
	}

	alternatives, err := splitPattern(match)
	if err != nil {
		return err
	}
	for _, alt := range alternatives {
		pat, err := ss.compilePattern(alt)
		if err != nil {
			return err
		}
		r := rule{pat: pat, tpl: tpl, priority: pat.priority, order: order}
		if explicit != nil {
			r.priority = *explicit
		}
		ss.rules = append(ss.rules, r)
	}
	return nil
}

// compileTree compiles the expressions used by every element below el.
func (ss *Stylesheet) compileTree(el *etree.Element) error {
	if isXSL(el) {
		if err := ss.compileInstruction(el); err != nil {
			return err
		}
	} else {
		for _, a := range el.Attr {
			if isNamespaceDecl(a) || a.NamespaceURI() == Namespace {
				continue
			}
			if err := ss.compileAVT(a.Value); err != nil {
				return err
			}
		}
	}
	for _, child := range el.ChildElements() {
		if err := ss.compileTree(child); err != nil {
			return err
		}
	}
	return nil
}

// requiredAttrs lists the attributes each instruction cannot do without.
var requiredAttrs = map[string][]string{
	"apply-templates":        nil,
	"attribute":              {"name"},
	"call-template":          {"name"},
	"choose":                 nil,
	"comment":                nil,
	"copy":                   nil,
	"copy-of":                {"select"},
	"element":                {"name"},
	"fallback":               nil,
	"for-each":               {"select"},
	"if":                     {"test"},
	"message":                nil,
	"otherwise":              nil,
	"output":                 nil,
	"param":                  {"name"},
	"preserve-space":         nil,
	"processing-instruction": {"name"},
	"sort":                   nil,
	"strip-space":            nil,
	"stylesheet":             nil,
	"template":               nil,
	"text":                   nil,
	"transform":              nil,
	"value-of":               {"select"},
	"variable":               {"name"},
	"when":                   {"test"},
	"with-param":             {"name"},
}

func (ss *Stylesheet) compileInstruction(el *etree.Element) error {
	required, known := requiredAttrs[el.Tag]
	if !known {
		return fmt.Errorf("%w: xsl:%s", ErrUnsupported, el.Tag)
	}
	for _, name := range required {
		if el.SelectAttr(name) == nil {
			return fmt.Errorf("%w: xsl:%s requires a %s attribute", ErrStylesheet, el.Tag, name)
		}
	}

	for _, name := range []string{"select", "test"} {
		if a := el.SelectAttr(name); a != nil {
			if err := ss.compileExpr(a.Value); err != nil {
				return err
			}
		}
	}
	switch el.Tag {
	case "element", "attribute", "processing-instruction":
		for _, name := range []string{"name", "namespace"} {
			if a := el.SelectAttr(name); a != nil {
				if err := ss.compileAVT(a.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (ss *Stylesheet) compileExpr(expr string) error {
	if _, ok := ss.exprs[expr]; ok {
		return nil
	}
	xp, err := goxpath.Parse(bindFocus(expr))
	if err != nil {
		return fmt.Errorf("%w: XPath %q: %v", ErrStylesheet, expr, err)
	}
	ss.exprs[expr] = xp
	return nil
}

func (ss *Stylesheet) compileAVT(raw string) error {
	if _, ok := ss.avts[raw]; ok {
		return nil
	}
	parts, err := parseAVT(raw)
	if err != nil {
		return err
	}
	for _, p := range parts {
		if p.isExpr {
			if err := ss.compileExpr(p.expr); err != nil {
				return err
			}
		}
	}
	ss.avts[raw] = parts
	return nil
}

// collectNamespaces records the in-scope prefix map of every element.
func (ss *Stylesheet) collectNamespaces(el *etree.Element, inherited map[string]string) {
	scope := inherited
	copied := false
	for _, a := range el.Attr {
		if !isNamespaceDecl(a) {
			continue
		}
		if !copied {
			scope = make(map[string]string, len(inherited)+1)
			for k, v := range inherited {
				scope[k] = v
			}
			copied = true
		}
		scope[declPrefix(a)] = a.Value
	}
	if scope == nil {
		scope = map[string]string{}
	}
	ss.namespaces[el] = scope
	for _, child := range el.ChildElements() {
		ss.collectNamespaces(child, scope)
	}
}

// excludePrefixes adds the namespaces named by a whitespace-separated
// prefix list to the excluded set.
func (ss *Stylesheet) excludePrefixes(el *etree.Element, list string) {
	scope := ss.namespaces[el]
	for _, prefix := range strings.Fields(list) {
		if prefix == "#default" {
			prefix = ""
		}
		if uri, ok := scope[prefix]; ok {
			ss.excluded[uri] = true
		}
	}
}

// literalDecls returns the namespace declarations to copy from a literal
// result element, minus excluded namespaces.
func (ss *Stylesheet) literalDecls(el *etree.Element, extra map[string]bool) []etree.Attr {
	var decls []etree.Attr
	for _, a := range el.Attr {
		if isNamespaceDecl(a) && !ss.excluded[a.Value] && !extra[a.Value] {
			decls = append(decls, a)
		}
	}
	return decls
}

func isXSL(el *etree.Element) bool {
	return el.NamespaceURI() == Namespace
}

// xslAttr returns the attribute key in the XSLT namespace, or nil.
func xslAttr(el *etree.Element, key string) *etree.Attr {
	for i := range el.Attr {
		a := &el.Attr[i]
		if a.Key == key && a.NamespaceURI() == Namespace {
			return a
		}
	}
	return nil
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

func declPrefix(a etree.Attr) string {
	if a.Space == "xmlns" {
		return a.Key
	}
	return ""
}
