package xslt

import (
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisTrenkamp/goxpath"
	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/beevik/etree"
)

// maxDepth bounds template recursion.
const maxDepth = 1000

// scope maps variable names to values. Scopes are never mutated once
// shared; with returns a copy.
type scope map[string]tree.Result

func (s scope) with(name string, v tree.Result) scope {
	next := make(scope, len(s)+1)
	for k, val := range s {
		next[k] = val
	}
	next[name] = v
	return next
}

// transform is the state of one Execute call.
type transform struct {
	p       *Processor
	ss      *Stylesheet
	doc     tree.Node
	globals scope
	result  *etree.Element
	matches map[*pattern]map[int]bool
	depth   int
}

func newTransform(p *Processor, doc tree.Node) *transform {
	return &transform{
		p:       p,
		ss:      p.ss,
		doc:     doc,
		globals: rootFocus.bind(scope{}),
		result:  etree.NewElement("result"),
		matches: make(map[*pattern]map[int]bool),
	}
}

func (t *transform) run() error {
	for _, g := range t.ss.globals {
		name := g.SelectAttrValue("name", "")
		if bound, ok := t.p.params[name]; ok && g.Tag == "param" {
			t.globals = t.globals.with(name, tree.String(bound))
			continue
		}
		v, err := t.variableValue(g, t.doc, t.globals)
		if err != nil {
			return err
		}
		t.globals = t.globals.with(name, v)
	}
	return t.applyTo(t.doc, rootFocus, "", nil, t.result)
}

// applyTo runs the best template for n, or the built-in rule.
func (t *transform) applyTo(n tree.Node, f focus, mode string, params scope, out *etree.Element) error {
	tpl, err := t.findTemplate(n, mode)
	if err != nil {
		return err
	}
	if tpl != nil {
		return t.invoke(tpl, n, f, params, out)
	}

	switch n.GetNodeType() {
	case tree.NtRoot, tree.NtElem:
		kids := children(n)
		for i, c := range kids {
			if err := t.applyTo(c, focus{pos: i + 1, size: len(kids)}, mode, nil, out); err != nil {
				return err
			}
		}
	case tree.NtChd, tree.NtAttr:
		out.CreateText(n.ResValue())
	}
	return nil
}

func (t *transform) findTemplate(n tree.Node, mode string) (*template, error) {
	for i := range t.ss.rules {
		r := &t.ss.rules[i]
		if r.tpl.mode != mode {
			continue
		}
		ok, err := t.matchesPattern(r, n)
		if err != nil {
			return nil, err
		}
		if ok {
			return r.tpl, nil
		}
	}
	return nil, nil
}

func (t *transform) matchesPattern(r *rule, n tree.Node) (bool, error) {
	set, ok := t.matches[r.pat]
	if !ok {
		nodes, err := t.evalNodes(r.tpl.body, r.pat.query, t.doc, t.globals)
		if err != nil {
			return false, err
		}
		// Keyed by document order: text nodes wrap unhashable tokens.
		set = make(map[int]bool, len(nodes))
		for _, m := range nodes {
			set[m.Pos()] = true
		}
		t.matches[r.pat] = set
	}
	return set[n.Pos()], nil
}

// invoke binds template parameters and runs the template body.
func (t *transform) invoke(tpl *template, n tree.Node, f focus, params scope, out *etree.Element) error {
	t.depth++
	defer func() { t.depth-- }()
	if t.depth > maxDepth {
		return fmt.Errorf("%w: template recursion exceeds %d levels", ErrExecute, maxDepth)
	}

	vars := f.bind(t.globals)
	for _, el := range tpl.body.ChildElements() {
		if !isXSL(el) || el.Tag != "param" {
			continue
		}
		name := el.SelectAttrValue("name", "")
		if v, ok := params[name]; ok {
			vars = vars.with(name, v)
			continue
		}
		v, err := t.variableValue(el, n, vars)
		if err != nil {
			return err
		}
		vars = vars.with(name, v)
	}
	return t.sequence(tpl.body, n, vars, out)
}

// sequence runs the children of body as a sequence constructor.
func (t *transform) sequence(body *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	for _, tok := range body.Child {
		switch c := tok.(type) {
		case *etree.CharData:
			if !c.IsWhitespace() {
				out.CreateText(c.Data)
			}
		case *etree.Element:
			if !isXSL(c) {
				if err := t.literal(c, n, vars, out); err != nil {
					return err
				}
				continue
			}
			if c.Tag == "variable" {
				v, err := t.variableValue(c, n, vars)
				if err != nil {
					return err
				}
				vars = vars.with(c.SelectAttrValue("name", ""), v)
				continue
			}
			if err := t.instruction(c, n, vars, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *transform) instruction(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	switch c.Tag {
	case "param", "sort", "with-param", "fallback":
		return nil
	case "apply-templates":
		return t.applyTemplates(c, n, vars, out)
	case "call-template":
		return t.callTemplate(c, n, vars, out)
	case "for-each":
		return t.forEach(c, n, vars, out)
	case "value-of":
		s, err := t.evalString(c, c.SelectAttrValue("select", ""), n, vars)
		if err != nil {
			return err
		}
		if s != "" {
			out.CreateText(s)
		}
	case "text":
		if s := textOf(c); s != "" {
			out.CreateText(s)
		}
	case "if":
		ok, err := t.evalBool(c, c.SelectAttrValue("test", ""), n, vars)
		if err != nil || !ok {
			return err
		}
		return t.sequence(c, n, vars, out)
	case "choose":
		return t.choose(c, n, vars, out)
	case "element":
		return t.element(c, n, vars, out)
	case "attribute":
		name, err := t.avt(c, c.SelectAttrValue("name", ""), n, vars)
		if err != nil {
			return err
		}
		value, err := t.content(c, n, vars)
		if err != nil {
			return err
		}
		out.CreateAttr(name, value)
	case "copy":
		return t.copyNode(c, n, vars, out)
	case "copy-of":
		res, err := t.eval(c, c.SelectAttrValue("select", ""), n, vars)
		if err != nil {
			return err
		}
		if nodes, ok := res.(tree.NodeSet); ok {
			for _, m := range nodes {
				deepCopy(m, out)
			}
			return nil
		}
		if s := stringValue(res); s != "" {
			out.CreateText(s)
		}
	case "comment":
		s, err := t.content(c, n, vars)
		if err != nil {
			return err
		}
		out.CreateComment(s)
	case "processing-instruction":
		name, err := t.avt(c, c.SelectAttrValue("name", ""), n, vars)
		if err != nil {
			return err
		}
		s, err := t.content(c, n, vars)
		if err != nil {
			return err
		}
		out.CreateProcInst(name, s)
	case "message":
		s, err := t.content(c, n, vars)
		if err != nil {
			return err
		}
		if c.SelectAttrValue("terminate", "no") == "yes" {
			return fmt.Errorf("%w: %s", ErrTerminated, s)
		}
		if t.p.OnMessage != nil {
			t.p.OnMessage(s)
		}
	default:
		return fmt.Errorf("%w: xsl:%s", ErrUnsupported, c.Tag)
	}
	return nil
}

func (t *transform) applyTemplates(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	var nodes []tree.Node
	if sel := c.SelectAttr("select"); sel != nil {
		selected, err := t.evalNodes(c, sel.Value, n, vars)
		if err != nil {
			return err
		}
		nodes = selected
	} else {
		nodes = children(n)
	}

	nodes, err := t.sortNodes(c, nodes, vars)
	if err != nil {
		return err
	}
	params, err := t.withParams(c, n, vars)
	if err != nil {
		return err
	}

	mode := c.SelectAttrValue("mode", "")
	for i, m := range nodes {
		if err := t.applyTo(m, focus{pos: i + 1, size: len(nodes)}, mode, params, out); err != nil {
			return err
		}
	}
	return nil
}

func (t *transform) callTemplate(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	name := c.SelectAttrValue("name", "")
	tpl, ok := t.ss.named[name]
	if !ok {
		return fmt.Errorf("%w: no template named %q", ErrExecute, name)
	}
	params, err := t.withParams(c, n, vars)
	if err != nil {
		return err
	}
	return t.invoke(tpl, n, focusOf(vars), params, out)
}

func (t *transform) forEach(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	nodes, err := t.evalNodes(c, c.SelectAttrValue("select", ""), n, vars)
	if err != nil {
		return err
	}
	nodes, err = t.sortNodes(c, nodes, vars)
	if err != nil {
		return err
	}
	for i, m := range nodes {
		if err := t.sequence(c, m, focus{pos: i + 1, size: len(nodes)}.bind(vars), out); err != nil {
			return err
		}
	}
	return nil
}

func (t *transform) choose(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	for _, branch := range c.ChildElements() {
		if !isXSL(branch) {
			continue
		}
		switch branch.Tag {
		case "when":
			ok, err := t.evalBool(branch, branch.SelectAttrValue("test", ""), n, vars)
			if err != nil {
				return err
			}
			if ok {
				return t.sequence(branch, n, vars, out)
			}
		case "otherwise":
			return t.sequence(branch, n, vars, out)
		}
	}
	return nil
}

func (t *transform) element(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	name, err := t.avt(c, c.SelectAttrValue("name", ""), n, vars)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: xsl:element name evaluated to an empty string", ErrExecute)
	}
	el := out.CreateElement(name)
	if a := c.SelectAttr("namespace"); a != nil {
		ns, err := t.avt(c, a.Value, n, vars)
		if err != nil {
			return err
		}
		if ns != el.NamespaceURI() {
			if prefix, _, ok := strings.Cut(name, ":"); ok {
				el.CreateAttr("xmlns:"+prefix, ns)
			} else {
				el.CreateAttr("xmlns", ns)
			}
		}
	}
	return t.sequence(c, n, vars, el)
}

// copyNode implements xsl:copy: a shallow copy of the current node.
func (t *transform) copyNode(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	switch n.GetNodeType() {
	case tree.NtRoot:
		return t.sequence(c, n, vars, out)
	case tree.NtElem:
		start, ok := n.GetToken().(xml.StartElement)
		if !ok {
			return fmt.Errorf("%w: unexpected element token %T", ErrExecute, n.GetToken())
		}
		el := createElement(out, start.Name)
		return t.sequence(c, n, vars, el)
	default:
		deepCopy(n, out)
	}
	return nil
}

// literal copies a literal result element and runs its content.
func (t *transform) literal(c *etree.Element, n tree.Node, vars scope, out *etree.Element) error {
	el := out.CreateElement(c.FullTag())
	if out == t.result {
		for _, d := range t.ss.rootDecls {
			if !t.p.extNS[d.Value] {
				el.CreateAttr(d.FullKey(), d.Value)
			}
		}
	}
	for _, d := range t.ss.literalDecls(c, t.p.extNS) {
		el.CreateAttr(d.FullKey(), d.Value)
	}
	for _, a := range c.Attr {
		if isNamespaceDecl(a) || a.NamespaceURI() == Namespace {
			continue
		}
		v, err := t.avt(c, a.Value, n, vars)
		if err != nil {
			return err
		}
		el.CreateAttr(a.FullKey(), v)
	}
	return t.sequence(c, n, vars, el)
}

// withParams evaluates the xsl:with-param children of c.
func (t *transform) withParams(c *etree.Element, n tree.Node, vars scope) (scope, error) {
	var params scope
	for _, el := range c.ChildElements() {
		if !isXSL(el) || el.Tag != "with-param" {
			continue
		}
		v, err := t.variableValue(el, n, vars)
		if err != nil {
			return nil, err
		}
		if params == nil {
			params = scope{}
		}
		params[el.SelectAttrValue("name", "")] = v
	}
	return params, nil
}

// variableValue evaluates a variable, param or with-param binding.
func (t *transform) variableValue(el *etree.Element, n tree.Node, vars scope) (tree.Result, error) {
	if sel := el.SelectAttr("select"); sel != nil {
		return t.eval(el, sel.Value, n, vars)
	}
	s, err := t.content(el, n, vars)
	if err != nil {
		return nil, err
	}
	return tree.String(s), nil
}

// content runs the children of el into a scratch element and returns its
// text.
func (t *transform) content(el *etree.Element, n tree.Node, vars scope) (string, error) {
	scratch := etree.NewElement("content")
	if err := t.sequence(el, n, vars, scratch); err != nil {
		return "", err
	}
	return textContent(scratch), nil
}

type sortKey struct {
	expr    *etree.Element
	numeric bool
	desc    bool
}

// sortNodes orders nodes by the xsl:sort children of c, if any.
func (t *transform) sortNodes(c *etree.Element, nodes []tree.Node, vars scope) ([]tree.Node, error) {
	var keys []sortKey
	for _, el := range c.ChildElements() {
		if isXSL(el) && el.Tag == "sort" {
			keys = append(keys, sortKey{
				expr:    el,
				numeric: el.SelectAttrValue("data-type", "text") == "number",
				desc:    el.SelectAttrValue("order", "ascending") == "descending",
			})
		}
	}
	if len(keys) == 0 || len(nodes) < 2 {
		return nodes, nil
	}

	values := make([][]string, len(nodes))
	for i, m := range nodes {
		values[i] = make([]string, len(keys))
		keyVars := focus{pos: i + 1, size: len(nodes)}.bind(vars)
		for k, key := range keys {
			s, err := t.evalString(key.expr, key.expr.SelectAttrValue("select", "."), m, keyVars)
			if err != nil {
				return nil, err
			}
			values[i][k] = s
		}
	}

	idx := make([]int, len(nodes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for k, key := range keys {
			cmp := compareKeys(values[idx[a]][k], values[idx[b]][k], key.numeric)
			if cmp == 0 {
				continue
			}
			if key.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	sorted := make([]tree.Node, len(nodes))
	for i, j := range idx {
		sorted[i] = nodes[j]
	}
	return sorted, nil
}

// compareKeys compares sort keys; NaN sorts before every number.
func compareKeys(a, b string, numeric bool) int {
	if !numeric {
		return strings.Compare(a, b)
	}
	x, y := toNumber(a), toNumber(b)
	switch {
	case math.IsNaN(x) && math.IsNaN(y):
		return 0
	case math.IsNaN(x):
		return -1
	case math.IsNaN(y):
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func toNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// avt evaluates an attribute value template compiled for el.
func (t *transform) avt(el *etree.Element, raw string, n tree.Node, vars scope) (string, error) {
	parts, ok := t.ss.avts[raw]
	if !ok {
		var err error
		if parts, err = parseAVT(raw); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	for _, p := range parts {
		if !p.isExpr {
			b.WriteString(p.text)
			continue
		}
		s, err := t.evalString(el, p.expr, n, vars)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// eval evaluates expr with n as the context node. Namespace prefixes
// resolve against the declarations in scope at el.
func (t *transform) eval(el *etree.Element, expr string, n tree.Node, vars scope) (tree.Result, error) {
	xp, ok := t.ss.exprs[expr]
	if !ok {
		var err error
		if xp, err = goxpath.Parse(bindFocus(expr)); err != nil {
			return nil, fmt.Errorf("%w: XPath %q: %v", ErrExecute, expr, err)
		}
	}

	funcs := make(map[xml.Name]tree.Wrap, len(t.p.funcs)+1)
	for name, fn := range t.p.funcs {
		funcs[name] = fn
	}
	funcs[xml.Name{Local: "current"}] = tree.Wrap{
		Fn: func(tree.Ctx, ...tree.Result) (tree.Result, error) {
			return tree.NodeSet{n}, nil
		},
		NArgs: 0,
	}

	ns := t.ss.namespaces[el]
	res, err := xp.Exec(n, func(o *goxpath.Opts) {
		o.NS = ns
		o.Funcs = funcs
		o.Vars = vars
	})
	if err != nil {
		return nil, fmt.Errorf("%w: evaluating %q: %v", ErrExecute, expr, err)
	}
	return res, nil
}

func (t *transform) evalString(el *etree.Element, expr string, n tree.Node, vars scope) (string, error) {
	res, err := t.eval(el, expr, n, vars)
	if err != nil {
		return "", err
	}
	return stringValue(res), nil
}

func (t *transform) evalBool(el *etree.Element, expr string, n tree.Node, vars scope) (bool, error) {
	res, err := t.eval(el, expr, n, vars)
	if err != nil {
		return false, err
	}
	if b, ok := res.(tree.IsBool); ok {
		return bool(b.Bool()), nil
	}
	return stringValue(res) != "", nil
}

func (t *transform) evalNodes(el *etree.Element, expr string, n tree.Node, vars scope) ([]tree.Node, error) {
	res, err := t.eval(el, expr, n, vars)
	if err != nil {
		return nil, err
	}
	nodes, ok := res.(tree.NodeSet)
	if !ok {
		return nil, fmt.Errorf("%w: %q does not select a node-set", ErrExecute, expr)
	}
	return nodes, nil
}

// stringValue converts a result to its XPath string value. Numbers are
// written without exponents.
func stringValue(res tree.Result) string {
	num, ok := res.(tree.Num)
	if !ok {
		return res.String()
	}
	f := float64(num)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e18:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// children returns the child nodes of n. Text outside the document
// element is not part of the document, so the root only has element,
// comment and processing-instruction children.
func children(n tree.Node) []tree.Node {
	e, ok := n.(tree.Elem)
	if !ok {
		return nil
	}
	kids := e.GetChildren()
	if n.GetNodeType() != tree.NtRoot {
		return kids
	}
	out := make([]tree.Node, 0, len(kids))
	for _, c := range kids {
		if c.GetNodeType() != tree.NtChd {
			out = append(out, c)
		}
	}
	return out
}

// textOf returns the literal text of an xsl:text element.
func textOf(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			b.WriteString(cd.Data)
		}
	}
	return b.String()
}
