package xslt

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/beevik/etree"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// voidElements never get an end tag in HTML output.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// voidTag matches a void element as etree writes it, "<br/>" or
// "<img src=\"a\"/>".
var voidTag = regexp.MustCompile(`(?i)<(area|base|br|col|embed|hr|img|input|link|meta|param|source|track|wbr)((?:\s[^<>]*)?)/>`)

// serialize writes the result tree according to xsl:output.
func (t *transform) serialize() (string, error) {
	out := t.ss.output
	method := out.Method
	if method == "" {
		method = inferMethod(t.result)
	}
	if method == "text" {
		return textContent(t.result), nil
	}

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true

	if method == "xml" && !out.OmitXMLDeclaration {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		doc.CreateText("\n")
	}
	if out.DoctypePublic != "" || out.DoctypeSystem != "" {
		doc.CreateDirective(doctype(t.result, method, out))
		doc.CreateText("\n")
	}
	for _, tok := range append([]etree.Token(nil), t.result.Child...) {
		doc.AddChild(tok)
	}

	if out.Indent {
		doc.Indent(2)
	}
	if method == "html" {
		keepEndTags(&doc.Element)
	}

	s, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("%w: writing result: %v", ErrExecute, err)
	}
	if method == "html" {
		s = voidTag.ReplaceAllString(s, "<$1$2>")
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s, nil
}

// inferMethod picks html when the first result element is an
// unqualified <html>, and xml otherwise.
func inferMethod(result *etree.Element) string {
	for _, tok := range result.Child {
		switch c := tok.(type) {
		case *etree.Element:
			if c.Space == "" && c.NamespaceURI() == "" && strings.EqualFold(c.Tag, "html") {
				return "html"
			}
			return "xml"
		case *etree.CharData:
			if !c.IsWhitespace() {
				return "xml"
			}
		}
	}
	return "xml"
}

func doctype(result *etree.Element, method string, out Output) string {
	name := "html"
	if els := result.ChildElements(); method != "html" && len(els) > 0 {
		name = els[0].FullTag()
	}
	var b strings.Builder
	b.WriteString("DOCTYPE ")
	b.WriteString(name)
	if out.DoctypePublic != "" {
		b.WriteString(" PUBLIC " + strconv.Quote(out.DoctypePublic))
		if out.DoctypeSystem != "" {
			b.WriteString(" " + strconv.Quote(out.DoctypeSystem))
		}
	} else {
		b.WriteString(" SYSTEM " + strconv.Quote(out.DoctypeSystem))
	}
	return b.String()
}

// keepEndTags gives every empty non-void element an empty text child so it
// is written with an end tag.
func keepEndTags(el *etree.Element) {
	for _, c := range el.ChildElements() {
		if len(c.Child) == 0 && !voidElements[strings.ToLower(c.Tag)] {
			c.AddChild(etree.NewText(""))
			continue
		}
		keepEndTags(c)
	}
}

// textContent concatenates every text node below el.
func textContent(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch c := tok.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				walk(c)
			}
		}
	}
	walk(el)
	return b.String()
}

// deepCopy copies an input node and its descendants into out.
func deepCopy(n tree.Node, out *etree.Element) {
	switch n.GetNodeType() {
	case tree.NtRoot:
		for _, c := range children(n) {
			deepCopy(c, out)
		}
	case tree.NtElem:
		start, ok := n.GetToken().(xml.StartElement)
		if !ok {
			return
		}
		el := createElement(out, start.Name)
		if e, ok := n.(tree.Elem); ok {
			for _, a := range e.GetAttrs() {
				deepCopy(a, el)
			}
		}
		for _, c := range children(n) {
			deepCopy(c, el)
		}
	case tree.NtAttr:
		switch a := n.GetToken().(type) {
		case xml.Attr:
			copyAttr(out, a)
		case *xml.Attr:
			copyAttr(out, *a)
		}
	case tree.NtChd:
		out.CreateText(n.ResValue())
	case tree.NtComm:
		out.CreateComment(n.ResValue())
	case tree.NtPi:
		if pi, ok := n.GetToken().(xml.ProcInst); ok {
			out.CreateProcInst(pi.Target, string(pi.Inst))
		}
	}
}

// createElement adds an element named by a resolved xml.Name, declaring
// its namespace when the parent's default namespace differs.
func createElement(out *etree.Element, name xml.Name) *etree.Element {
	el := out.CreateElement(name.Local)
	if el.NamespaceURI() != name.Space {
		el.CreateAttr("xmlns", name.Space)
	}
	return el
}

func copyAttr(el *etree.Element, a xml.Attr) {
	switch {
	case a.Name.Space == "xmlns", a.Name.Space == "" && a.Name.Local == "xmlns":
		// declared by createElement and attrPrefix
	case a.Name.Space == "":
		el.CreateAttr(a.Name.Local, a.Value)
	case a.Name.Space == xmlNamespace:
		el.CreateAttr("xml:"+a.Name.Local, a.Value)
	default:
		prefix := attrPrefix(el, a.Name.Space)
		el.CreateAttr(prefix+":"+a.Name.Local, a.Value)
	}
}

// attrPrefix returns a prefix bound to uri on el, declaring one if needed.
func attrPrefix(el *etree.Element, uri string) string {
	for _, a := range el.Attr {
		if a.Space == "xmlns" && a.Value == uri {
			return a.Key
		}
	}
	for i := 0; ; i++ {
		prefix := "ns" + strconv.Itoa(i)
		if el.SelectAttr("xmlns:"+prefix) == nil {
			el.CreateAttr("xmlns:"+prefix, uri)
			return prefix
		}
	}
}
