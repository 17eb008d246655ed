// Package xslt applies XSLT 1.0 stylesheets to XML documents.
//
// A Stylesheet is compiled once from XML text; a Processor binds string
// parameters and extension functions to it and runs one transform per
// call:
//
//	ss, err := xslt.Load("xbel2html.xsl")
//	if err != nil {
//	    return err
//	}
//	p := xslt.NewProcessor(ss)
//	p.BindParam("title", "Bookmarks")
//	p.RegisterFunc("ext://example/strings", "upper", 1, func(args ...string) (any, error) {
//	    return strings.ToUpper(args[0]), nil
//	})
//	out, err := p.TransformFile("bookmarks.xbel")
//
// XPath evaluation is delegated to goxpath; result trees are built and
// serialized with etree.
//
// # Supported Instructions
//
// Top level: stylesheet/transform, output, template, param, variable,
// strip-space and preserve-space (accepted, no effect). Simplified
// stylesheets (a literal result element carrying xsl:version) are accepted.
//
// Templates: apply-templates, call-template, with-param, for-each, sort,
// if, choose/when/otherwise, value-of, text, element, attribute, copy,
// copy-of, comment, processing-instruction, message, variable, param,
// fallback, and literal result elements with attribute value templates.
//
// Variables declared with content (rather than select) hold the string
// value of that content. Outside predicates, position() and last() refer
// to the current node list of the enclosing for-each or apply-templates.
package xslt
