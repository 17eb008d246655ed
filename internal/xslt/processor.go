package xslt

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/ChrisTrenkamp/goxpath/tree"
	"github.com/ChrisTrenkamp/goxpath/tree/xmltree"
)

// Func is an extension function callable from stylesheet expressions.
// Arguments arrive as XPath string values. The result must be a string,
// bool, float64, int or int64.
type Func func(args ...string) (any, error)

// Processor runs a Stylesheet with bound parameters and extension
// functions. A Processor is not safe for concurrent configuration, but
// Transform calls do not mutate it.
type Processor struct {
	ss     *Stylesheet
	params map[string]string
	funcs  map[xml.Name]tree.Wrap
	extNS  map[string]bool

	// OnMessage receives the text of non-terminating xsl:message
	// instructions. Nil discards them.
	OnMessage func(string)
}

// NewProcessor returns a Processor for ss with no parameters bound.
func NewProcessor(ss *Stylesheet) *Processor {
	return &Processor{
		ss:     ss,
		params: make(map[string]string),
		funcs:  make(map[xml.Name]tree.Wrap),
		extNS:  make(map[string]bool),
	}
}

// BindParam sets the string value of the top-level xsl:param name.
// Names the stylesheet does not declare are ignored at transform time.
func (p *Processor) BindParam(name, value string) {
	p.params[name] = value
}

// RegisterFunc makes fn callable as prefix:local(...) from stylesheet
// expressions, where prefix is bound to namespace in the stylesheet.
// Calls with a different number of arguments than arity fail.
// The namespace is not copied to the result document.
func (p *Processor) RegisterFunc(namespace, local string, arity int, fn Func) {
	p.extNS[namespace] = true
	p.funcs[xml.Name{Space: namespace, Local: local}] = tree.Wrap{
		Fn: func(_ tree.Ctx, args ...tree.Result) (tree.Result, error) {
			if len(args) != arity {
				return nil, fmt.Errorf("%s: expected %d arguments, got %d", local, arity, len(args))
			}
			values := make([]string, len(args))
			for i, a := range args {
				values[i] = stringValue(a)
			}
			v, err := fn(values...)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", local, err)
			}
			return toResult(local, v)
		},
		NArgs: arity,
	}
}

// ParseDocument reads an input document.
func ParseDocument(r io.Reader) (tree.Node, error) {
	doc, err := xmltree.ParseXML(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocument, err)
	}
	return doc, nil
}

// ParseDocumentFile reads the input document at path.
func ParseDocumentFile(path string) (tree.Node, error) {
	f, err := os.Open(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocument, err)
	}
	defer func() { _ = f.Close() }()
	return ParseDocument(f)
}

// Transform parses input and applies the stylesheet to it.
func (p *Processor) Transform(input io.Reader) (string, error) {
	doc, err := ParseDocument(input)
	if err != nil {
		return "", err
	}
	return p.Execute(doc)
}

// TransformFile parses the document at path and applies the stylesheet.
func (p *Processor) TransformFile(path string) (string, error) {
	doc, err := ParseDocumentFile(path)
	if err != nil {
		return "", err
	}
	return p.Execute(doc)
}

// Execute applies the stylesheet to a parsed document and returns the
// serialized result. Nothing is returned on failure.
func (p *Processor) Execute(doc tree.Node) (string, error) {
	t := newTransform(p, doc)
	if err := t.run(); err != nil {
		return "", err
	}
	return t.serialize()
}

func toResult(name string, v any) (tree.Result, error) {
	switch r := v.(type) {
	case string:
		return tree.String(r), nil
	case bool:
		return tree.Bool(r), nil
	case float64:
		return tree.Num(r), nil
	case int:
		return tree.Num(float64(r)), nil
	case int64:
		return tree.Num(float64(r)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported result type %T", name, v)
	}
}
