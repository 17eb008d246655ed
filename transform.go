package xbelmark

import (
	"fmt"
	"io"

	"github.com/ChrisTrenkamp/goxpath/tree"

	"github.com/alnah/go-xbelmark/internal/xslt"
)

// TransformRequest describes one stylesheet application.
type TransformRequest struct {
	StylesheetPath string
	InputPath      string
	Params         ParameterMap
}

// Apply loads the stylesheet at stylesheetPath, binds params, and applies
// it to the document at inputPath. See Transform.
func Apply(stylesheetPath, inputPath string, params ParameterMap) (string, error) {
	return Transform(TransformRequest{
		StylesheetPath: stylesheetPath,
		InputPath:      inputPath,
		Params:         params,
	})
}

// Transform runs one transform and returns the serialized result.
//
// Every parameter is bound as a top-level xsl:param in the empty namespace.
// The stylesheet can call DateTimeToUnix as dateTimeToUnix in the
// DateTimeNamespace namespace.
//
// Errors wrap ErrStylesheetLoad, ErrInputDocumentLoad or
// ErrTransformExecution. No output is returned on error.
func Transform(req TransformRequest) (string, error) {
	ss, err := xslt.Load(req.StylesheetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStylesheetLoad, err)
	}
	doc, err := xslt.ParseDocumentFile(req.InputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputDocumentLoad, err)
	}
	return execute(ss, doc, req.Params)
}

// TransformReader is Transform for already opened stylesheet and input
// content.
func TransformReader(stylesheet, input io.Reader, params ParameterMap) (string, error) {
	ss, err := xslt.Compile(stylesheet)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStylesheetLoad, err)
	}
	doc, err := xslt.ParseDocument(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputDocumentLoad, err)
	}
	return execute(ss, doc, params)
}

func execute(ss *xslt.Stylesheet, doc tree.Node, params ParameterMap) (string, error) {
	p := xslt.NewProcessor(ss)
	for name, value := range params {
		p.BindParam(name, value)
	}
	p.RegisterFunc(DateTimeNamespace, DateTimeToUnixFn, 1, func(args ...string) (any, error) {
		return DateTimeToUnix(args[0])
	})

	out, err := p.Execute(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransformExecution, err)
	}
	return out, nil
}
