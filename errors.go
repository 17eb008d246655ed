package xbelmark

import (
	"errors"

	"github.com/alnah/go-xbelmark/internal/dateutil"
)

// Sentinel errors for library operations.
var (
	// ErrInvalidFormat signals a Format value outside the closed enumeration.
	ErrInvalidFormat = errors.New("invalid bookmark format")
	ErrInvalidURI    = errors.New("invalid bookmark URI")

	// ErrMalformedBookmark is returned when bookmark text cannot be decoded.
	ErrMalformedBookmark = errors.New("malformed bookmark")

	// ErrMalformedTimestamp is returned for text that is neither an
	// xs:dateTime nor an xs:date value.
	ErrMalformedTimestamp = dateutil.ErrMalformedTimestamp

	// Transform errors. Each aborts the single invocation that produced it.
	ErrStylesheetLoad         = errors.New("failed to load stylesheet")
	ErrInputDocumentLoad      = errors.New("failed to load input document")
	ErrTransformExecution     = errors.New("transform execution failed")
	ErrMalformedParameterList = errors.New("malformed parameter list")
)
