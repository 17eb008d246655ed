package xslt

import "errors"

// Sentinel errors for stylesheet compilation and execution.
var (
	ErrStylesheet  = errors.New("invalid stylesheet")
	ErrDocument    = errors.New("invalid input document")
	ErrExecute     = errors.New("transform failed")
	ErrTerminated  = errors.New("transform terminated by xsl:message")
	ErrUnsupported = errors.New("unsupported XSLT feature")
)
