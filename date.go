package xbelmark

import (
	"github.com/alnah/go-xbelmark/internal/dateutil"
)

// Extension function exposed to stylesheets.
//
//	<xsl:stylesheet xmlns:dt="ext://xbelmark/datetime" ...>
//	  <xsl:value-of select="dt:dateTimeToUnix(@added)"/>
const (
	DateTimeNamespace = "ext://xbelmark/datetime"
	DateTimeToUnixFn  = "dateTimeToUnix"
)

// DateTimeToUnix converts an xs:dateTime (for example
// "2023-01-02T03:04:05+00:00") or xs:date ("2023-01-02", midnight UTC)
// value to seconds since the Unix epoch.
// Returns ErrMalformedTimestamp for anything else.
func DateTimeToUnix(input string) (int64, error) {
	return dateutil.ToUnix(input)
}
