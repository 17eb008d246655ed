package assets

// StylesheetLoader loads XSLT stylesheet source by name.
type StylesheetLoader interface {
	// LoadStylesheet loads a stylesheet by name (without .xsl extension).
	// Returns ErrStylesheetNotFound if the stylesheet doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStylesheet(name string) (string, error)
}
