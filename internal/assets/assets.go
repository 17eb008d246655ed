package assets

// DefaultStylesheetName is the built-in stylesheet used in examples and help.
const DefaultStylesheetName = "html"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStylesheet loads a built-in stylesheet by name.
// Returns ErrStylesheetNotFound if the name is unknown.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadStylesheet(name string) (string, error) {
	return defaultLoader.LoadStylesheet(name)
}

// Names lists the built-in stylesheets in lexical order.
func Names() []string {
	return defaultLoader.Names()
}
