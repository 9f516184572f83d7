package docharvest

// Converter renders HTML as plain text (Markdown).
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// An error means the markup could not be parsed; callers fall back to
	// storing the raw markup behind ConversionBanner.
	Convert(html string) (string, error)
}

// ConversionBanner prefixes raw markup stored after a conversion failure.
const ConversionBanner = "HTML conversion failed"
