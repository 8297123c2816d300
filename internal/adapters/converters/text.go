package converters

import "github.com/GabrielNunesIT/hlo-converter/internal/domain"

// TextConverter renders modules as HLO text.
type TextConverter struct{}

// NewTextConverter creates a new HLO text converter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Format returns the output format name.
func (c *TextConverter) Format() domain.OutputFormat {
	return domain.OutputText
}

// Encode renders the module in canonical HLO text. It cannot fail.
func (c *TextConverter) Encode(m *domain.Module) ([]byte, error) {
	return []byte(m.String()), nil
}
