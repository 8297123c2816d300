package converters

import (
	"fmt"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// ProtoTextConverter serializes modules as HloProto text.
type ProtoTextConverter struct{}

// NewProtoTextConverter creates a new proto text converter.
func NewProtoTextConverter() *ProtoTextConverter {
	return &ProtoTextConverter{}
}

// Format returns the output format name.
func (c *ProtoTextConverter) Format() domain.OutputFormat {
	return domain.OutputProtoText
}

// Encode converts the module to an HloProto and prints it in protobuf text format.
func (c *ProtoTextConverter) Encode(m *domain.Module) ([]byte, error) {
	record, err := toRecord(m)
	if err != nil {
		return nil, err
	}

	out, err := record.ToText()
	if err != nil {
		return nil, fmt.Errorf("%w: proto to text conversion failed: %w", domain.ErrSerialization, err)
	}

	return out, nil
}
