package converters

import (
	"fmt"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// ProtoBinaryConverter serializes modules as binary HloProto.
type ProtoBinaryConverter struct{}

// NewProtoBinaryConverter creates a new proto binary converter.
func NewProtoBinaryConverter() *ProtoBinaryConverter {
	return &ProtoBinaryConverter{}
}

// Format returns the output format name.
func (c *ProtoBinaryConverter) Format() domain.OutputFormat {
	return domain.OutputProtoBinary
}

// Encode converts the module to an HloProto and marshals it in wire format.
// Marshal only fails on records the schema rejects, such as invalid UTF-8 in a name.
func (c *ProtoBinaryConverter) Encode(m *domain.Module) ([]byte, error) {
	record, err := toRecord(m)
	if err != nil {
		return nil, err
	}

	out, err := record.ToBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: proto to binary conversion failed: %w", domain.ErrSerialization, err)
	}

	return out, nil
}
