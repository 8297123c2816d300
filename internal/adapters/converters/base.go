// Package converters provides implementations for serializing HLO modules to the supported output formats.
package converters

import (
	"fmt"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hloproto"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// ForFormat returns the encoder for an output format.
func ForFormat(format domain.OutputFormat) (domain.Encoder, error) {
	switch format {
	case domain.OutputText:
		return NewTextConverter(), nil
	case domain.OutputProtoText:
		return NewProtoTextConverter(), nil
	case domain.OutputProtoBinary:
		return NewProtoBinaryConverter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported output format %q", domain.ErrFormatParse, format)
	}
}

// toRecord wraps record construction failures as serialization errors.
func toRecord(m *domain.Module) (*hloproto.Record, error) {
	record, err := hloproto.FromModule(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}

	return record, nil
}
