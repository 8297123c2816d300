// Package loader reads HLO modules from disk in any supported input format.
package loader

import (
	"fmt"
	"os"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hloproto"
	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hlotext"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// FileLoader loads modules from the local filesystem.
type FileLoader struct{}

// New creates a new file loader.
func New() *FileLoader {
	return &FileLoader{}
}

// Load reads path, decodes it according to format and verifies the resulting module.
//
//nolint:gosec // G304: the input path is supplied by the user on purpose
func (l *FileLoader) Load(path string, format domain.InputFormat) (*domain.ModuleAndArguments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrLoad, path, err)
	}

	result, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s as %s: %w", domain.ErrLoad, path, format, err)
	}

	if err := result.Module.Verify(); err != nil {
		return nil, fmt.Errorf("%w: invalid module in %s: %w", domain.ErrLoad, path, err)
	}

	return result, nil
}

func decode(data []byte, format domain.InputFormat) (*domain.ModuleAndArguments, error) {
	switch format {
	case domain.InputText:
		m, err := hlotext.Parse(data)
		if err != nil {
			return nil, err
		}

		return &domain.ModuleAndArguments{Module: m}, nil
	case domain.InputProtoText:
		return fromRecord(hloproto.ParseText(data))
	case domain.InputProtoBinary:
		return fromRecord(hloproto.ParseBinary(data))
	case domain.InputSnapshotProtoBinary:
		return hloproto.ParseSnapshot(data)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

func fromRecord(record *hloproto.Record, err error) (*domain.ModuleAndArguments, error) {
	if err != nil {
		return nil, err
	}

	m, err := record.Module()
	if err != nil {
		return nil, err
	}

	return &domain.ModuleAndArguments{Module: m}, nil
}
