// Package sink writes converted payloads to stdout or to a file.
package sink

import (
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const fileMode os.FileMode = 0o644

// Sink writes payloads either to its stdout writer or to a named file.
type Sink struct {
	stdout io.Writer
}

// New creates a sink that uses stdout for the "-" destination.
func New(stdout io.Writer) *Sink {
	return &Sink{stdout: stdout}
}

// Write delivers the whole payload to dest. Files are replaced atomically.
func (s *Sink) Write(dest string, payload []byte) error {
	if dest == domain.Stdout {
		if _, err := s.stdout.Write(payload); err != nil {
			return fmt.Errorf("%w: failed to write to stdout: %w", domain.ErrIO, err)
		}

		return nil
	}

	if err := renameio.WriteFile(dest, payload, fileMode); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrIO, dest, err)
	}

	return nil
}
