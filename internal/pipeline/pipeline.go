// Package pipeline runs a single module conversion: resolve formats, load, encode, write.
package pipeline

import (
	"fmt"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/dustin/go-humanize"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/converters"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// Request describes one conversion. Empty format tokens select the defaults.
type Request struct {
	InputFile    string
	Output       string
	InputFormat  string
	OutputFormat string
}

// Pipeline wires a loader and a sink around the encoders.
type Pipeline struct {
	log    logger.ILogger
	loader domain.Loader
	sink   domain.Sink
}

// New creates a new pipeline.
func New(log logger.ILogger, loader domain.Loader, sink domain.Sink) *Pipeline {
	return &Pipeline{
		log:    log,
		loader: loader,
		sink:   sink,
	}
}

// Run performs the conversion. The first failure aborts the run and is returned unchanged.
func (p *Pipeline) Run(req Request) error {
	inputFormat := domain.DefaultInputFormat
	if err := inputFormat.Set(req.InputFormat); err != nil {
		return fmt.Errorf("failed parsing input format: %w", err)
	}

	outputFormat := domain.DefaultOutputFormat
	if err := outputFormat.Set(req.OutputFormat); err != nil {
		return fmt.Errorf("failed parsing output format: %w", err)
	}

	encoder, err := converters.ForFormat(outputFormat)
	if err != nil {
		return err
	}

	p.log.Infof("Loading HLO module from: %s (%s)", req.InputFile, inputFormat)

	loaded, err := p.loader.Load(req.InputFile, inputFormat)
	if err != nil {
		return err
	}

	// Captured arguments are only reported; the converter emits the module alone.
	module := loaded.Module
	p.log.Infof("Loaded module: %s (%d computations, %d instructions, %d arguments)",
		module.Name, len(module.Computations), module.InstructionCount(), len(loaded.Arguments))

	p.log.Infof("Converting to %s format...", encoder.Format())

	payload, err := encoder.Encode(module)
	if err != nil {
		return err
	}

	if err := p.sink.Write(req.Output, payload); err != nil {
		return err
	}

	p.log.Infof("Successfully wrote %s to %s", humanize.Bytes(uint64(len(payload))), describe(req.Output))

	return nil
}

func describe(dest string) string {
	if dest == domain.Stdout {
		return "stdout"
	}

	return dest
}
