package domain

import (
	"fmt"
	"strings"
)

// InputFormat selects how the on-disk source is parsed into a module.
type InputFormat string

// OutputFormat selects how the in-memory module is serialized.
type OutputFormat string

const (
	InputText                InputFormat = "text"
	InputProtoText           InputFormat = "proto_text"
	InputProtoBinary         InputFormat = "proto_binary"
	InputSnapshotProtoBinary InputFormat = "snapshot_proto_binary"
)

const (
	OutputText        OutputFormat = "text"
	OutputProtoText   OutputFormat = "proto_text"
	OutputProtoBinary OutputFormat = "proto_binary"
)

// Defaults used when no format is given.
const (
	DefaultInputFormat  = InputText
	DefaultOutputFormat = OutputText
)

var inputFormats = []InputFormat{InputText, InputProtoText, InputProtoBinary, InputSnapshotProtoBinary}

var outputFormats = []OutputFormat{OutputText, OutputProtoText, OutputProtoBinary}

// String returns the format name.
func (f InputFormat) String() string { return string(f) }

// String returns the format name.
func (f OutputFormat) String() string { return string(f) }

// InputFormats returns all supported input formats.
func InputFormats() []InputFormat {
	out := make([]InputFormat, len(inputFormats))
	copy(out, inputFormats)
	return out
}

// OutputFormats returns all supported output formats.
func OutputFormats() []OutputFormat {
	out := make([]OutputFormat, len(outputFormats))
	copy(out, outputFormats)
	return out
}

// Set parses s into f. An empty s leaves f unchanged.
func (f *InputFormat) Set(s string) error {
	if s == "" {
		return nil
	}

	for _, known := range inputFormats {
		if string(known) == s {
			*f = known
			return nil
		}
	}

	return fmt.Errorf("%w: unrecognized input format %q (supported: %s)", ErrFormatParse, s, joinFormats(inputFormats))
}

// Set parses s into f. An empty s leaves f unchanged.
func (f *OutputFormat) Set(s string) error {
	if s == "" {
		return nil
	}

	for _, known := range outputFormats {
		if string(known) == s {
			*f = known
			return nil
		}
	}

	return fmt.Errorf("%w: unrecognized output format %q (supported: %s)", ErrFormatParse, s, joinFormats(outputFormats))
}

func joinFormats[F ~string](formats []F) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}

	return strings.Join(names, ", ")
}
