package domain

// Loader reads a module, plus any captured arguments, from disk.
type Loader interface {
	Load(path string, format InputFormat) (*ModuleAndArguments, error)
}

// Encoder defines the interface for module serializers.
type Encoder interface {
	// Encode renders the module into a complete output payload.
	Encode(m *Module) ([]byte, error)

	// Format returns the output format produced by this encoder.
	Format() OutputFormat
}

// Sink writes a finished payload to its destination.
type Sink interface {
	Write(dest string, payload []byte) error
}

// Stdout is the sink destination that selects standard output.
const Stdout = "-"
