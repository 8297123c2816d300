// Package cli provides the command-line interface for the HLO converter.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/loader"
	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/sink"
	"github.com/GabrielNunesIT/hlo-converter/internal/config"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
	"github.com/GabrielNunesIT/hlo-converter/internal/pipeline"
)

const (
	flagOutput       = "output"
	flagInputFormat  = "input_format"
	flagOutputFormat = "output_format"
	flagConfig       = "config"
)

const longHelp = `Reads an HLO module and outputs it in the requested format.

The proto formats use this tool's own HloProto schema: instructions refer to
operands and roots by name rather than by XLA's numeric ids, and field
numbers differ from XLA's hlo.proto. HloProto and HloSnapshot files written
by XLA itself cannot be loaded; export those modules as HLO text instead.`

// CLI holds the command-line interface configuration.
type CLI struct {
	log          logger.ILogger
	rootCmd      *cobra.Command
	stdout       io.Writer
	outputFile   string
	inputFormat  string
	outputFormat string
	configFile   string
}

// New creates a new CLI instance. Converted output for "-" goes to stdout; usage text goes to stderr.
func New(log logger.ILogger, stdout, stderr io.Writer) *CLI {
	cli := &CLI{
		log:    log,
		stdout: stdout,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "hlo-convert [flags] <input_file>",
		Short:         "Convert an HLO module between text and proto formats",
		Long:          longHelp,
		Args:          exactlyOneInput,
		RunE:          cli.run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cli.rootCmd.SetOut(stdout)
	cli.rootCmd.SetErr(stderr)
	cli.rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", domain.ErrUsage, err)
	})

	cli.setupFlags()

	return cli
}

func (c *CLI) setupFlags() {
	defaults := config.Defaults()

	c.rootCmd.Flags().StringVarP(&c.outputFile, flagOutput, "o", defaults.Output, "Output file. '-' for stdout.")
	c.rootCmd.Flags().StringVar(&c.inputFormat, flagInputFormat, defaults.InputFormat,
		"Input format: text / proto_text / proto_binary / snapshot_proto_binary.")
	c.rootCmd.Flags().StringVar(&c.outputFormat, flagOutputFormat, defaults.OutputFormat,
		"Output format: text / proto_text / proto_binary.")
	c.rootCmd.Flags().StringVar(&c.configFile, flagConfig, "", "Optional config file providing flag defaults")
}

// Execute runs the CLI. Usage errors print the usage text before returning.
func (c *CLI) Execute() error {
	err := c.rootCmd.Execute()
	if errors.Is(err, domain.ErrUsage) {
		c.rootCmd.PrintErr(c.rootCmd.UsageString())
	}

	return err
}

func exactlyOneInput(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one input file, got %d arguments", domain.ErrUsage, len(args))
	}

	return nil
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	if err := c.applyConfig(cmd); err != nil {
		return err
	}

	p := pipeline.New(c.log, loader.New(), sink.New(c.stdout))

	return p.Run(pipeline.Request{
		InputFile:    args[0],
		Output:       c.outputFile,
		InputFormat:  c.inputFormat,
		OutputFormat: c.outputFormat,
	})
}

// applyConfig fills flags that were not set explicitly from the config file.
func (c *CLI) applyConfig(cmd *cobra.Command) error {
	if c.configFile == "" {
		return nil
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("%w: failed to load config %s: %w", domain.ErrUsage, c.configFile, err)
	}

	flags := cmd.Flags()

	if !flags.Changed(flagOutput) && cfg.Output != "" {
		c.outputFile = cfg.Output
	}

	if !flags.Changed(flagInputFormat) && cfg.InputFormat != "" {
		c.inputFormat = cfg.InputFormat
	}

	if !flags.Changed(flagOutputFormat) && cfg.OutputFormat != "" {
		c.outputFormat = cfg.OutputFormat
	}

	c.log.Infof("Loaded config from: %s", c.configFile)

	return nil
}
