package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/raven-betanet/elf-decoder/internal/elf"
	"github.com/raven-betanet/elf-decoder/internal/inspect"
	"github.com/raven-betanet/elf-decoder/internal/report"
	"github.com/raven-betanet/elf-decoder/internal/utils"
)

const (
	exitFailed = 1
	exitUsage  = 2
)

// exitError carries the process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps a command error to a process exit code. Decode failures are
// already in the report, so only usage and configuration errors are printed.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.code != exitFailed && ee.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elf-decoder",
		Short: "ELF32 file header and program header decoder",
		Long: `elf-decoder reads 32-bit ELF files and prints their identification, file
header and program header table.

The decoder validates the file before trusting it:
- Magic number, class, data encoding and identification version
- Header version and header size (0x34 bytes)
- Program header entry size (0x20) and section header entry size (0x28)

Results can be output in human-readable text or machine-readable JSON formats.`,
		Version:       utils.GetVersionString(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(newDecodeCmd(fs))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// decodeOptions holds the decode command flags
type decodeOptions struct {
	configFile  string
	format      string
	output      string
	termination string
	strict      bool
	noColor     bool
	verbose     bool
}

func newDecodeCmd(fs afero.Fs) *cobra.Command {
	var opts decodeOptions

	cmd := &cobra.Command{
		Use:   "decode [flags] <file>...",
		Short: "Decode the ELF header and program header table of one or more files",
		Long: `Decode the identification, file header and program header table of each file.

Files are decoded independently; a failure in one file does not stop the others.
The program header table is read from its absolute offset and, by default, ends
at the first unused (PT_NULL) entry, which is included in the output. Use
--termination count to read exactly the number of entries the header declares.

OUTPUT FORMATS:
  text - Human-readable header listing and program header table
  json - Machine-readable report with hex strings for addresses

EXIT CODES:
  0 - All files decoded
  1 - One or more files failed to decode
  2 - Invalid arguments or configuration error`,
		Example: `  elf-decoder decode ./hello
  elf-decoder decode --format json -o report.json ./a.out ./b.out
  elf-decoder decode --termination count --strict ./firmware.elf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, fs, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.termination, "termination", "sentinel", "Program header termination (sentinel, count)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Treat reported diagnostics as failures")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "elf-decoder version %s\n", utils.Version)
			fmt.Fprintf(out, "Commit: %s\n", utils.Commit)
			fmt.Fprintf(out, "Built: %s\n", utils.Date)
		},
	}
}

// overrides collects the flags the user set explicitly, keyed by config path
func (o decodeOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	flags := cmd.Flags()
	if flags.Changed("format") {
		overrides["report.format"] = o.format
	}
	if flags.Changed("output") {
		overrides["report.output"] = o.output
	}
	if flags.Changed("termination") {
		overrides["decode.termination"] = o.termination
	}
	if flags.Changed("strict") {
		overrides["decode.strict"] = o.strict
	}
	if flags.Changed("no-color") {
		overrides["report.color"] = !o.noColor
	}
	if o.verbose {
		overrides["log_level"] = "debug"
	}
	return overrides
}

// runDecode loads configuration, decodes every file and writes the report
func runDecode(cmd *cobra.Command, fs afero.Fs, paths []string, opts decodeOptions) error {
	config, err := utils.LoadConfigWithOverrides(opts.configFile, opts.overrides(cmd))
	if err != nil {
		return &exitError{code: exitUsage, err: fmt.Errorf("failed to load configuration: %w", err)}
	}

	level, _ := utils.ParseLogLevel(config.LogLevel)
	logger := utils.NewLogger(utils.LoggerConfig{
		Level:  level,
		Format: utils.ParseLogFormat(config.LogFormat),
		Output: cmd.ErrOrStderr(),
	})
	ctx := utils.WithLogger(cmd.Context(), logger)

	termination, err := elf.ParseTermination(config.Decode.Termination)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	format, err := report.ParseFormat(config.Report.Format)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	// escape codes only make sense on a terminal
	reporter, err := report.New(format, config.Report.Color && config.Report.Output == "")
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	batch, runErr := decodeFiles(ctx, fs, paths, inspect.Options{
		Termination: termination,
		MaxFileSize: config.Decode.MaxFileSize,
		Strict:      config.Decode.Strict,
	})

	if err := writeReport(cmd, fs, reporter, batch, config.Report.Output); err != nil {
		return &exitError{code: exitFailed, err: fmt.Errorf("failed to output results: %w", err)}
	}

	log := logger.WithContext(map[string]interface{}{
		"component": "elf-decoder",
		"format":    string(format),
	})
	if runErr != nil {
		log.Errorf("Decoding failed: %d/%d files decoded", batch.Summary.Decoded, batch.Summary.Total)
		return &exitError{code: exitFailed, err: runErr}
	}

	log.Infof("All files decoded: %d/%d", batch.Summary.Decoded, batch.Summary.Total)
	return nil
}

// decodeFiles runs one decode session per path with the logger from ctx
func decodeFiles(ctx context.Context, fs afero.Fs, paths []string, opts inspect.Options) (*inspect.BatchReport, error) {
	logger := utils.LoggerFromContext(ctx)
	logger.WithComponent("elf-decoder").Debugf("Decoding %d file(s)", len(paths))

	runner := inspect.NewRunner(inspect.NewSession(fs, logger, opts), logger)
	return runner.RunAll(ctx, paths)
}

// writeReport renders to the configured output file, or to stdout
func writeReport(cmd *cobra.Command, fs afero.Fs, reporter report.Reporter, batch *inspect.BatchReport, output string) error {
	if output == "" {
		return reporter.Render(cmd.OutOrStdout(), batch)
	}

	if err := fs.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := fs.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := reporter.Render(f, batch); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
