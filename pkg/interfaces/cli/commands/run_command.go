package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/application/services/commercial"
	"github.com/vsinha/rateio/pkg/application/services/rateio"
	"github.com/vsinha/rateio/pkg/infrastructure/events"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/fs"
	"github.com/vsinha/rateio/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/rateio/pkg/interfaces/cli/output"
)

// Config holds configuration for the run command
type Config struct {
	DataDir   string
	Pattern   string
	EmailFile string
	FactsFile string
	OutputDir string
	Format    string
	Workers   int
	Verbose   bool
	Trace     bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// RunCommand computes the rateio of a data directory
type RunCommand struct {
	config Config
	logger *zap.Logger
}

// NewRunCommand creates a new run command with the given configuration
func NewRunCommand(config Config, logger *zap.Logger) *RunCommand {
	if config.Stdin == nil {
		config.Stdin = os.Stdin
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunCommand{
		config: config,
		logger: logger,
	}
}

// Execute runs the command
func (c *RunCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	facts := memory.NewCommercialFactRepository()
	var warnings []string

	if c.config.EmailFile != "" {
		text, err := c.readEmail()
		if err != nil {
			return err
		}
		emailWarnings, err := commercial.NewExtractor().Extract(text, facts)
		if err != nil {
			return fmt.Errorf("error parsing dispatch email: %w", err)
		}
		warnings = append(warnings, emailWarnings...)
	}

	if c.config.FactsFile != "" {
		factWarnings, err := csv.NewLoader().LoadFacts(c.config.FactsFile, facts)
		if err != nil {
			return fmt.Errorf("error loading commercial facts: %w", err)
		}
		warnings = append(warnings, factWarnings...)
	}

	if c.config.Verbose {
		c.printHeader(len(facts.GetAllFacts()))
	}

	docs, err := fs.NewDocumentRepository(c.config.DataDir, c.config.Pattern)
	if err != nil {
		return err
	}

	store := events.NewInMemoryEventStoreWithLogger(c.logger)
	if c.config.Trace {
		if err := store.Subscribe([]string{events.AllEvents}, &traceHandler{w: c.config.Stderr}); err != nil {
			return fmt.Errorf("failed to subscribe trace: %w", err)
		}
	}

	service := rateio.NewServiceWithConfig(rateio.ServiceConfig{Workers: c.config.Workers}, c.logger).
		WithEventStore(store)

	result, err := service.RunWithFacts(ctx, docs, facts, warnings...)
	if err != nil {
		return fmt.Errorf("error running rateio: %w", err)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Writer:    c.config.Stdout,
	}
	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

func (c *RunCommand) validateInputs() error {
	if c.config.DataDir == "" {
		return fmt.Errorf("a data directory is required (--dir or data.path)")
	}
	if c.config.EmailFile == "" && c.config.FactsFile == "" {
		return fmt.Errorf("must specify a dispatch email (--email) or a facts file (--facts)")
	}
	if c.config.Format != "" && !slices.Contains(output.Formats, c.config.Format) {
		return fmt.Errorf("unsupported format %q, expected one of %s", c.config.Format, strings.Join(output.Formats, ", "))
	}
	if c.config.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.config.Workers)
	}
	return nil
}

func (c *RunCommand) readEmail() (string, error) {
	if c.config.EmailFile == "-" {
		content, err := io.ReadAll(c.config.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read dispatch email from stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := os.ReadFile(c.config.EmailFile)
	if err != nil {
		return "", fmt.Errorf("failed to read dispatch email %s: %w", c.config.EmailFile, err)
	}
	return string(content), nil
}

func (c *RunCommand) printHeader(facts int) {
	w := c.config.Stderr
	fmt.Fprintf(w, "Rateio\n")
	fmt.Fprintf(w, "  Data directory: %s\n", c.config.DataDir)
	if c.config.EmailFile != "" {
		fmt.Fprintf(w, "  Dispatch email: %s\n", c.config.EmailFile)
	}
	if c.config.FactsFile != "" {
		fmt.Fprintf(w, "  Facts file: %s\n", c.config.FactsFile)
	}
	fmt.Fprintf(w, "  Announced loads: %d\n", facts)
	fmt.Fprintf(w, "  Workers: %d\n\n", c.config.Workers)
}

// traceHandler prints every run event as it is recorded
type traceHandler struct {
	w io.Writer
}

func (h *traceHandler) CanHandle(string) bool { return true }

func (h *traceHandler) Handle(event events.Event) error {
	line, ok := event.(fmt.Stringer)
	if !ok {
		line = events.NewRunEvent(event.Type(), event.RunID(), event.Data())
	}
	_, err := fmt.Fprintln(h.w, line.String())
	return err
}
