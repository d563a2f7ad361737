package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/rateio/pkg/application/dto"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "yaml", "csv", "html"}

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Writer receives the rendered result when OutputDir is empty, and the
	// list of written files otherwise. Defaults to os.Stdout.
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate renders result in the configured format
func Generate(result *dto.RateioResult, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "yaml":
		return generateYAMLOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "html":
		return generateHTMLOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateJSONOutput(result *dto.RateioResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return emit(config, "rateio_results.json", append(jsonData, '\n'))
}

func generateYAMLOutput(result *dto.RateioResult, config Config) error {
	yamlData, err := yaml.Marshal(result.Data())
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return emit(config, "rateio_results.yaml", yamlData)
}

// emit writes content to the configured writer, or to filename inside the
// output directory when one is set
func emit(config Config, filename string, content []byte) error {
	if config.OutputDir == "" {
		_, err := config.writer().Write(content)
		return err
	}

	path, err := writeFile(config.OutputDir, filename, content)
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.writer(), "Results saved to: %s\n", path)
	}
	return nil
}

func writeFile(dir, filename string, content []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
