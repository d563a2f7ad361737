package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/infrastructure/config"
	"github.com/vsinha/rateio/pkg/infrastructure/logger"
	"github.com/vsinha/rateio/pkg/interfaces/cli/output"
)

type rootOptions struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the rateio command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "rateio",
		Short: "Apportion load freight across the deliveries of each carrier",
		Long: `rateio reads NF-e shipping documents and the dispatch email announcing
each load's freight and license plate, splits every load's freight across its
deliveries by cubicage, and orders each carrier's loads by first invoice.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "configuration file (default: config.yaml in ., ./config, /etc/rateio)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// load reads the configuration and applies the persistent flag overrides
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}
	return log.Named(cfg.App.Name), nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var runConfig Config

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the rateio of a data directory",
		Example: `  rateio run --dir ./notas --email despacho.txt
  cat despacho.txt | rateio run --dir ./notas --email - --format json
  rateio run --dir ./notas --facts cargas.csv --format csv --output ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("dir") {
				runConfig.DataDir = cfg.Data.Path
			}
			if !flags.Changed("pattern") {
				runConfig.Pattern = cfg.Data.Pattern
			}
			if !flags.Changed("workers") {
				runConfig.Workers = cfg.Data.Workers
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync(log)

			runConfig.Stdin = cmd.InOrStdin()
			runConfig.Stdout = cmd.OutOrStdout()
			runConfig.Stderr = cmd.ErrOrStderr()
			return NewRunCommand(runConfig, log).Execute(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&runConfig.DataDir, "dir", "d", "", "directory holding the NF-e documents (default: data.path)")
	f.StringVar(&runConfig.Pattern, "pattern", "", "file name pattern of the documents (default: data.pattern)")
	f.StringVarP(&runConfig.EmailFile, "email", "e", "", "dispatch email text file, - for stdin")
	f.StringVar(&runConfig.FactsFile, "facts", "", "CSV of load_number,license_plate,freight rows")
	f.StringVarP(&runConfig.Format, "format", "f", "text", "output format: "+strings.Join(output.Formats, ", "))
	f.StringVarP(&runConfig.OutputDir, "output", "o", "", "directory to write results to instead of stdout")
	f.IntVarP(&runConfig.Workers, "workers", "w", 0, "documents extracted in parallel (default: data.workers)")
	f.BoolVarP(&runConfig.Verbose, "verbose", "v", false, "print inputs, allocations and run details")
	f.BoolVar(&runConfig.Trace, "trace", false, "print the run journal to stderr")

	return cmd
}
