package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/samvad-hq/packagist-api/internal/config"
	"github.com/samvad-hq/packagist-api/internal/logger"
	"github.com/samvad-hq/packagist-api/internal/storage"
	"github.com/samvad-hq/packagist-api/pkg/httpclient"
	"github.com/samvad-hq/packagist-api/pkg/packagist"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// main calls it with values injected through ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit = c
	date = d
}

// app carries everything a subcommand needs once flags and config are resolved.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	client  *packagist.Client
	printer printer
	out     io.Writer

	// overridable for tests
	loadConfig func() (*config.Config, error)
	logOutput  io.Writer
}

type rootFlags struct {
	endpoint    string
	timeout     time.Duration
	output      string
	archivePath string
	verbose     bool
}

// Execute runs the packagist CLI with the process arguments.
func Execute(ctx context.Context) error {
	return newRootCmd(&app{
		out:        os.Stdout,
		loadConfig: config.Load,
		logOutput:  os.Stderr,
	}).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags
	if a.log == nil {
		a.log = logger.NopLogger{}
	}

	root := &cobra.Command{
		Use:           "packagist",
		Short:         "Query the Packagist package registry",
		Long:          `packagist lists, searches and fetches PHP package metadata from a Packagist registry and prints the raw JSON responses as JSON or YAML.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, flags)
		},
	}

	root.SetOut(a.out)
	root.SetVersionTemplate(fmt.Sprintf("packagist %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVar(&flags.endpoint, "endpoint", "", "registry base URL (default from PACKAGIST_ENDPOINT)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP timeout (default from HTTP_TIMEOUT_SECONDS)")
	pf.StringVarP(&flags.output, "output", "o", "", "output format: json or yaml")
	pf.StringVar(&flags.archivePath, "archive-path", "", "snapshot archive file (default from ARCHIVE_PATH)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newPopularCmd(a))
	root.AddCommand(newArchiveCmd(a))

	return root
}

// init resolves config, applies flag overrides and wires the client.
func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("endpoint") {
		cfg.Endpoint = flags.endpoint
	}
	if changed("timeout") {
		if flags.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.HTTPTimeout = flags.timeout
	}
	if changed("output") {
		cfg.OutputFormat = flags.output
	}
	if changed("archive-path") {
		cfg.ArchivePath = flags.archivePath
	}

	p, err := newPrinter(cfg.OutputFormat)
	if err != nil {
		return err
	}

	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	log, err := logger.Init(cfg, a.logOutput)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	rest := httpclient.NewRestyClient(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})

	a.cfg = cfg
	a.log = log
	a.printer = p
	a.client = packagist.NewClient(
		packagist.NewHTTPAdapter(rest),
		packagist.WithEndpoint(cfg.Endpoint),
		packagist.WithLogger(log),
	)

	log.DebugObj("cli configured", "config", map[string]any{
		"endpoint":     cfg.Endpoint,
		"timeout":      cfg.HTTPTimeout.String(),
		"output":       cfg.OutputFormat,
		"archive_type": cfg.ArchiveType,
		"archive_path": cfg.ArchivePath,
	})
	return nil
}

// openArchive opens the configured snapshot store. Callers must Close it.
func (a *app) openArchive() (storage.Store, error) {
	store, err := storage.NewStore(a.cfg.ArchiveType, a.cfg.ArchivePath, storage.Options{
		SnapshotTTL:     a.cfg.ArchiveTTL,
		CleanupInterval: a.cfg.ArchiveCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return store, nil
}

func (a *app) closeArchive(store storage.Store) {
	if err := store.Close(); err != nil {
		a.log.ErrorObj("archive close failed", "error", err)
	}
}
