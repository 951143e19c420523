package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/jotter"
	"github.com/aretw0/jotter/pkg/core"
)

// cli holds the flag values and the state shared by all commands of one invocation.
type cli struct {
	verbose     bool
	file        string
	configFile  string
	adapter     string
	readOnly    bool
	versioning  bool
	lockTimeout time.Duration
	reason      string

	settings settings
	logger   *slog.Logger
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{}
	cmd := c.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errorMessage(err))
		return exitCode(err)
	}
	return 0
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jotter",
		Short: "A small note store backed by a single flat file",
		Long: `jotter keeps short title/content notes in one file (JSON, YAML or SQLite).
Every command loads the whole collection, applies one operation and, for
changes, writes the complete collection back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&c.file, "file", "f", "", "Data file (env JOTTER_FILE)")
	flags.StringVar(&c.configFile, "config", "", "Config file (default ./"+defaultConfigName+")")
	flags.StringVar(&c.adapter, "adapter", "", "Storage adapter: fs, sqlite or memory (env JOTTER_ADAPTER)")
	flags.BoolVar(&c.readOnly, "read-only", false, "Reject every change")
	flags.BoolVar(&c.versioning, "versioning", false, "Commit the data file to git after every change")
	flags.DurationVar(&c.lockTimeout, "lock-timeout", 0, "Guard changes with a lock file, waiting at most this long")

	rootCmd.AddCommand(
		c.newListCmd(),
		c.newGetCmd(),
		c.newSearchCmd(),
		c.newCreateCmd(),
		c.newUpdateCmd(),
		c.newDeleteCmd(),
		c.newWatchCmd(),
		c.newStatusCmd(),
		c.newHistoryCmd(),
		c.newInitCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads .env, resolves settings and installs the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	s, err := c.resolveSettings(cmd)
	if err != nil {
		return err
	}
	c.settings = s

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if s.LogFormat == "json" {
		c.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	} else {
		c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	}
	slog.SetDefault(c.logger)

	c.logger.Debug("settings resolved", "file", s.File, "adapter", s.Adapter, "source", s.Source)
	return nil
}

// open builds the repository described by the resolved settings.
func (c *cli) open(extra ...jotter.Option) (*core.Repository, error) {
	s := c.settings
	opts := []jotter.Option{
		jotter.WithAdapter(s.Adapter),
		jotter.WithLogger(c.logger),
		jotter.WithReadOnly(s.ReadOnly),
		jotter.WithVersioning(s.Versioning),
		jotter.WithAutoInit(s.Versioning),
		jotter.WithStrict(s.Strict),
	}
	if s.LockFile {
		opts = append(opts, jotter.WithLockTimeout(s.LockTimeout))
	}
	opts = append(opts, extra...)

	repo, err := jotter.New(s.File, opts...)
	if err != nil {
		c.logger.Error("failed to open store", "file", s.File, "adapter", s.Adapter, "error", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return repo, nil
}

// context returns the command context carrying the --message change reason, if any.
func (c *cli) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.reason != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, c.reason)
	}
	return ctx
}

func closeStore(repo *core.Repository) {
	if closer, ok := repo.Store().(io.Closer); ok {
		_ = closer.Close()
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
