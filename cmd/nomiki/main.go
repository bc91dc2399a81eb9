package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coolbeans/nomiki/pkg/config"
	"github.com/coolbeans/nomiki/pkg/corpus"
	"github.com/coolbeans/nomiki/pkg/store"
	"github.com/coolbeans/nomiki/pkg/validate"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nomiki",
		Short: "Greek legal reference assistant",
		Long: `Nomiki is a reference tool for Greek criminal and police law.

It keeps a corpus of articles grouped by law and chapter and lets you:
  - browse and search articles without worrying about accents
  - add articles from PDF or text documents
  - remove articles only when nothing else refers to them
  - refresh whole laws from configured sources
  - keep bookmarks and per-department welcome messages`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: nomiki.yaml or ~/.config/nomiki/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(refsCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(bookmarkCmd())
	rootCmd.AddCommand(welcomeCmd())

	return rootCmd
}

// app is what most commands need: the configuration and the loaded corpus.
type app struct {
	config *config.Config
	logger *slog.Logger
	store  *store.Store
}

// loadConfig reads the configuration and sets up logging and colors.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if noColor {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		joined := make([]error, 0, len(errs))
		for _, e := range errs {
			joined = append(joined, e)
		}
		return nil, nil, fmt.Errorf("invalid configuration: %w", errors.Join(joined...))
	}
	logger.Debug("configuration loaded", "path", cfg.Path, "data_dir", cfg.DataDir)
	return cfg, logger, nil
}

// openApp builds the store from the seed corpus and the law database.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	extractor, err := cfg.Extractor()
	if err != nil {
		return nil, err
	}
	mode, err := validate.ParseMode(cfg.Validator.Mode)
	if err != nil {
		return nil, err
	}

	s := store.New(store.Options{
		Assembler:     corpus.NewAssembler(extractor, logger),
		ValidatorMode: mode,
		Logger:        logger,
	})
	if _, err := s.Load(cfg.LawDatabase); err != nil {
		return nil, err
	}
	return &app{config: cfg, logger: logger, store: s}, nil
}
