package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jessrhiannon/kudos/compliment"
	"github.com/jessrhiannon/kudos/config"
	"github.com/jessrhiannon/kudos/llm"
	"github.com/jessrhiannon/kudos/metrics"
)

func rootCmd() *cobra.Command {
	var (
		configPath string
		timeout    time.Duration
		verbose    bool
		showStats  bool
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "kudos [name]",
		Short: "Generate a short compliment",
		Long: `Kudos generates one short, encouraging compliment, optionally
addressed to the given name.

With OPENAI_API_KEY configured (environment, .env file, or config file)
the compliment is generated via the OpenAI API, retrying transient
failures with backoff. Without credentials, or when the API is
unavailable, a built-in compliment is used instead. Kudos always
produces output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := ""
			if len(args) > 0 {
				subject = args[0]
			}
			return run(subject, configPath, timeout, verbose, showStats, seed)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (bypasses the user/project config search)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-attempt network timeout (0 = from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print run metrics to stderr after generating")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the random source (0 = random)")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(subject, configPath string, timeout time.Duration, verbose, showStats bool, seed uint64) error {
	// Configure logging
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := loadConfig(configPath, timeout, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gen := buildGenerator(cfg, logger, seed)

	// A single logical operation; interruptible for host-level shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println(gen.Generate(ctx, subject))

	if showStats {
		if err := metrics.Dump(os.Stderr); err != nil {
			logger.Warn("Failed to dump metrics", "error", err)
		}
	}

	return nil
}

// loadConfig resolves the effective configuration: an explicit --config path
// when given, the layered search otherwise, with --timeout overriding the
// configured per-attempt timeout.
func loadConfig(configPath string, timeout time.Duration, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = loader.LoadFile(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		cfg.API.Timeout = config.Duration(timeout)
	}
	return cfg, nil
}

// buildGenerator wires the generator from configuration. A missing API key
// yields a nil completion client, which routes straight to the fallback pool.
func buildGenerator(cfg *config.Config, logger *slog.Logger, seed uint64) *compliment.Generator {
	opts := []compliment.Option{
		compliment.WithModel(cfg.API.Model),
		compliment.WithMaxTokens(cfg.API.MaxTokens),
		compliment.WithLogger(logger),
	}
	if seed != 0 {
		opts = append(opts, compliment.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	if len(cfg.Fallbacks) > 0 {
		opts = append(opts, compliment.WithFallbacks(cfg.Fallbacks...))
	}

	creds := llm.Credentials{APIKey: cfg.API.Key, OrgID: cfg.API.Org}
	if !creds.Present() {
		return compliment.New(nil, opts...)
	}

	client := llm.NewClient(cfg.API.Endpoint, creds,
		llm.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.Timeout)}),
		llm.WithRetryConfig(llm.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   time.Duration(cfg.Retry.BaseDelay),
		}),
		llm.WithLogger(logger),
	)
	return compliment.New(client, opts...)
}
