// Package main provides the clarify binary, a command line client for the
// clarifying question service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	clarifysdk "github.com/clarifyhq/clarify-sdk-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	version = "0.1.0"
	appName = "clarify"

	// defaultTask is used when ask is invoked without a task argument.
	defaultTask = "make me a website that runs pseudocode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	baseURL    string
	apiKey     string
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Client for the clarifying question service",
		Long: `Clarify talks to a clarifying question service: it sends a task
description, receives the service's clarifying questions, collects answers,
and prints the aggregated task context.

Configuration precedence: flags, then CLARIFY_BASE_URL / CLARIFY_API_KEY
environment variables (a .env file is loaded when present), then the YAML
config file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Service base URL (default "+clarifysdk.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&flags.apiKey, "api-key", "", "Bearer token sent with every request")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(askCmd(flags))
	cmd.AddCommand(sessionsCmd(flags))
	cmd.AddCommand(healthCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
		},
	})

	return cmd
}

// setup builds the logger and the resolved configuration shared by all
// subcommands. A .env file in the working directory is loaded first so its
// variables are visible to the environment lookup.
func setup(flags *rootFlags) (*slog.Logger, cliConfig, error) {
	logger := newLogger(flags.logLevel)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg, err := resolveConfig(flags.baseURL, flags.apiKey, flags.configPath)
	if err != nil {
		return nil, cliConfig{}, err
	}

	return logger, cfg, nil
}

func newLogger(level string) *slog.Logger {
	logLevel := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// clientOptions translates the resolved configuration into SDK options.
func clientOptions(logger *slog.Logger, cfg cliConfig) []clarifysdk.Option {
	opts := []clarifysdk.Option{
		clarifysdk.WithLogger(logger),
		clarifysdk.WithUserAgent(appName + "/" + version),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, clarifysdk.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, clarifysdk.WithAPIKey(cfg.APIKey))
	}

	return opts
}

func sessionsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List the sessions the service currently holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, cfg, err := setup(flags)
			if err != nil {
				return err
			}

			client := clarifysdk.NewClient(clientOptions(logger, cfg)...)
			defer func() {
				if closeErr := client.Close(); closeErr != nil {
					logger.Warn("Failed to close client", "error", closeErr)
				}
			}()

			sessions, err := client.Sessions(cmd.Context())
			if err != nil {
				return err
			}

			printSummaries(cmd.OutOrStdout(), sessions)

			return nil
		},
	}
}

func healthCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the service is reachable and healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, cfg, err := setup(flags)
			if err != nil {
				return err
			}

			client := clarifysdk.NewClient(clientOptions(logger, cfg)...)
			defer func() {
				if closeErr := client.Close(); closeErr != nil {
					logger.Warn("Failed to close client", "error", closeErr)
				}
			}()

			if !client.Healthy(cmd.Context()) {
				return fmt.Errorf("service is not healthy at %s (is it running?)", cfg.BaseURLOrDefault())
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("Service is healthy at "+cfg.BaseURLOrDefault()))

			return nil
		},
	}
}
