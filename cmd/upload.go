package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"posthaste/internal/credentials"
	"posthaste/internal/haste"
	"posthaste/internal/input"
	"posthaste/internal/upload"
	"posthaste/pkg/apperr"
	"posthaste/pkg/config"
)

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions, deps Deps) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	store := credentials.NewFileStore(cfg.CredentialsPath)

	switch {
	case cmd.Flags().Changed("token"):
		return saveToken(cmd, store, opts.token)
	case opts.login:
		return runLogin(cmd, store, deps)
	case opts.docs:
		return openDocs(cmd, cfg.DocsURL, deps)
	case opts.status:
		return printStatus(cmd, cfg, store)
	}

	if len(args) == 0 && deps.IsTerminal(cmd.InOrStdin()) {
		_ = cmd.Help()
		return apperr.NewUsage("", nil)
	}

	ctx := cmd.Context()

	token, err := resolveToken(ctx, cfg, store, deps)
	if err != nil {
		return err
	}

	client := haste.NewClient(haste.Options{
		BaseURL: cfg.URL,
		Token:   token,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	})

	var uploader upload.Uploader = client
	if !cfg.Verbose && deps.IsTerminal(cmd.OutOrStdout()) {
		uploader = &spinnerUploader{Uploader: client, out: cmd.ErrOrStderr()}
	}

	workflow := upload.NewWorkflow(uploader, upload.Options{
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
		Verbose:     cfg.Verbose,
		SkipMissing: cfg.SkipMissing,
	})

	results, err := workflow.Run(ctx, input.FromArgs(args, cmd.InOrStdin()))
	slog.Debug("Run finished", "uploaded", len(results))
	return err
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) error {
	flags := cmd.Flags()

	if flags.Changed("url") {
		cfg.URL = opts.url
	}
	if flags.Changed("timeout") {
		if opts.timeout <= 0 {
			return apperr.NewUsage(fmt.Sprintf("Error: --timeout must be a positive number of seconds, got %d", opts.timeout), nil)
		}
		cfg.Timeout = opts.timeout
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.skipMissing {
		cfg.SkipMissing = true
	}
	return nil
}

// resolveToken picks the upload token: POSTHASTE_TOKEN, then Secret Manager
// when configured, then the saved credentials.
func resolveToken(ctx context.Context, cfg *config.Config, store credentials.Store, deps Deps) (string, error) {
	if cfg.Token != "" {
		slog.Debug("Using token from environment")
		return cfg.Token, nil
	}

	if cfg.TokenSecret != "" {
		resolver, err := deps.NewSecretResolver(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to create Secret Manager client: %w", err)
		}
		defer func() { _ = resolver.Close() }()

		token, err := resolver.Resolve(ctx, cfg.TokenSecret)
		if err != nil {
			return "", fmt.Errorf("failed to read token from Secret Manager: %w", err)
		}
		slog.Debug("Using token from Secret Manager", "secret", cfg.TokenSecret)
		return token, nil
	}

	token, err := store.Load()
	if err != nil {
		slog.Warn("Ignoring saved token", "error", err)
		return "", nil
	}
	if token != "" {
		slog.Debug("Using saved token")
	}
	return token, nil
}
