package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"posthaste/internal/credentials"
	"posthaste/pkg/apperr"
	"posthaste/pkg/config"
)

func saveToken(cmd *cobra.Command, store *credentials.FileStore, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.NewUsage("Error: --token requires a value.", nil)
	}

	if err := store.Persist(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Token saved to "+store.Path()))
	return nil
}

func runLogin(cmd *cobra.Command, store *credentials.FileStore, deps Deps) error {
	if !deps.IsTerminal(cmd.InOrStdin()) {
		return apperr.NewUsage("Error: --login needs an interactive terminal; use --token <TOKEN> instead.", nil)
	}

	existing, _ := store.Load()

	token, err := deps.PromptToken(existing != "")
	if err != nil {
		return fmt.Errorf("login cancelled: %w", err)
	}
	if token == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Kept existing token"))
		return nil
	}

	return saveToken(cmd, store, token)
}

// promptToken asks for a token with masked input. It returns "" when the
// user chooses to keep an existing token.
func promptToken(replacing bool) (string, error) {
	if replacing {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found a saved token").
			Description("Replace it?").
			Affirmative("Yes").
			Negative("No").
			Value(&overwrite).
			Run(); err != nil {
			return "", err
		}
		if !overwrite {
			return "", nil
		}
	}

	var token string
	if err := huh.NewInput().
		Title("Posthaste token").
		Description("Sent as a bearer token with every upload").
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Validate(required("Token")).
		Run(); err != nil {
		return "", err
	}

	return strings.TrimSpace(token), nil
}

func printStatus(cmd *cobra.Command, cfg *config.Config, store *credentials.FileStore) error {
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, titleStyle.Render("Posthaste configuration"))
	_, _ = fmt.Fprintln(out, successStyle.Render("✓ Server: "+cfg.URL))
	_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("  Timeout: %ds", cfg.Timeout)))

	configPath := config.DefaultPath()
	if _, err := os.Stat(configPath); err == nil {
		_, _ = fmt.Fprintln(out, infoStyle.Render("  Config file: "+configPath))
	} else {
		_, _ = fmt.Fprintln(out, infoStyle.Render("  Config file: none ("+configPath+")"))
	}

	saved, err := store.Load()
	switch {
	case cfg.Token != "":
		_, _ = fmt.Fprintln(out, successStyle.Render("✓ Token: from POSTHASTE_TOKEN"))
	case cfg.TokenSecret != "":
		_, _ = fmt.Fprintln(out, successStyle.Render("✓ Token: from Secret Manager ("+cfg.TokenSecret+")"))
	case err != nil:
		_, _ = fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("✗ Token: cannot read %s: %v", store.Path(), err)))
	case saved != "":
		_, _ = fmt.Fprintln(out, successStyle.Render("✓ Token: saved in "+store.Path()))
	default:
		_, _ = fmt.Fprintln(out, infoStyle.Render("○ Token: not configured (optional)"))
		_, _ = fmt.Fprintln(out, infoStyle.Render("  Run: posthaste --token <TOKEN>"))
	}

	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
