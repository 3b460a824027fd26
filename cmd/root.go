package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"posthaste/internal/credentials"
	"posthaste/internal/input"
	"posthaste/pkg/apperr"
)

var version = "dev"

// TokenResolver fetches a token from an external secret store.
type TokenResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
	Close() error
}

// Deps are the process-level collaborators of the root command. Zero values
// are replaced with the real ones.
type Deps struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	IsTerminal        func(f any) bool
	OpenURL           func(url string) error
	PromptToken       func(replacing bool) (string, error)
	NewSecretResolver func(ctx context.Context) (TokenResolver, error)
}

func (d Deps) withDefaults() Deps {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.IsTerminal == nil {
		d.IsTerminal = input.IsTerminal
	}
	if d.OpenURL == nil {
		d.OpenURL = browser.OpenURL
	}
	if d.PromptToken == nil {
		d.PromptToken = promptToken
	}
	if d.NewSecretResolver == nil {
		d.NewSecretResolver = func(ctx context.Context) (TokenResolver, error) {
			r, err := credentials.NewSecretResolver(ctx)
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	return d
}

type rootOptions struct {
	url         string
	token       string
	timeout     int
	verbose     bool
	skipMissing bool
	login       bool
	docs        bool
	status      bool
}

func newRootCmd(deps Deps) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "posthaste [files...]",
		Short: "Quickly upload text or files to a Hastebin-compatible server",
		Long: `Posthaste uploads files, or text piped on standard input, to a
Hastebin-compatible paste server and prints the share URL of each upload.

Environment:
  POSTHASTE_URL     server URL (default https://hastebin.com)
  POSTHASTE_TOKEN   bearer token sent with uploads`,
		Example: `  posthaste notes.txt
  cat build.log | posthaste
  posthaste --url http://localhost:7777 main.go
  posthaste --token <TOKEN>`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts, deps)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.url, "url", "", "Paste server URL (default $POSTHASTE_URL or https://hastebin.com)")
	flags.StringVarP(&opts.token, "token", "t", "", "Save a bearer token for future uploads and exit")
	flags.IntVar(&opts.timeout, "timeout", 5, "Request timeout in seconds")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show request details, server response and debug logs")
	flags.BoolVar(&opts.skipMissing, "skip-missing", false, "Skip files that cannot be read instead of stopping")
	flags.BoolVar(&opts.login, "login", false, "Prompt for a token and save it")
	flags.BoolVar(&opts.docs, "docs", false, "Open the documentation in a browser")
	flags.BoolVar(&opts.status, "status", false, "Show server and token configuration")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return apperr.NewUsage("Error: "+err.Error()+"\nRun 'posthaste --help' for usage.", err)
	})

	return cmd
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, deps Deps) int {
	deps = deps.withDefaults()

	cmd := newRootCmd(deps)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(deps.Stderr, err)
	}
	return exitCode(err)
}

func Execute() int {
	return Run(context.Background(), os.Args[1:], Deps{})
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
