// ABOUTME: Root command for the blogctl CLI
// ABOUTME: Handles global flags, configuration, and wiring of the API session

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/config"
	"github.com/markalston/blogctl/internal/logger"
	"github.com/markalston/blogctl/internal/session"
	"github.com/markalston/blogctl/internal/taxonomy"
	"github.com/markalston/blogctl/internal/tokenstore"
	"github.com/markalston/blogctl/internal/validation"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	configDir  string
	jsonOutput bool
)

// Exit codes
const (
	exitOK           = 0
	exitError        = 1
	exitConnectivity = 2
	exitAuthRequired = 3
)

const sessionExpiredMessage = "Session expired. Run 'blogctl login' to sign in again."

var errNotLoggedIn = errors.New("not logged in")

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "CLI for the blog platform",
	Long: `blogctl is a command-line client for the blog platform API.

It signs in once, keeps the session token in the config directory, and
manages posts, drafts, categories, tags, and comments.

Environment Variables:
  BLOGCTL_API_URL     API base URL (default: http://localhost:8080/wang/shine1)
  BLOGCTL_TIMEOUT     Request timeout in seconds (default: 30)
  BLOGCTL_CONFIG_DIR  Directory for config.yaml and the session token
  LOG_LEVEL           debug, info, warn, error (default: warn)
  LOG_FORMAT          text, json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides BLOGCTL_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (overrides BLOGCTL_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// app bundles the dependencies a command runs against
type app struct {
	cfg      *config.Config
	client   *client.Client
	session  *session.Manager
	taxonomy *taxonomy.Resolver
	store    *tokenstore.File

	// expired is set when the API rejected the session during this run
	expired bool
}

// newApp loads configuration and restores any saved session
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(config.Overrides{APIURL: apiURL, ConfigDir: configDir})
	if err != nil {
		return nil, err
	}
	log := logger.Init(logOut, cfg.LogLevel)

	a := &app{
		cfg:    cfg,
		client: client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout)),
		store:  tokenstore.NewFile(cfg.ConfigDir),
	}
	a.taxonomy = taxonomy.New(a.client, taxonomy.DefaultTTL)
	a.session = session.New(a.client, a.store,
		session.WithLogger(log),
		session.WithLoginRedirect(func() { a.expired = true }),
	)
	a.client.SetCredentials(a.session)

	slog.Debug("Configuration loaded", "api_url", cfg.APIURL, "config_dir", cfg.ConfigDir, "timeout", cfg.Timeout)
	a.session.Initialize(ctx)
	return a, nil
}

func (a *app) close() {
	a.taxonomy.Close()
}

// requireLogin fails fast when no session is held
func (a *app) requireLogin() error {
	if !a.session.Snapshot().IsAuthenticated {
		if a.expired {
			return client.ErrUnauthorized
		}
		return errNotLoggedIn
	}
	return nil
}

// runner is a command body. It reports failures through its error.
type runner func(ctx context.Context, a *app, w io.Writer) error

// run wires an app, executes fn, and maps its error to an exit code
func run(ctx context.Context, w io.Writer, fn runner) int {
	return runLogging(ctx, w, os.Stderr, fn)
}

// runLogging is run with logs sent to logOut
func runLogging(ctx context.Context, w, logOut io.Writer, fn runner) int {
	a, err := newApp(ctx, logOut)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer a.close()

	return reportError(w, fn(ctx, a, w))
}

// runCommand adapts a runner to cobra, exiting with its code
func runCommand(fn func(cmd *cobra.Command, args []string) runner) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := run(ctx, cmd.OutOrStdout(), fn(cmd, args))
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	}
}

// reportError prints err for a human and returns the matching exit code
func reportError(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}

	var verr *validation.Error
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(w, sessionExpiredMessage)
		return exitAuthRequired
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintln(w, "Not logged in. Run 'blogctl login' first.")
		return exitAuthRequired
	case errors.As(err, &verr):
		fmt.Fprintln(w, "Invalid input:")
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "  - %s\n", f.Message)
		}
		return exitError
	case errors.As(err, &apiErr) && apiErr.IsTransport():
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitConnectivity
	case errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0:
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
		for _, f := range apiErr.FieldErrors {
			fmt.Fprintf(w, "  - %s: %s\n", f.Field, f.Message)
		}
		return exitError
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
}
