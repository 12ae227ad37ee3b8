// ABOUTME: Browse command that opens the interactive terminal UI
// ABOUTME: Logs go to debug.log in the config dir so the screen stays clean

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/blogctl/internal/config"
	"github.com/markalston/blogctl/internal/tui"
	"github.com/markalston/blogctl/internal/tui/debuglog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse posts in an interactive terminal UI",
	Long: `Opens a full-screen browser for published posts and your drafts.

You can read posts and comments, sign in, write new posts, comment, and
delete your own posts. When the API rejects your session the browser
returns to its sign-in screen.

Diagnostics are written to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if exitCode := runBrowse(ctx, cmd.OutOrStdout()); exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(ctx context.Context, w io.Writer) int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(w, "Error: browse needs an interactive terminal")
		return exitError
	}

	cfg, err := config.Load(config.Overrides{APIURL: apiURL, ConfigDir: configDir})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if err := debuglog.Init(cfg.ConfigDir); err != nil {
		fmt.Fprintf(w, "Warning: debug log disabled: %v\n", err)
	}
	defer debuglog.Close()

	return runLogging(ctx, w, debuglog.Writer(), browse)
}

func browse(ctx context.Context, a *app, w io.Writer) error {
	return tui.Run(ctx, a.client, a.session, a.taxonomy, slog.Default())
}
