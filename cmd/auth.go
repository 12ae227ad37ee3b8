// ABOUTME: Session commands for blogctl: login, logout, register, whoami
// ABOUTME: Drives the session manager and persists the token between runs

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/session"
	"github.com/markalston/blogctl/internal/tui/forms"
	"github.com/markalston/blogctl/internal/validation"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errInvalidCredentials = errors.New("invalid email or password")

var (
	loginEmail    string
	loginPassword string
	passwordStdin bool

	registerName string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session token",
	Long: `Sign in to the blog platform. The token is saved to the config directory
and reused by later commands until it expires or you log out.

Missing credentials are prompted for when running in a terminal.

Example:
  blogctl login --email ada@example.com
  echo "$PASSWORD" | blogctl login --email ada@example.com --password-stdin`,
	Args: cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			req, err := credentials(cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			return runLogin(ctx, a, w, &client.LoginRequest{Email: req.Email, Password: req.Password})
		}
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session token",
	Args:  cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return runLogout
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a new author account. Sign in afterwards with 'blogctl login'.

Example:
  blogctl register --name Ada --email ada@example.com`,
	Args: cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			req, err := credentials(cmd.InOrStdin(), true)
			if err != nil {
				return err
			}
			return runRegister(ctx, a, w, req)
		}
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return runWhoami
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&loginEmail, "email", "", "Account email")
		c.Flags().StringVar(&loginPassword, "password", "", "Account password (prefer --password-stdin)")
		c.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	}
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}

// credentials gathers flag values, reading the password from stdin or
// prompting for anything still missing when attached to a terminal
func credentials(stdin io.Reader, withName bool) (*client.RegisterRequest, error) {
	req := &client.RegisterRequest{
		Name:     strings.TrimSpace(registerName),
		Email:    strings.TrimSpace(loginEmail),
		Password: loginPassword,
	}

	if passwordStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read password from stdin: %w", err)
		}
		req.Password = strings.TrimRight(line, "\r\n")
	}

	missing := req.Email == "" || req.Password == "" || (withName && req.Name == "")
	if missing && isTerminal(stdin) {
		var err error
		if withName {
			err = forms.PromptRegister(req)
		} else {
			err = forms.PromptLogin(&req.Email, &req.Password)
		}
		if err != nil {
			return nil, err
		}
	}
	return req, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runLogin authenticates and starts the session
func runLogin(ctx context.Context, a *app, w io.Writer, req *client.LoginRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	wasSignedIn := a.session.Snapshot().IsAuthenticated
	resp, err := a.client.Login(ctx, req)
	if errors.Is(err, client.ErrUnauthorized) {
		// The 401 policy has already cleared any stored session
		if wasSignedIn {
			return fmt.Errorf("%w; the previous session was signed out", errInvalidCredentials)
		}
		return errInvalidCredentials
	}
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login response did not include a token")
	}
	if err := a.session.Login(ctx, resp); err != nil {
		return err
	}

	state := a.session.Snapshot()
	if IsJSONOutput() {
		return writeJSON(w, state)
	}
	fmt.Fprintf(w, "Logged in as %s (%s)\n", state.User.Name, state.User.Email)
	return nil
}

func runLogout(ctx context.Context, a *app, w io.Writer) error {
	a.session.Logout()
	fmt.Fprintln(w, "Logged out.")
	return nil
}

func runRegister(ctx context.Context, a *app, w io.Writer, req *client.RegisterRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	author, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return writeJSON(w, author)
	}
	fmt.Fprintf(w, "Registered %s (%s). Run 'blogctl login' to sign in.\n", author.Name, author.Email)
	return nil
}

func runWhoami(ctx context.Context, a *app, w io.Writer) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	state := a.session.Snapshot()

	if IsJSONOutput() {
		return writeJSON(w, state)
	}
	fmt.Fprintln(w, formatUserHuman(state.User))
	return nil
}

func formatUserHuman(u *session.User) string {
	if u == nil {
		return "Signed in (profile unavailable)"
	}
	id := u.ID
	if id == "" {
		id = "(unknown, profile read from token)"
	}
	out := fmt.Sprintf("Name:   %s\nEmail:  %s\nID:     %s", u.Name, u.Email, id)
	if u.Role != "" {
		out += fmt.Sprintf("\nRole:   %s", u.Role)
	}
	return out
}
