// ABOUTME: Tests for the session commands
// ABOUTME: Covers login persistence, whoami, logout, register, and expired sessions

package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/session"
)

func login(email, password string) runner {
	return func(ctx context.Context, a *app, w io.Writer) error {
		return runLogin(ctx, a, w, &client.LoginRequest{Email: email, Password: password})
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	srv := newBlogServer(t)
	dir := useServer(t, srv)

	code, out := runCmd(login("ada@x.com", "secret1"))
	if code != exitOK {
		t.Fatalf("login failed with %d: %s", code, out)
	}
	if !strings.Contains(out, "Logged in as ada (ada@x.com)") {
		t.Errorf("unexpected login output: %q", out)
	}
	saved, err := os.ReadFile(filepath.Join(dir, "token"))
	if err != nil || string(saved) != validToken {
		t.Fatalf("expected token to be saved, got %q (%v)", saved, err)
	}

	code, out = runCmd(runWhoami)
	if code != exitOK {
		t.Fatalf("whoami failed with %d: %s", code, out)
	}
	for _, want := range []string{"Name:   ada", "Email:  ada@x.com", "ID:     42"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected whoami to contain %q, got %q", want, out)
		}
	}

	code, out = runCmd(runLogout)
	if code != exitOK || !strings.Contains(out, "Logged out.") {
		t.Errorf("unexpected logout result %d: %q", code, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("expected token file to be removed")
	}

	code, out = runCmd(runWhoami)
	if code != exitAuthRequired {
		t.Errorf("expected exit code %d after logout, got %d", exitAuthRequired, code)
	}
	if !strings.Contains(out, "Not logged in.") {
		t.Errorf("unexpected whoami output: %q", out)
	}
}

func TestLoginJSON(t *testing.T) {
	useServer(t, newBlogServer(t))
	jsonOutput = true

	code, out := runCmd(login("ada@x.com", "secret1"))
	if code != exitOK {
		t.Fatalf("login failed with %d: %s", code, out)
	}

	var state session.State
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !state.IsAuthenticated || state.User == nil || state.User.ID != "42" {
		t.Errorf("unexpected state: %+v", state)
	}
	if strings.Contains(out, validToken) {
		t.Error("expected token to be left out of JSON output")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, out := runCmd(login("ada@x.com", "wrong"))
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.Contains(out, "invalid email or password") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLoginWrongPasswordWhileSignedIn(t *testing.T) {
	srv := newBlogServer(t)
	dir := useServer(t, srv)
	signIn(t, dir)

	code, out := runCmd(login("ada@x.com", "wrong"))
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.Contains(out, "invalid email or password; the previous session was signed out") {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Errorf("expected stored token to be cleared, stat err = %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, out := runCmd(login("not-an-email", ""))
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.Contains(out, "Invalid input:") {
		t.Errorf("unexpected output: %q", out)
	}
	if srv.received("POST /auth/login") {
		t.Error("expected invalid input not to reach the API")
	}
}

func TestRegister(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runRegister(ctx, a, w, &client.RegisterRequest{Name: "Lin", Email: "lin@x.com", Password: "secret1"})
	})
	if code != exitOK {
		t.Fatalf("register failed with %d: %s", code, out)
	}
	if !strings.Contains(out, "Registered Lin (lin@x.com)") {
		t.Errorf("unexpected output: %q", out)
	}

	var body client.RegisterRequest
	srv.body(t, "POST /auth/register", &body)
	if body.Name != "Lin" || body.Password != "secret1" {
		t.Errorf("unexpected register body: %+v", body)
	}
}

func TestExpiredStoredToken(t *testing.T) {
	srv := newBlogServer(t)
	dir := useServer(t, srv)
	signIn(t, dir)
	srv.rejectTokens = true

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsDrafts(ctx, a, w, client.DraftQuery{})
	})
	if code != exitAuthRequired {
		t.Errorf("expected exit code %d, got %d", exitAuthRequired, code)
	}
	if !strings.Contains(out, sessionExpiredMessage) {
		t.Errorf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("expected rejected token to be cleared")
	}
}

func TestUnauthorizedDuringCommand(t *testing.T) {
	srv := newBlogServer(t)
	dir := useServer(t, srv)
	signIn(t, dir)
	srv.rejectData = true

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsDrafts(ctx, a, w, client.DraftQuery{})
	})
	if code != exitAuthRequired {
		t.Errorf("expected exit code %d, got %d", exitAuthRequired, code)
	}
	if !strings.Contains(out, sessionExpiredMessage) {
		t.Errorf("unexpected output: %q", out)
	}
	if !srv.received("GET /posts/drafts") {
		t.Error("expected the drafts request to be sent")
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); !os.IsNotExist(err) {
		t.Error("expected token to be cleared after 401")
	}
}

func TestFormatUserHuman(t *testing.T) {
	out := formatUserHuman(&session.User{Name: "ada", Email: "ada@x.com"})
	if !strings.Contains(out, "(unknown, profile read from token)") {
		t.Errorf("expected fallback ID marker, got %q", out)
	}

	out = formatUserHuman(&session.User{ID: "7", Name: "ada", Email: "ada@x.com", Role: "ADMIN"})
	if !strings.Contains(out, "Role:   ADMIN") {
		t.Errorf("expected role, got %q", out)
	}
}
