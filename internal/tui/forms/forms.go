// ABOUTME: huh forms shared by the CLI prompts and the TUI screens
// ABOUTME: Blocking prompts for login and register, plus field validators

package forms

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// CancelledMsg is sent when the user leaves a form with esc
type CancelledMsg struct{}

// PromptLogin asks for any missing login credentials on the terminal
func PromptLogin(email, password *string) error {
	return huh.NewForm(loginGroup(email, password)).
		WithTheme(styles.FormTheme()).
		Run()
}

// PromptRegister asks for any missing registration fields on the terminal
func PromptRegister(req *client.RegisterRequest) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Description("2-20 characters").
				Value(&req.Name).
				Validate(lengthBetween(2, 20)),
			huh.NewInput().
				Title("Email").
				Value(&req.Email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				Description("At least 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password).
				Validate(lengthBetween(6, 0)),
		).Title("Create an account"),
	).WithTheme(styles.FormTheme()).Run()
}

func loginGroup(email, password *string) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(email).
			Validate(validateEmail),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(validateRequired),
	).Title("Sign in").
		Description("Sign in to write posts and comments")
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.New("must be a valid email address")
	}
	return nil
}

// lengthBetween validates the rune count of a field. max 0 means unbounded.
func lengthBetween(min, max int) func(string) error {
	return func(s string) error {
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		if n < min {
			return errors.New("too short")
		}
		if max > 0 && n > max {
			return errors.New("too long")
		}
		return nil
	}
}
