// ABOUTME: Tests for the TUI forms
// ABOUTME: Validates editor step flow, submitted messages, and field validators

package forms

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/taxonomy"
)

func testTaxonomy() *taxonomy.Snapshot {
	return &taxonomy.Snapshot{
		Categories: []client.Category{{ID: "cat-1", Name: "Tech"}, {ID: "cat-2", Name: "Life"}},
		Tags:       []client.Tag{{ID: "tag-1", Name: "go"}},
	}
}

func TestEditorDefaults(t *testing.T) {
	e := NewEditor(testTaxonomy())

	if e.Step() != 1 {
		t.Errorf("expected step 1, got %d", e.Step())
	}
	if e.category != "cat-1" {
		t.Errorf("expected first category preselected, got %q", e.category)
	}
	if e.status != string(client.StatusDraft) {
		t.Errorf("expected draft by default, got %q", e.status)
	}
	if len(e.tags) != 1 {
		t.Errorf("expected 1 tag option, got %d", len(e.tags))
	}
}

func TestEditorNilTaxonomy(t *testing.T) {
	e := NewEditor(nil)

	if e.category != "" {
		t.Errorf("expected no category, got %q", e.category)
	}
	if e.form == nil {
		t.Error("expected form to be created")
	}
}

func TestEditorStepsBuildInput(t *testing.T) {
	e := NewEditor(testTaxonomy())

	e.title = "  Hello Go  "
	e.category = "cat-2"
	e.tagIDs = []string{"tag-1"}
	e.advanceStep()
	if e.Step() != 2 {
		t.Fatalf("expected step 2, got %d", e.Step())
	}

	e.content = strings.Repeat("x", 25)
	e.advanceStep()
	if e.Step() != 3 {
		t.Fatalf("expected step 3, got %d", e.Step())
	}

	e.status = string(client.StatusPublished)
	_, cmd := e.advanceStep()
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	msg, ok := cmd().(PostSubmittedMsg)
	if !ok {
		t.Fatalf("expected PostSubmittedMsg, got %T", cmd())
	}

	in := msg.Input
	if in.Title != "Hello Go" {
		t.Errorf("expected trimmed title, got %q", in.Title)
	}
	if in.CategoryID != "cat-2" {
		t.Errorf("expected cat-2, got %q", in.CategoryID)
	}
	if len(in.TagIDs) != 1 || in.TagIDs[0] != "tag-1" {
		t.Errorf("expected [tag-1], got %v", in.TagIDs)
	}
	if in.Status != client.StatusPublished {
		t.Errorf("expected PUBLISHED, got %q", in.Status)
	}
	if len(in.Content) != 25 {
		t.Errorf("expected content to carry over, got %d chars", len(in.Content))
	}
}

func TestEditorEscCancels(t *testing.T) {
	e := NewEditor(testTaxonomy())

	_, cmd := e.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestEditorProgressWidth(t *testing.T) {
	e := NewEditor(testTaxonomy())
	e.SetWidth(81)

	view := e.View()
	if !strings.Contains(view, "Details") || !strings.Contains(view, "Publish") {
		t.Error("expected step names in progress panel")
	}
}

func TestLoginEscCancels(t *testing.T) {
	l := NewLogin("", "")

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestLoginShowsNoticeAndError(t *testing.T) {
	l := NewLogin("ada@x.com", "Session expired")
	l.password = "secret"
	l.SetError("invalid credentials")

	view := l.View()
	if !strings.Contains(view, "Session expired") {
		t.Error("expected notice in view")
	}
	if !strings.Contains(view, "invalid credentials") {
		t.Error("expected error in view")
	}
	if l.password != "" {
		t.Error("expected password to be cleared after a failed attempt")
	}
	if l.email != "ada@x.com" {
		t.Errorf("expected email to be kept, got %q", l.email)
	}
}

func TestCommentEscCancels(t *testing.T) {
	c := NewComment("post-1", "Hello")

	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"required ok", validateRequired, "x", false},
		{"required blank", validateRequired, "  ", true},
		{"email ok", validateEmail, "ada@x.com", false},
		{"email blank", validateEmail, "", true},
		{"email invalid", validateEmail, "ada", true},
		{"length ok", lengthBetween(2, 4), "abc", false},
		{"length short", lengthBetween(2, 4), "a", true},
		{"length long", lengthBetween(2, 4), "abcde", true},
		{"length counts runes", lengthBetween(2, 3), "héé", false},
		{"length unbounded", lengthBetween(6, 0), strings.Repeat("p", 500), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
