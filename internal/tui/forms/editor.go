// ABOUTME: New-post editor as a bubbletea model
// ABOUTME: Uses huh forms with a visual progress indicator for step navigation

package forms

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/taxonomy"
	"github.com/markalston/blogctl/internal/tui/icons"
	"github.com/markalston/blogctl/internal/tui/styles"
)

// PostSubmittedMsg is sent when the editor finishes
type PostSubmittedMsg struct {
	Input *client.PostInput
}

// Editor walks through the fields of a new post
type Editor struct {
	input *client.PostInput
	form  *huh.Form
	step  int
	width int

	categories []huh.Option[string]
	tags       []huh.Option[string]

	// Form field values
	title    string
	category string
	tagIDs   []string
	content  string
	status   string
}

// Step names for progress indicator
var stepNames = []string{"Details", "Content", "Publish"}

// NewEditor creates an editor offering the given categories and tags
func NewEditor(tax *taxonomy.Snapshot) *Editor {
	e := &Editor{
		input:  &client.PostInput{},
		step:   1,
		status: string(client.StatusDraft),
	}
	if tax != nil {
		for _, c := range tax.Categories {
			e.categories = append(e.categories, huh.NewOption(c.Name, c.ID))
		}
		for _, t := range tax.Tags {
			e.tags = append(e.tags, huh.NewOption(t.Name, t.ID))
		}
	}
	if len(e.categories) > 0 {
		e.category = e.categories[0].Value
	}

	e.form = e.createStep1Form()
	return e
}

func (e *Editor) createStep1Form() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Description("3-40 characters").
			CharLimit(40).
			Value(&e.title).
			Validate(lengthBetween(3, 40)),
		huh.NewSelect[string]().
			Title("Category").
			Description("Use ↑/↓ to select, Enter to confirm").
			Options(e.categories...).
			Value(&e.category),
	}
	if len(e.tags) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Tags").
			Description("Space to toggle, up to 10").
			Options(e.tags...).
			Limit(10).
			Value(&e.tagIDs))
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 1: Details").
			Description("Name the post and file it"),
	).WithTheme(styles.FormTheme())
}

func (e *Editor) createStep2Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Content").
				Description("20-50000 characters; markdown is fine").
				CharLimit(50000).
				Lines(12).
				Value(&e.content).
				Validate(lengthBetween(20, 50000)),
		).Title("Step 2: Content"),
	).WithTheme(styles.FormTheme())
}

func (e *Editor) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Save as draft", string(client.StatusDraft)),
					huh.NewOption("Publish now", string(client.StatusPublished)),
				).
				Value(&e.status),
		).Title("Step 3: Publish").
			Description("Drafts are only visible to you"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (e *Editor) Init() tea.Cmd {
	return e.form.Init()
}

// Update implements tea.Model
func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return e, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		return e.advanceStep()
	}
	return e, cmd
}

func (e *Editor) advanceStep() (tea.Model, tea.Cmd) {
	switch e.step {
	case 1:
		e.input.Title = strings.TrimSpace(e.title)
		e.input.CategoryID = e.category
		e.input.TagIDs = append([]string(nil), e.tagIDs...)
		e.step = 2
		e.form = e.createStep2Form()
		return e, e.form.Init()

	case 2:
		e.input.Content = e.content
		e.step = 3
		e.form = e.createStep3Form()
		return e, e.form.Init()

	case 3:
		e.input.Status = client.PostStatus(e.status)
		input := e.input
		return e, func() tea.Msg {
			return PostSubmittedMsg{Input: input}
		}
	}

	return e, nil
}

// SetWidth sets the editor width for proper rendering
func (e *Editor) SetWidth(width int) {
	e.width = width
}

// Step returns the current step, starting at 1
func (e *Editor) Step() int {
	return e.step
}

// View implements tea.Model
func (e *Editor) View() string {
	var sb strings.Builder
	sb.WriteString(e.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(e.form.View())
	return sb.String()
}

// renderProgress renders the step progress indicator
func (e *Editor) renderProgress() string {
	width := e.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < e.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == e.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	filledWidth := (e.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	const title = "New post"
	topFillWidth := max(0, width-5-lipgloss.Width(title))
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	progressLinePadded := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Input returns the collected post fields
func (e *Editor) Input() *client.PostInput {
	return e.input
}
