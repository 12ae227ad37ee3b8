// ABOUTME: Shared output helpers for commands
// ABOUTME: JSON encoding, aligned tables, and post formatting

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/markalston/blogctl/internal/client"
)

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a writer that aligns tab-separated columns. Call Flush.
func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func tagNames(tags []client.Tag) string {
	if len(tags) == 0 {
		return "-"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func authorName(a *client.Author) string {
	if a == nil || a.Name == "" {
		return "-"
	}
	return a.Name
}

// formatPostList renders posts as a table
func formatPostList(w io.Writer, posts []client.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return
	}
	tw := newTable(w, "ID", "TITLE", "CATEGORY", "AUTHOR", "STATUS", "UPDATED")
	for _, p := range posts {
		status := string(p.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.Category.Name, authorName(p.Author), status, formatDate(p.UpdatedAt))
	}
	tw.Flush()
}

// formatPostHuman renders one post with its body
func formatPostHuman(p *client.Post) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", p.Title)
	fmt.Fprintf(&sb, "%s\n\n", strings.Repeat("=", len([]rune(p.Title))))
	fmt.Fprintf(&sb, "ID:        %s\n", p.ID)
	fmt.Fprintf(&sb, "Author:    %s\n", authorName(p.Author))
	fmt.Fprintf(&sb, "Category:  %s\n", p.Category.Name)
	fmt.Fprintf(&sb, "Tags:      %s\n", tagNames(p.Tags))
	if p.Status != "" {
		fmt.Fprintf(&sb, "Status:    %s\n", p.Status)
	}
	if p.ReadingTime > 0 {
		fmt.Fprintf(&sb, "Reading:   %d min\n", p.ReadingTime)
	}
	fmt.Fprintf(&sb, "Updated:   %s\n\n", formatDate(p.UpdatedAt))
	sb.WriteString(strings.TrimRight(p.Content, "\n"))
	return sb.String()
}
