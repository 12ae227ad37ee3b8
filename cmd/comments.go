// ABOUTME: Comment commands for blogctl
// ABOUTME: Lists, adds, and deletes comments on a post

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/validation"
	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and write comments on a post",
}

var commentsListCmd = &cobra.Command{
	Use:   "list POST_ID",
	Short: "List comments on a post",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCommentsList(ctx, a, w, args[0])
		}
	}),
}

var commentsAddCmd = &cobra.Command{
	Use:   "add POST_ID TEXT...",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCommentsAdd(ctx, a, w, args[0], strings.Join(args[1:], " "))
		}
	}),
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete POST_ID COMMENT_ID",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(2),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCommentsDelete(ctx, a, w, args[0], args[1])
		}
	}),
}

func init() {
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}

func runCommentsList(ctx context.Context, a *app, w io.Writer, postID string) error {
	comments, err := a.client.ListComments(ctx, postID)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, comments)
	}
	fmt.Fprint(w, formatComments(comments, a.session.Snapshot().CurrentUserID()))
	return nil
}

// formatComments renders comments, marking the ones written by currentUserID
func formatComments(comments []client.Comment, currentUserID string) string {
	if len(comments) == 0 {
		return "No comments yet.\n"
	}
	var sb strings.Builder
	for _, c := range comments {
		mine := ""
		if currentUserID != "" && c.Author != nil && string(c.Author.ID) == currentUserID {
			mine = " (you)"
		}
		fmt.Fprintf(&sb, "%s%s [%s]\n  %s\n", authorName(c.Author), mine, c.ID, c.Content)
	}
	return sb.String()
}

func runCommentsAdd(ctx context.Context, a *app, w io.Writer, postID, text string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	in := &client.CreateCommentRequest{Content: strings.TrimSpace(text)}
	if err := validation.Struct(in); err != nil {
		return err
	}

	comment, err := a.client.CreateComment(ctx, postID, in)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, comment)
	}
	fmt.Fprintf(w, "Added comment %s\n", comment.ID)
	return nil
}

func runCommentsDelete(ctx context.Context, a *app, w io.Writer, postID, commentID string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.client.DeleteComment(ctx, postID, commentID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted comment %s\n", commentID)
	return nil
}
