// ABOUTME: Post commands for blogctl: list, get, create, update, delete, drafts
// ABOUTME: Resolves category and tag names to IDs and validates input before sending

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/markalston/blogctl/internal/client"
	"github.com/markalston/blogctl/internal/validation"
	"github.com/spf13/cobra"
)

// postFlags holds values for create and update
type postFlags struct {
	title       string
	content     string
	contentFile string
	category    string
	tags        []string
	status      string
}

var (
	listCategory string
	listTag      string

	draftPage int
	draftSize int
	draftSort string

	createFlags postFlags
	updateFlags postFlags
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Read and manage posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts",
	Long: `List published posts, optionally filtered by category or tag.
Categories and tags may be given by name or ID.

Example:
  blogctl posts list --category Tech --tag go`,
	Args: cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runPostsList(ctx, a, w, listCategory, listTag)
		}
	}),
}

var postsGetCmd = &cobra.Command{
	Use:   "get POST_ID",
	Short: "Show one post",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runPostsGet(ctx, a, w, args[0])
		}
	}),
}

var postsDraftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List your draft posts",
	Args:  cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runPostsDrafts(ctx, a, w, client.DraftQuery{Page: draftPage, Size: draftSize, Sort: draftSort})
		}
	}),
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a post",
	Long: `Create a post. Content can be given inline or read from a file;
use --content-file - to read it from stdin.

Example:
  blogctl posts create --title "Hello" --content-file hello.md --category Tech --tag go --status PUBLISHED`,
	Args: cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			content, err := readContent(cmd.InOrStdin(), createFlags)
			if err != nil {
				return err
			}
			f := createFlags
			f.content = content
			return runPostsCreate(ctx, a, w, f)
		}
	}),
}

var postsUpdateCmd = &cobra.Command{
	Use:   "update POST_ID",
	Short: "Update a post",
	Long: `Update a post. Only the fields you pass change; the rest keep their
current values.

Example:
  blogctl posts update 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --status PUBLISHED`,
	Args: cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			content, err := readContent(cmd.InOrStdin(), updateFlags)
			if err != nil {
				return err
			}
			f := updateFlags
			f.content = content
			return runPostsUpdate(ctx, a, w, args[0], f, changedPostFields(cmd))
		}
	}),
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete POST_ID",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runPostsDelete(ctx, a, w, args[0])
		}
	}),
}

func init() {
	postsListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category name or ID")
	postsListCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag name or ID")

	postsDraftsCmd.Flags().IntVar(&draftPage, "page", 0, "Page number, starting at 0")
	postsDraftsCmd.Flags().IntVar(&draftSize, "size", 20, "Page size")
	postsDraftsCmd.Flags().StringVar(&draftSort, "sort", "updatedAt,desc", "Sort order")

	bindPostFlags(postsCreateCmd, &createFlags, string(client.StatusDraft))
	bindPostFlags(postsUpdateCmd, &updateFlags, "")

	postsCmd.AddCommand(postsListCmd, postsGetCmd, postsDraftsCmd, postsCreateCmd, postsUpdateCmd, postsDeleteCmd)
	rootCmd.AddCommand(postsCmd)
}

func bindPostFlags(cmd *cobra.Command, f *postFlags, defaultStatus string) {
	cmd.Flags().StringVar(&f.title, "title", "", "Post title (3-40 characters)")
	cmd.Flags().StringVar(&f.content, "content", "", "Post body (20-50000 characters)")
	cmd.Flags().StringVar(&f.contentFile, "content-file", "", "Read the post body from a file, or - for stdin")
	cmd.Flags().StringVar(&f.category, "category", "", "Category name or ID")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "Tag name or ID (repeatable, up to 10)")
	cmd.Flags().StringVar(&f.status, "status", defaultStatus, "DRAFT or PUBLISHED")
}

// postField names a post attribute that update may change
type postField string

const (
	fieldTitle    postField = "title"
	fieldContent  postField = "content"
	fieldCategory postField = "category"
	fieldTags     postField = "tag"
	fieldStatus   postField = "status"
)

func changedPostFields(cmd *cobra.Command) map[postField]bool {
	changed := map[postField]bool{}
	for _, f := range []postField{fieldTitle, fieldContent, fieldCategory, fieldTags, fieldStatus} {
		if cmd.Flags().Changed(string(f)) {
			changed[f] = true
		}
	}
	if cmd.Flags().Changed("content-file") {
		changed[fieldContent] = true
	}
	return changed
}

func readContent(stdin io.Reader, f postFlags) (string, error) {
	if f.contentFile == "" {
		return f.content, nil
	}
	var data []byte
	var err error
	if f.contentFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(f.contentFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func runPostsList(ctx context.Context, a *app, w io.Writer, category, tag string) error {
	var filter client.PostFilter
	var err error
	if filter.CategoryID, err = a.taxonomy.CategoryID(ctx, category); err != nil {
		return err
	}
	ids, err := a.taxonomy.TagIDs(ctx, []string{tag})
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		filter.TagID = ids[0]
	}

	posts, err := a.client.ListPosts(ctx, filter)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, posts)
	}
	formatPostList(w, posts)
	return nil
}

func runPostsGet(ctx context.Context, a *app, w io.Writer, id string) error {
	post, err := a.client.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, post)
	}
	fmt.Fprintln(w, formatPostHuman(post))
	return nil
}

func runPostsDrafts(ctx context.Context, a *app, w io.Writer, q client.DraftQuery) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	posts, err := a.client.ListDrafts(ctx, q)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, posts)
	}
	formatPostList(w, posts)
	return nil
}

// buildPostInput resolves names and parses the status from flags
func buildPostInput(ctx context.Context, a *app, f postFlags) (*client.PostInput, error) {
	in := &client.PostInput{
		Title:   strings.TrimSpace(f.title),
		Content: f.content,
	}

	var err error
	if in.CategoryID, err = a.taxonomy.CategoryID(ctx, f.category); err != nil {
		return nil, err
	}
	if in.TagIDs, err = a.taxonomy.TagIDs(ctx, f.tags); err != nil {
		return nil, err
	}
	if f.status != "" {
		if in.Status, err = client.ParsePostStatus(f.status); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func runPostsCreate(ctx context.Context, a *app, w io.Writer, f postFlags) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	in, err := buildPostInput(ctx, a, f)
	if err != nil {
		return err
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	post, err := a.client.CreatePost(ctx, in)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, post)
	}
	fmt.Fprintf(w, "Created post %s (%s)\n", post.ID, post.Status)
	return nil
}

func runPostsUpdate(ctx context.Context, a *app, w io.Writer, id string, f postFlags, changed map[postField]bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(changed) == 0 {
		return fmt.Errorf("nothing to update; pass at least one of --title, --content, --category, --tag, --status")
	}

	current, err := a.client.GetPost(ctx, id)
	if err != nil {
		return err
	}
	in, err := buildPostInput(ctx, a, f)
	if err != nil {
		return err
	}

	req := &client.UpdatePostRequest{ID: id, PostInput: mergePost(current, in, changed)}
	if err := validation.Struct(req); err != nil {
		return err
	}

	post, err := a.client.UpdatePost(ctx, req)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, post)
	}
	fmt.Fprintf(w, "Updated post %s (%s)\n", post.ID, post.Status)
	return nil
}

// mergePost keeps current values for every field not in changed
func mergePost(current *client.Post, in *client.PostInput, changed map[postField]bool) client.PostInput {
	out := client.PostInput{
		Title:      current.Title,
		Content:    current.Content,
		CategoryID: current.Category.ID,
		Status:     current.Status,
	}
	for _, t := range current.Tags {
		out.TagIDs = append(out.TagIDs, t.ID)
	}

	if changed[fieldTitle] {
		out.Title = in.Title
	}
	if changed[fieldContent] {
		out.Content = in.Content
	}
	if changed[fieldCategory] {
		out.CategoryID = in.CategoryID
	}
	if changed[fieldTags] {
		out.TagIDs = in.TagIDs
	}
	if changed[fieldStatus] {
		out.Status = in.Status
	}
	if out.Status == "" {
		out.Status = client.StatusDraft
	}
	return out
}

func runPostsDelete(ctx context.Context, a *app, w io.Writer, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.client.DeletePost(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted post %s\n", id)
	return nil
}
