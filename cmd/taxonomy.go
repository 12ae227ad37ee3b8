// ABOUTME: Category and tag commands for blogctl
// ABOUTME: Lists, creates, renames, and deletes categories and tags

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

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return runCategoriesList
	}),
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCategoriesCreate(ctx, a, w, args[0])
		}
	}),
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename CATEGORY NEW_NAME",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCategoriesRename(ctx, a, w, args[0], args[1])
		}
	}),
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete CATEGORY",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runCategoriesDelete(ctx, a, w, args[0])
		}
	}),
}

var tagsCmd = &cobra.Command{
	Use:     "tags",
	Aliases: []string{"tag"},
	Short:   "Manage tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return runTagsList
	}),
}

var tagsCreateCmd = &cobra.Command{
	Use:   "create NAME...",
	Short: "Create one or more tags",
	Args:  cobra.MinimumNArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runTagsCreate(ctx, a, w, args)
		}
	}),
}

var tagsDeleteCmd = &cobra.Command{
	Use:   "delete TAG",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(cmd *cobra.Command, args []string) runner {
		return func(ctx context.Context, a *app, w io.Writer) error {
			return runTagsDelete(ctx, a, w, args[0])
		}
	}),
}

func init() {
	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesRenameCmd, categoriesDeleteCmd)
	tagsCmd.AddCommand(tagsListCmd, tagsCreateCmd, tagsDeleteCmd)
	rootCmd.AddCommand(categoriesCmd, tagsCmd)
}

func runCategoriesList(ctx context.Context, a *app, w io.Writer) error {
	categories, err := a.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, categories)
	}
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found.")
		return nil
	}
	tw := newTable(w, "ID", "NAME", "POSTS")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, c.PostCount)
	}
	return tw.Flush()
}

func runCategoriesCreate(ctx context.Context, a *app, w io.Writer, name string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	in := &client.CategoryInput{Name: strings.TrimSpace(name)}
	if err := validation.Struct(in); err != nil {
		return err
	}

	category, err := a.client.CreateCategory(ctx, in.Name)
	if err != nil {
		return err
	}
	a.taxonomy.Invalidate()
	if IsJSONOutput() {
		return writeJSON(w, category)
	}
	fmt.Fprintf(w, "Created category %s (%s)\n", category.Name, category.ID)
	return nil
}

func runCategoriesRename(ctx context.Context, a *app, w io.Writer, nameOrID, newName string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	in := &client.CategoryInput{Name: strings.TrimSpace(newName)}
	if err := validation.Struct(in); err != nil {
		return err
	}
	id, err := a.taxonomy.CategoryID(ctx, nameOrID)
	if err != nil {
		return err
	}

	category, err := a.client.UpdateCategory(ctx, id, in.Name)
	if err != nil {
		return err
	}
	a.taxonomy.Invalidate()
	if IsJSONOutput() {
		return writeJSON(w, category)
	}
	fmt.Fprintf(w, "Renamed category %s to %s\n", id, category.Name)
	return nil
}

func runCategoriesDelete(ctx context.Context, a *app, w io.Writer, nameOrID string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.taxonomy.CategoryID(ctx, nameOrID)
	if err != nil {
		return err
	}
	if err := a.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	a.taxonomy.Invalidate()
	fmt.Fprintf(w, "Deleted category %s\n", id)
	return nil
}

func runTagsList(ctx context.Context, a *app, w io.Writer) error {
	tags, err := a.client.ListTags(ctx)
	if err != nil {
		return err
	}
	if IsJSONOutput() {
		return writeJSON(w, tags)
	}
	if len(tags) == 0 {
		fmt.Fprintln(w, "No tags found.")
		return nil
	}
	tw := newTable(w, "ID", "NAME", "POSTS")
	for _, t := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.ID, t.Name, t.PostCount)
	}
	return tw.Flush()
}

func runTagsCreate(ctx context.Context, a *app, w io.Writer, names []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	in := &client.CreateTagsRequest{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			in.Names = append(in.Names, n)
		}
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	tags, err := a.client.CreateTags(ctx, in.Names)
	if err != nil {
		return err
	}
	a.taxonomy.Invalidate()
	if IsJSONOutput() {
		return writeJSON(w, tags)
	}
	for _, t := range tags {
		fmt.Fprintf(w, "Created tag %s (%s)\n", t.Name, t.ID)
	}
	return nil
}

func runTagsDelete(ctx context.Context, a *app, w io.Writer, nameOrID string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ids, err := a.taxonomy.TagIDs(ctx, []string{nameOrID})
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("tag name or ID is required")
	}
	if err := a.client.DeleteTag(ctx, ids[0]); err != nil {
		return err
	}
	a.taxonomy.Invalidate()
	fmt.Fprintf(w, "Deleted tag %s\n", ids[0])
	return nil
}
