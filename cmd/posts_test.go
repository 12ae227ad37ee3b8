// ABOUTME: Tests for the post commands
// ABOUTME: Covers name resolution, create validation, and partial updates

package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/markalston/blogctl/internal/client"
)

func TestPostsListResolvesNames(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsList(ctx, a, w, "tech", "GO")
	})
	if code != exitOK {
		t.Fatalf("list failed with %d: %s", code, out)
	}

	q := srv.query("GET /posts")
	if !strings.Contains(q, "categoryId="+techID) || !strings.Contains(q, "tagId="+goTagID) {
		t.Errorf("expected resolved filter, got query %q", q)
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "TITLE") {
		t.Errorf("expected table output, got %q", out)
	}
}

func TestPostsListUnknownCategory(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsList(ctx, a, w, "Cooking", "")
	})
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	if !strings.Contains(out, `category "Cooking"`) {
		t.Errorf("unexpected output: %q", out)
	}
	if srv.received("GET /posts") {
		t.Error("expected no list request for an unknown category")
	}
}

func TestPostsDraftsQuery(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsDrafts(ctx, a, w, client.DraftQuery{Page: 2, Size: 5, Sort: "updatedAt,desc"})
	})
	if code != exitOK {
		t.Fatalf("drafts failed with %d: %s", code, out)
	}
	q := srv.query("GET /posts/drafts")
	for _, want := range []string{"page=2", "size=5", "sort=updatedAt%2Cdesc"} {
		if !strings.Contains(q, want) {
			t.Errorf("expected query to contain %q, got %q", want, q)
		}
	}
}

func TestPostsDraftsRequireLogin(t *testing.T) {
	srv := newBlogServer(t)
	useServer(t, srv)

	code, _ := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsDrafts(ctx, a, w, client.DraftQuery{})
	})
	if code != exitAuthRequired {
		t.Errorf("expected exit code %d, got %d", exitAuthRequired, code)
	}
	if srv.received("GET /posts/drafts") {
		t.Error("expected no request without a session")
	}
}

func TestPostsCreate(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	f := postFlags{
		title:    "  A new post ",
		content:  "Twenty characters or more of content.",
		category: "Tech",
		tags:     []string{"go", goTagID, ""},
		status:   "published",
	}
	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsCreate(ctx, a, w, f)
	})
	if code != exitOK {
		t.Fatalf("create failed with %d: %s", code, out)
	}
	if !strings.Contains(out, "Created post "+postUUID+" (PUBLISHED)") {
		t.Errorf("unexpected output: %q", out)
	}

	var body client.PostInput
	srv.body(t, "POST /posts", &body)
	if body.Title != "A new post" || body.CategoryID != techID || body.Status != client.StatusPublished {
		t.Errorf("unexpected body: %+v", body)
	}
	if len(body.TagIDs) != 1 || body.TagIDs[0] != goTagID {
		t.Errorf("expected one de-duplicated tag, got %v", body.TagIDs)
	}
}

func TestPostsCreateValidation(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsCreate(ctx, a, w, postFlags{title: "Hi", content: "short", status: "DRAFT"})
	})
	if code != exitError {
		t.Errorf("expected exit code %d, got %d", exitError, code)
	}
	for _, want := range []string{"title must be at least 3 characters", "content must be at least 20 characters", "categoryId is required"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if srv.received("POST /posts") {
		t.Error("expected invalid post not to be sent")
	}
}

func TestPostsCreateBadStatus(t *testing.T) {
	signIn(t, useServer(t, newBlogServer(t)))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsCreate(ctx, a, w, postFlags{status: "archived"})
	})
	if code != exitError || !strings.Contains(out, "unknown post status") {
		t.Errorf("unexpected result %d: %q", code, out)
	}
}

func TestPostsUpdateKeepsUnchangedFields(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsUpdate(ctx, a, w, postUUID, postFlags{status: "PUBLISHED"}, map[postField]bool{fieldStatus: true})
	})
	if code != exitOK {
		t.Fatalf("update failed with %d: %s", code, out)
	}

	var body client.UpdatePostRequest
	srv.body(t, "PUT /posts/"+postUUID, &body)
	if body.ID != postUUID || body.Title != "Hello" || body.CategoryID != techID || body.Status != client.StatusPublished {
		t.Errorf("unexpected merged body: %+v", body)
	}
	if len(body.TagIDs) != 1 || body.TagIDs[0] != goTagID {
		t.Errorf("expected current tags, got %v", body.TagIDs)
	}
}

func TestPostsUpdateNothingChanged(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsUpdate(ctx, a, w, postUUID, postFlags{}, map[postField]bool{})
	})
	if code != exitError || !strings.Contains(out, "nothing to update") {
		t.Errorf("unexpected result %d: %q", code, out)
	}
}

func TestPostsGetNotFound(t *testing.T) {
	useServer(t, newBlogServer(t))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsGet(ctx, a, w, "missing")
	})
	if code != exitError || !strings.Contains(out, "Post not found") {
		t.Errorf("unexpected result %d: %q", code, out)
	}
}

func TestPostsDelete(t *testing.T) {
	srv := newBlogServer(t)
	signIn(t, useServer(t, srv))

	code, out := runCmd(func(ctx context.Context, a *app, w io.Writer) error {
		return runPostsDelete(ctx, a, w, postUUID)
	})
	if code != exitOK || !strings.Contains(out, "Deleted post "+postUUID) {
		t.Errorf("unexpected result %d: %q", code, out)
	}
}

func TestMergePostDefaultsStatus(t *testing.T) {
	current := &client.Post{Title: "Old", Content: "Old content"}
	in := &client.PostInput{Title: "New"}

	out := mergePost(current, in, map[postField]bool{fieldTitle: true})
	if out.Title != "New" || out.Content != "Old content" {
		t.Errorf("unexpected merge: %+v", out)
	}
	if out.Status != client.StatusDraft {
		t.Errorf("expected missing status to default to DRAFT, got %q", out.Status)
	}
}

func TestReadContentFromStdin(t *testing.T) {
	got, err := readContent(strings.NewReader("from stdin"), postFlags{contentFile: "-"})
	if err != nil || got != "from stdin" {
		t.Errorf("expected stdin content, got %q (%v)", got, err)
	}

	got, _ = readContent(nil, postFlags{content: "inline"})
	if got != "inline" {
		t.Errorf("expected inline content, got %q", got)
	}

	if _, err := readContent(nil, postFlags{contentFile: "/does/not/exist"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatPostList(t *testing.T) {
	var buf bytes.Buffer
	formatPostList(&buf, nil)
	if buf.String() != "No posts found.\n" {
		t.Errorf("unexpected empty output: %q", buf.String())
	}
}
