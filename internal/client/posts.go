// ABOUTME: Post and comment endpoints of the blog platform API
// ABOUTME: Listing, drafts, CRUD, and per-post comments

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListPosts calls GET /posts
func (c *Client) ListPosts(ctx context.Context, filter PostFilter) ([]Post, error) {
	q := url.Values{}
	if filter.CategoryID != "" {
		q.Set("categoryId", filter.CategoryID)
	}
	if filter.TagID != "" {
		q.Set("tagId", filter.TagID)
	}

	var posts []Post
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts", query: q}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDrafts calls GET /posts/drafts for the signed-in author
func (c *Client) ListDrafts(ctx context.Context, query DraftQuery) ([]Post, error) {
	q := url.Values{}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.Size > 0 {
		q.Set("size", strconv.Itoa(query.Size))
	}
	if query.Sort != "" {
		q.Set("sort", query.Sort)
	}

	var posts []Post
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts/drafts", query: q}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost calls GET /posts/{id}
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts/" + url.PathEscape(id)}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost calls POST /posts
func (c *Client) CreatePost(ctx context.Context, in *PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, request{method: http.MethodPost, path: "/posts", body: in}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost calls PUT /posts/{id}
func (c *Client) UpdatePost(ctx context.Context, in *UpdatePostRequest) (*Post, error) {
	var post Post
	if err := c.do(ctx, request{method: http.MethodPut, path: "/posts/" + url.PathEscape(in.ID), body: in}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost calls DELETE /posts/{id}
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/posts/" + url.PathEscape(id)}, nil)
}

// ListComments calls GET /posts/{id}/comments
func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, request{method: http.MethodGet, path: commentsPath(postID)}, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment calls POST /posts/{id}/comments
func (c *Client) CreateComment(ctx context.Context, postID string, in *CreateCommentRequest) (*Comment, error) {
	var comment Comment
	if err := c.do(ctx, request{method: http.MethodPost, path: commentsPath(postID), body: in}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment calls DELETE /posts/{id}/comments/{commentId}
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: commentsPath(postID) + "/" + url.PathEscape(commentID)}, nil)
}

func commentsPath(postID string) string {
	return "/posts/" + url.PathEscape(postID) + "/comments"
}
