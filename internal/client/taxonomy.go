// ABOUTME: Category and tag endpoints of the blog platform API

package client

import (
	"context"
	"net/http"
	"net/url"
)

// ListCategories calls GET /categories
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory calls POST /categories
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	var category Category
	body := &CategoryInput{Name: name}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: body}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory calls PUT /categories/{id}
func (c *Client) UpdateCategory(ctx context.Context, id, name string) (*Category, error) {
	var category Category
	body := &CategoryInput{ID: id, Name: name}
	if err := c.do(ctx, request{method: http.MethodPut, path: "/categories/" + url.PathEscape(id), body: body}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory calls DELETE /categories/{id}
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + url.PathEscape(id)}, nil)
}

// ListTags calls GET /tags
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tags"}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTags calls POST /tags
func (c *Client) CreateTags(ctx context.Context, names []string) ([]Tag, error) {
	var tags []Tag
	body := &CreateTagsRequest{Names: names}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/tags", body: body}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteTag calls DELETE /tags/{id}
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/tags/" + url.PathEscape(id)}, nil)
}
