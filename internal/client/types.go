// ABOUTME: Request and response types for the blog platform API
// ABOUTME: Field names follow the API's camelCase JSON

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexibleID decodes an identifier the API may send as a JSON string or number
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

// MeResponse represents the /me endpoint response. Older API versions send the
// identifier as userId.
type MeResponse struct {
	ID     FlexibleID `json:"id"`
	UserID FlexibleID `json:"userId"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   string     `json:"role,omitempty"`
}

// Identifier returns whichever identifier key the response carried
func (m *MeResponse) Identifier() string {
	if m.ID != "" {
		return string(m.ID)
	}
	return string(m.UserID)
}

// LoginRequest represents the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// RegisterRequest represents the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Author is the public representation of a user
type Author struct {
	ID    FlexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
}

// PostStatus is the publication state of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
)

// ParsePostStatus accepts a status name in any case
func ParsePostStatus(s string) (PostStatus, error) {
	switch PostStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", fmt.Errorf("unknown post status %q (want DRAFT or PUBLISHED)", s)
}

// Category groups posts
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"postCount,omitempty"`
}

// Tag labels posts
type Tag struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"postCount,omitempty"`
}

// Post represents a blog post
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      *Author    `json:"author,omitempty"`
	Category    Category   `json:"category"`
	Tags        []Tag      `json:"tags"`
	ReadingTime int        `json:"readingTime,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Status      PostStatus `json:"status,omitempty"`
}

// PostInput is the shared body of post create and update requests
type PostInput struct {
	Title      string     `json:"title" validate:"required,min=3,max=40"`
	Content    string     `json:"content" validate:"required,min=20,max=50000"`
	CategoryID string     `json:"categoryId" validate:"required,uuid"`
	TagIDs     []string   `json:"tagIds" validate:"max=10,dive,uuid"`
	Status     PostStatus `json:"status" validate:"required,oneof=DRAFT PUBLISHED"`
}

// UpdatePostRequest represents the body of PUT /posts/{id}
type UpdatePostRequest struct {
	ID string `json:"id" validate:"required,uuid"`
	PostInput
}

// PostFilter narrows GET /posts
type PostFilter struct {
	CategoryID string
	TagID      string
}

// DraftQuery pages through GET /posts/drafts
type DraftQuery struct {
	Page int
	Size int
	Sort string
}

// CategoryInput represents the body of category create and update requests
type CategoryInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" validate:"required,max=50"`
}

// CreateTagsRequest represents the body of POST /tags
type CreateTagsRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=10,dive,min=2,max=30"`
}

// Comment is a reader comment on a post
type Comment struct {
	ID      string  `json:"id"`
	Author  *Author `json:"author,omitempty"`
	Content string  `json:"content"`
}

// CreateCommentRequest represents the body of POST /posts/{id}/comments
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=100"`
}
