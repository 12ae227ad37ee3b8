// ABOUTME: Tests for request validation
// ABOUTME: Exercises the constraints on every API request body

package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/blogctl/internal/client"
)

func validPost() client.PostInput {
	return client.PostInput{
		Title:      "Hello, Go",
		Content:    strings.Repeat("a", 20),
		CategoryID: uuid.NewString(),
		TagIDs:     []string{uuid.NewString()},
		Status:     client.StatusDraft,
	}
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	require.ErrorAs(t, err, &verr)
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestLoginRequest(t *testing.T) {
	assert.NoError(t, Struct(&client.LoginRequest{Email: "ada@x.com", Password: "pw"}))

	got := fields(t, Struct(&client.LoginRequest{Email: "nope"}))
	assert.Equal(t, "email must be a valid email address", got["email"])
	assert.Equal(t, "password is required", got["password"])
}

func TestRegisterRequest(t *testing.T) {
	assert.NoError(t, Struct(&client.RegisterRequest{Name: "Ada", Email: "ada@x.com", Password: "secret"}))

	got := fields(t, Struct(&client.RegisterRequest{Name: "A", Email: "ada@x.com", Password: "12345"}))
	assert.Equal(t, "name must be at least 2 characters", got["name"])
	assert.Equal(t, "password must be at least 6 characters", got["password"])

	got = fields(t, Struct(&client.RegisterRequest{Name: strings.Repeat("n", 21), Email: "ada@x.com", Password: "secret"}))
	assert.Equal(t, "name must be at most 20 characters", got["name"])
}

func TestPostInput(t *testing.T) {
	post := validPost()
	assert.NoError(t, Struct(&post))

	tests := []struct {
		name   string
		mutate func(p *client.PostInput)
		field  string
		want   string
	}{
		{"short title", func(p *client.PostInput) { p.Title = "Hi" }, "title", "title must be at least 3 characters"},
		{"long title", func(p *client.PostInput) { p.Title = strings.Repeat("t", 41) }, "title", "title must be at most 40 characters"},
		{"short content", func(p *client.PostInput) { p.Content = "too short" }, "content", "content must be at least 20 characters"},
		{"bad category", func(p *client.PostInput) { p.CategoryID = "tech" }, "categoryId", "categoryId must be a valid UUID"},
		{"bad tag", func(p *client.PostInput) { p.TagIDs = []string{"go"} }, "tagIds[0]", "tagIds[0] must be a valid UUID"},
		{"too many tags", func(p *client.PostInput) {
			p.TagIDs = nil
			for i := 0; i < 11; i++ {
				p.TagIDs = append(p.TagIDs, uuid.NewString())
			}
		}, "tagIds", "tagIds must be at most 10 items"},
		{"bad status", func(p *client.PostInput) { p.Status = "ARCHIVED" }, "status", "status must be one of DRAFT, PUBLISHED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPost()
			tt.mutate(&p)
			assert.Equal(t, tt.want, fields(t, Struct(&p))[tt.field])
		})
	}
}

func TestPostInputCountsRunes(t *testing.T) {
	p := validPost()
	p.Title = "héé"
	assert.NoError(t, Struct(&p))
}

func TestUpdatePostRequest(t *testing.T) {
	req := client.UpdatePostRequest{ID: uuid.NewString(), PostInput: validPost()}
	assert.NoError(t, Struct(&req))

	req.ID = "42"
	req.Title = ""
	got := fields(t, Struct(&req))
	assert.Equal(t, "id must be a valid UUID", got["id"])
	assert.Equal(t, "title is required", got["title"])
}

func TestCreateTagsRequest(t *testing.T) {
	assert.NoError(t, Struct(&client.CreateTagsRequest{Names: []string{"go", "testing"}}))

	got := fields(t, Struct(&client.CreateTagsRequest{}))
	assert.Equal(t, "names is required", got["names"])

	got = fields(t, Struct(&client.CreateTagsRequest{Names: []string{"g"}}))
	assert.Equal(t, "names[0] must be at least 2 characters", got["names[0]"])
}

func TestCreateCommentRequest(t *testing.T) {
	assert.NoError(t, Struct(&client.CreateCommentRequest{Content: "nice"}))
	assert.Error(t, Struct(&client.CreateCommentRequest{}))

	got := fields(t, Struct(&client.CreateCommentRequest{Content: strings.Repeat("c", 101)}))
	assert.Equal(t, "content must be at most 100 characters", got["content"])
}

func TestCategoryInput(t *testing.T) {
	assert.NoError(t, Struct(&client.CategoryInput{Name: "Go"}))
	assert.Error(t, Struct(&client.CategoryInput{}))
}

func TestErrorJoinsMessages(t *testing.T) {
	err := Struct(&client.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, "email is required; password is required", err.Error())
}
