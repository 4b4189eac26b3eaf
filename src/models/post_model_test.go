package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPost() Post {
	return Post{
		Title:    "Hello World",
		Content:  "This is a post with enough content.",
		Category: "general",
		Status:   PostStatusDraft,
		Media:    Media{Type: MediaTypeNone},
	}
}

func TestPostValidate(t *testing.T) {
	p := validPost()
	require.NoError(t, p.Validate())
}

func TestPostValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Post)
		want   string
	}{
		{"short title", func(p *Post) { p.Title = "ab" }, "Title must be at least 3 characters"},
		{"long title", func(p *Post) { p.Title = strings.Repeat("t", 201) }, "Title cannot be more than 200 characters"},
		{"short content", func(p *Post) { p.Content = "too short" }, "Content must be at least 10 characters"},
		{"no category", func(p *Post) { p.Category = "" }, "Please provide a category"},
		{"too many tags", func(p *Post) { p.Tags = make([]string, 11) }, "Cannot have more than 10 tags"},
		{"bad status", func(p *Post) { p.Status = "hidden" }, "Invalid post status"},
		{"bad media type", func(p *Post) { p.Media.Type = "gif" }, "Invalid media type"},
		{"negative views", func(p *Post) { p.Views = -5 }, "Views cannot be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPost()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestPostValidateCountsCharactersNotBytes(t *testing.T) {
	p := validPost()
	p.Title = strings.Repeat("标", 200)
	p.Content = strings.Repeat("é", 10)
	require.NoError(t, p.Validate())

	p.Title = strings.Repeat("标", 201)
	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, "Title cannot be more than 200 characters", err.Error())
}

func TestCommentValidateCountsCharactersNotBytes(t *testing.T) {
	c := Comment{Content: strings.Repeat("é", 1000)}
	assert.NoError(t, c.Validate())

	c.Content = strings.Repeat("é", 1001)
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, "Comment cannot exceed 1000 characters", err.Error())
}

func TestCommentValidate(t *testing.T) {
	c := Comment{Content: "Nice post!"}
	assert.NoError(t, c.Validate())

	c.Content = ""
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, "Comment must be at least 1 character", err.Error())

	c.Content = strings.Repeat("x", 1001)
	err = c.Validate()
	require.Error(t, err)
	assert.Equal(t, "Comment cannot exceed 1000 characters", err.Error())
}
