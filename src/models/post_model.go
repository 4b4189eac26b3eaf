package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeNone  MediaType = "none"
)

type Media struct {
	Type      MediaType `json:"type" bson:"type"`
	URL       string    `json:"url,omitempty" bson:"url,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

type Post struct {
	Id            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Author        primitive.ObjectID `json:"author" bson:"author"`
	Tags          []string           `json:"tags" bson:"tags"`
	Category      string             `json:"category" bson:"category"`
	Status        PostStatus         `json:"status" bson:"status"`
	Views         int64              `json:"views" bson:"views"`
	Reactions     Reactions          `json:"reactions" bson:"reactions"`
	Media         Media              `json:"media" bson:"media"`
	FeaturedImage string             `json:"featuredImage,omitempty" bson:"featuredImage,omitempty"`
	CommentsCount int                `json:"commentsCount" bson:"commentsCount"`
	SharesCount   int                `json:"sharesCount" bson:"sharesCount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the schema constraints for a post document
func (p *Post) Validate() error {
	title := strings.TrimSpace(p.Title)
	if utf8.RuneCountInString(title) < 3 {
		return validationErr("Title must be at least 3 characters")
	}
	if utf8.RuneCountInString(title) > 200 {
		return validationErr("Title cannot be more than 200 characters")
	}
	if utf8.RuneCountInString(p.Content) < 10 {
		return validationErr("Content must be at least 10 characters")
	}
	if p.Category == "" {
		return validationErr("Please provide a category")
	}
	if len(p.Tags) > 10 {
		return validationErr("Cannot have more than 10 tags")
	}
	if !p.Status.Valid() {
		return validationErr("Invalid post status")
	}
	if !p.Media.Type.Valid() {
		return validationErr("Invalid media type")
	}
	if p.Views < 0 {
		return validationErr("Views cannot be negative")
	}
	return nil
}

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeImage, MediaTypeVideo, MediaTypeNone:
		return true
	}
	return false
}
