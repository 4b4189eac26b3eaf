package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	Id            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Content       string              `json:"content" bson:"content"`
	Author        primitive.ObjectID  `json:"author" bson:"author"`
	Post          primitive.ObjectID  `json:"post" bson:"post"`
	ParentComment *primitive.ObjectID `json:"parentComment" bson:"parentComment"`
	Reactions     Reactions           `json:"reactions" bson:"reactions"`
	IsEdited      bool                `json:"isEdited" bson:"isEdited"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the schema constraints for a comment document
func (cm *Comment) Validate() error {
	content := strings.TrimSpace(cm.Content)
	if utf8.RuneCountInString(content) < 1 {
		return validationErr("Comment must be at least 1 character")
	}
	if utf8.RuneCountInString(content) > 1000 {
		return validationErr("Comment cannot exceed 1000 characters")
	}
	return nil
}
