package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommunityPrivacy string

const (
	PrivacyPublic  CommunityPrivacy = "public"
	PrivacyPrivate CommunityPrivacy = "private"
)

// CommunityCategories is the closed category set from the schema
var CommunityCategories = []string{
	"technology", "sports", "gaming", "music", "art",
	"education", "business", "lifestyle", "other",
}

type Community struct {
	Id          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	CoverImage  string               `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Category    string               `json:"category" bson:"category"`
	Privacy     CommunityPrivacy     `json:"privacy" bson:"privacy"`
	Admin       primitive.ObjectID   `json:"admin" bson:"admin"`
	Moderators  []primitive.ObjectID `json:"moderators" bson:"moderators"`
	Members     []primitive.ObjectID `json:"members" bson:"members"`
	Posts       []primitive.ObjectID `json:"posts" bson:"posts"`
	Rules       []string             `json:"rules" bson:"rules"`
	MemberCount int                  `json:"memberCount" bson:"memberCount"`
	PostCount   int                  `json:"postCount" bson:"postCount"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the schema constraints for a community document
func (cm *Community) Validate() error {
	name := strings.TrimSpace(cm.Name)
	if utf8.RuneCountInString(name) < 3 {
		return validationErr("Name must be at least 3 characters")
	}
	if utf8.RuneCountInString(name) > 100 {
		return validationErr("Name cannot be more than 100 characters")
	}
	if cm.Description == "" {
		return validationErr("Please provide a description")
	}
	if utf8.RuneCountInString(cm.Description) > 500 {
		return validationErr("Description cannot be more than 500 characters")
	}
	if !ValidCommunityCategory(cm.Category) {
		return validationErr("Invalid community category")
	}
	if !cm.Privacy.Valid() {
		return validationErr("Invalid privacy setting")
	}
	for _, rule := range cm.Rules {
		if utf8.RuneCountInString(rule) > 200 {
			return validationErr("Rule cannot be more than 200 characters")
		}
	}
	return nil
}

func (p CommunityPrivacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

func ValidCommunityCategory(category string) bool {
	for _, c := range CommunityCategories {
		if c == category {
			return true
		}
	}
	return false
}
