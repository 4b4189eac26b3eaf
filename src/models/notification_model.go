package models

import (
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationFriendAccept  NotificationType = "friend_accept"
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationReaction      NotificationType = "reaction"
	NotificationMention       NotificationType = "mention"
	NotificationShare         NotificationType = "share"
)

type Notification struct {
	Id             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Recipient      primitive.ObjectID  `json:"recipient" bson:"recipient"`
	Sender         primitive.ObjectID  `json:"sender" bson:"sender"`
	Type           NotificationType    `json:"type" bson:"type"`
	RelatedPost    *primitive.ObjectID `json:"relatedPost,omitempty" bson:"relatedPost,omitempty"`
	RelatedComment *primitive.ObjectID `json:"relatedComment,omitempty" bson:"relatedComment,omitempty"`
	Message        string              `json:"message" bson:"message"`
	Read           bool                `json:"read" bson:"read"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFriendRequest, NotificationFriendAccept, NotificationLike,
		NotificationComment, NotificationReaction, NotificationMention, NotificationShare:
		return true
	}
	return false
}

// Validate checks the schema constraints for a notification document
func (n *Notification) Validate() error {
	if n.Recipient.IsZero() || n.Sender.IsZero() {
		return validationErr("Recipient and sender are required")
	}
	if !n.Type.Valid() {
		return validationErr("Invalid notification type")
	}
	if n.Message == "" {
		return validationErr("Please provide a message")
	}
	if utf8.RuneCountInString(n.Message) > 500 {
		return validationErr("Message cannot exceed 500 characters")
	}
	return nil
}
