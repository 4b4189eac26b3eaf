package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
}

type User struct {
	Id                     primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name                   string               `json:"name" bson:"name"`
	Email                  string               `json:"email" bson:"email"`
	Password               string               `json:"password,omitempty" bson:"password,omitempty"`
	Age                    int                  `json:"age,omitempty" bson:"age,omitempty"`
	Phone                  string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Address                *Address             `json:"address,omitempty" bson:"address,omitempty"`
	Role                   UserRole             `json:"role" bson:"role"`
	Status                 UserStatus           `json:"status" bson:"status"`
	Avatar                 string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CoverPhoto             string               `json:"coverPhoto,omitempty" bson:"coverPhoto,omitempty"`
	Bio                    string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Location               string               `json:"location,omitempty" bson:"location,omitempty"`
	Website                string               `json:"website,omitempty" bson:"website,omitempty"`
	Friends                []primitive.ObjectID `json:"friends" bson:"friends"`
	FriendRequestsSent     []primitive.ObjectID `json:"friendRequestsSent" bson:"friendRequestsSent"`
	FriendRequestsReceived []primitive.ObjectID `json:"friendRequestsReceived" bson:"friendRequestsReceived"`
	Followers              []primitive.ObjectID `json:"followers" bson:"followers"`
	Following              []primitive.ObjectID `json:"following" bson:"following"`
	PostsCount             int                  `json:"postsCount" bson:"postsCount"`
	LastLogin              *time.Time           `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt              time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the projection used when a user reference is populated
type UserSummary struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	Name   string             `json:"name" bson:"name"`
	Email  string             `json:"email,omitempty" bson:"email,omitempty"`
	Avatar string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio    string             `json:"bio,omitempty" bson:"bio,omitempty"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// Validate checks the schema constraints for a user document
func (u *User) Validate() error {
	name := strings.TrimSpace(u.Name)
	if utf8.RuneCountInString(name) < 2 {
		return validationErr("Name must be at least 2 characters")
	}
	if utf8.RuneCountInString(name) > 60 {
		return validationErr("Name cannot be more than 60 characters")
	}
	if !emailPattern.MatchString(u.Email) {
		return validationErr("Please provide a valid email")
	}
	if u.Password != "" && utf8.RuneCountInString(u.Password) < 6 {
		return validationErr("Password must be at least 6 characters")
	}
	if u.Age != 0 && (u.Age < 1 || u.Age > 150) {
		return validationErr("Age must be between 1 and 150")
	}
	if u.Phone != "" && !phonePattern.MatchString(u.Phone) {
		return validationErr("Please provide a valid phone number")
	}
	if !u.Role.Valid() {
		return validationErr("Invalid role")
	}
	if !u.Status.Valid() {
		return validationErr("Invalid status")
	}
	if utf8.RuneCountInString(u.Bio) > 500 {
		return validationErr("Bio cannot exceed 500 characters")
	}
	if utf8.RuneCountInString(u.Location) > 100 {
		return validationErr("Location cannot exceed 100 characters")
	}
	return nil
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended:
		return true
	}
	return false
}
