package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email           string             `json:"email" bson:"email" validate:"required,email"`
	Phone           string             `json:"phone" bson:"phone" validate:"required,phone"`
	Password        string             `json:"-" bson:"password"`
	Role            UserRole           `json:"role" bson:"role" default:"user"`
	Status          UserStatus         `json:"status" bson:"status" default:"active"`
	IsEmailVerified bool               `json:"is_email_verified" bson:"is_email_verified" default:"false"`
	LastLoginAt     *time.Time         `json:"last_login_at" bson:"last_login_at"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
