package model

import "time"

// User holds identity and contact details. The password hash is opaque to
// the core: hashing and token issuance happen at the transport edge.
type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Phone        string    `json:"phone" bson:"phone" validate:"required,min=5,max=20"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	IsVerified   bool      `json:"is_verified" bson:"is_verified"`
	CreatedAt    time.Time `json:"created_at,omitempty" bson:"created_at"`
}

type UserUpdate struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	IsActive   *bool  `json:"is_active,omitempty"`
	IsVerified *bool  `json:"is_verified,omitempty"`
}

type UserFilter struct {
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
