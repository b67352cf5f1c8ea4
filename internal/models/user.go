package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleAdmin = "admin"

type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Phone string             `bson:"phone,omitempty" json:"phone,omitempty"` // Optional, can be empty
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`   // "admin" or unset
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserProfile holds the fields a caller may write through the upsert route.
// Role is deliberately absent: it only changes through promotion.
type UserProfile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
