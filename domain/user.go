package domain

import "time"

// User represents a registered account. The password hash and any open
// reset-token state never leave the service through JSON.
type User struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	Email             string     `bson:"email" json:"email"`
	FirstName         string     `bson:"first_name,omitempty" json:"firstName"`
	LastName          string     `bson:"last_name,omitempty" json:"lastName"`
	PasswordHash      string     `bson:"password_hash" json:"-"`
	ResetToken        string     `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpires *time.Time `bson:"reset_token_expires,omitempty" json:"-"`
	CreatedAt         time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updated_at" json:"updatedAt"`
}
