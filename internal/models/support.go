package models

import "time"

// SupportMessage is a user-to-admin message.
type SupportMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SupportMessageDetail joins the sender's identity for the admin inbox.
type SupportMessageDetail struct {
	SupportMessage
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}
