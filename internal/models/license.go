package models

import "time"

// License caps how many students an institution may enroll.
type License struct {
	ID           string    `db:"id" json:"id"`
	LicenseKey   string    `db:"license_key" json:"license_key"`
	StudentLimit int       `db:"student_limit" json:"student_limit"`
	ValidUntil   time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
