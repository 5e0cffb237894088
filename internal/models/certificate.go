package models

import "time"

// Certificate is an append-only record of achievement. TotalHours is a
// snapshot taken at issue time and is never recomputed; VerificationCode is
// immutable and publicly resolvable.
type Certificate struct {
	ID               string    `db:"id" json:"id"`
	StudentID        string    `db:"student_id" json:"student_id"`
	VerificationCode string    `db:"verification_code" json:"verification_code"`
	TotalHours       float64   `db:"total_hours" json:"total_hours"`
	IssueDate        time.Time `db:"issue_date" json:"issue_date"`
	PDFPath          *string   `db:"pdf_path" json:"pdf_path,omitempty"`
	IsExternal       bool      `db:"is_external" json:"is_external"`
	ExternalIssuer   *string   `db:"external_issuer" json:"external_issuer,omitempty"`
}

// CertificateVerification is the public view returned by the verify endpoint.
type CertificateVerification struct {
	VerificationCode string    `json:"verification_code"`
	StudentName      string    `json:"student_name"`
	TotalHours       float64   `json:"total_hours"`
	IssueDate        time.Time `json:"issue_date"`
	IsExternal       bool      `json:"is_external"`
	ExternalIssuer   *string   `json:"external_issuer,omitempty"`
}
