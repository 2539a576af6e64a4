// Package models defines the persisted invoicing entities and the patch types
// used to change them.
package models

import "time"

// DateLayout is the calendar date format used for invoice and payment dates.
const DateLayout = "2006-01-02"

// Meta is the identity block shared by every entity. It is assigned by the
// record store on creation and never changed afterwards.
type Meta struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Metadata returns the identity block. Entities embed Meta and inherit it.
func (m Meta) Metadata() Meta {
	return m
}

// Owned reports whether the record belongs to userID.
func (m Meta) Owned(userID string) bool {
	return m.UserID == userID
}
