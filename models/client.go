package models

import (
	"strings"
	"time"
)

// Client mirrors the hosted "clients" table. CreatedAt is a pointer so a
// fresh record marshals without the column and the table default applies.
type Client struct {
	ID          int64      `json:"id,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
