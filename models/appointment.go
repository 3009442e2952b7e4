package models

import "time"

// AppointmentStatus is the closed set of appointment lifecycle states.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment mirrors the hosted "appointments" table. Client and Service
// are filled when the gateway query embeds the joined sub-records.
type Appointment struct {
	ID              int64             `json:"id,omitempty"`
	ClientID        int64             `json:"client_id"`
	ServiceID       int64             `json:"service_id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	DepositAmount   float64           `json:"deposit_amount"`
	Notes           string            `json:"notes,omitempty"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       *time.Time        `json:"created_at,omitempty"`

	Client  *Client  `json:"clients,omitempty"`
	Service *Service `json:"services,omitempty"`
}
