package models

import (
	"database/sql"
	"time"
)

// Appointment statuses as written by the external scheduling collaborator.
// The engine only reads appointments at check-in and writes the checked_in
// transition.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type Appointment struct {
	ID                int64          `json:"id"`
	PatientID         int            `json:"patient_id"`
	ServiceID         int            `json:"service_id"`
	ScheduledAt       time.Time      `json:"scheduled_at"`
	Status            string         `json:"status"`
	VerificationToken sql.NullString `json:"-"`
}
