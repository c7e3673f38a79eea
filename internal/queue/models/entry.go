package models

import (
	"database/sql"
	"time"
)

// Priority levels, highest first in call-next ordering.
const (
	PriorityEmergency = "emergency"
	PriorityPriority  = "priority"
	PriorityNormal    = "normal"
)

// Entry lifecycle states.
const (
	StatusWaiting     = "waiting"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusSkipped     = "skipped"
	StatusTransferred = "transferred"
)

// ValidPriority reports whether p is a known priority level.
func ValidPriority(p string) bool {
	return p == PriorityEmergency || p == PriorityPriority || p == PriorityNormal
}

// QueueEntry is one patient's presence in one station's queue. Entries are
// never deleted; terminal states are kept for statistics and audit.
type QueueEntry struct {
	ID            int64         `json:"id"`
	StationID     int           `json:"station_id"`
	PatientID     int           `json:"patient_id"`
	VisitID       int64         `json:"visit_id"`
	AppointmentID sql.NullInt64 `json:"-"`
	ServiceID     int           `json:"service_id"`
	QueueType     string        `json:"queue_type"`
	PriorityLevel string        `json:"priority_level"`
	Status        string        `json:"status"`
	QueueNumber   int           `json:"queue_number"`
	QueueCode     string        `json:"queue_code"`
	TimeIn        time.Time     `json:"time_in"`
	TimeCalled    sql.NullTime  `json:"-"`
	TimeCompleted sql.NullTime  `json:"-"`
	Note          string        `json:"note"`

	AppointmentIDPtr *int64     `json:"appointment_id,omitempty"`
	TimeCalledPtr    *time.Time `json:"time_called,omitempty"`
	TimeCompletedPtr *time.Time `json:"time_completed,omitempty"`
}

// PrepareJSON lifts nullable columns into pointer fields for serialization.
func (e *QueueEntry) PrepareJSON() {
	if e.AppointmentID.Valid {
		e.AppointmentIDPtr = &e.AppointmentID.Int64
	}
	if e.TimeCalled.Valid {
		e.TimeCalledPtr = &e.TimeCalled.Time
	}
	if e.TimeCompleted.Valid {
		e.TimeCompletedPtr = &e.TimeCompleted.Time
	}
}

// Visit is one physical arrival at the facility, spanning potentially many
// queue entries. Immutable after creation.
type Visit struct {
	ID            int64         `json:"id"`
	AppointmentID sql.NullInt64 `json:"-"`
	PatientID     int           `json:"patient_id"`
	VisitCode     string        `json:"visit_code"`
	TimeArrival   time.Time     `json:"time_arrival"`
	Attendance    string        `json:"attendance"` // on_time, late, walk_in
}

// StationStats is the per-station, per-day aggregate snapshot.
type StationStats struct {
	StationID      int     `json:"station_id"`
	Date           string  `json:"date"`
	TotalServed    int     `json:"total_served"`
	AvgWaitMinutes float64 `json:"avg_wait_minutes"`
}

// StationSnapshot groups a station's entries for one day by status.
type StationSnapshot struct {
	Waiting     []QueueEntry `json:"waiting"`
	InProgress  []QueueEntry `json:"in_progress"`
	Completed   []QueueEntry `json:"completed"`
	Skipped     []QueueEntry `json:"skipped"`
	Transferred []QueueEntry `json:"transferred"`
	Stats       StationStats `json:"stats"`
}
