package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	apptmodels "github.com/altamedika/queue-engine/internal/appointment/models"
	"github.com/altamedika/queue-engine/internal/queue/models"
	regservices "github.com/altamedika/queue-engine/internal/registry/services"
)

// lateGrace is how long after the scheduled time an arrival still counts as
// on time.
const lateGrace = 15 * time.Minute

// AppointmentGateway is the slice of the external scheduling collaborator
// the coordinator needs. Both calls run on the check-in transaction.
type AppointmentGateway interface {
	GetForUpdate(tx *sql.Tx, id int64) (*apptmodels.Appointment, error)
	SetStatus(tx *sql.Tx, id int64, status string) error
}

// CheckinService converts a confirmed appointment (or walk-in) into a Visit
// plus an initial queue entry at the least-loaded station of the requested
// type. All effects commit or roll back together.
type CheckinService struct {
	DB           *sql.DB
	Appointments AppointmentGateway
}

func NewCheckinService(db *sql.DB, appointments AppointmentGateway) *CheckinService {
	return &CheckinService{DB: db, Appointments: appointments}
}

type CheckInRequest struct {
	AppointmentID     *int64 `json:"appointment_id"`
	PatientID         int    `json:"patient_id"`
	StationType       string `json:"station_type"`
	ServiceID         int    `json:"service_id"`
	QueueType         string `json:"queue_type"`
	Priority          string `json:"priority_level"`
	VerificationToken string `json:"verification_token"`
	Note              string `json:"note"`
}

type CheckInResult struct {
	VisitID      int64  `json:"visit_id"`
	QueueEntryID int64  `json:"queue_entry_id"`
	StationID    int    `json:"station_id"`
	QueueNumber  int    `json:"queue_number"`
	QueueCode    string `json:"queue_code"`
}

func (s *CheckinService) CheckIn(req CheckInRequest, actor Actor) (*CheckInResult, error) {
	if req.StationType == "" {
		return nil, validationf("station_type is required")
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}
	if !models.ValidPriority(req.Priority) {
		return nil, validationf("unknown priority level %q", req.Priority)
	}

	result, err := s.checkInTx(req, actor)
	if isDuplicateNumber(err) {
		// a concurrent check-in took the same number and the unique key
		// rolled everything back; one fresh attempt recomputes it
		result, err = s.checkInTx(req, actor)
		if isDuplicateNumber(err) {
			return nil, ErrConflict
		}
	}
	return result, err
}

func (s *CheckinService) checkInTx(req CheckInRequest, actor Actor) (*CheckInResult, error) {
	now := time.Now()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	patientID := req.PatientID
	serviceID := req.ServiceID
	attendance := "walk_in"
	var appointmentID sql.NullInt64

	if req.AppointmentID != nil {
		appt, err := s.Appointments.GetForUpdate(tx, *req.AppointmentID)
		if err != nil {
			tx.Rollback()
			if err == sql.ErrNoRows {
				return nil, validationf("appointment %d not found", *req.AppointmentID)
			}
			return nil, err
		}
		if appt.Status != apptmodels.StatusConfirmed {
			tx.Rollback()
			return nil, validationf("appointment %d is %s, not confirmed", appt.ID, appt.Status)
		}
		if appt.VerificationToken.Valid && appt.VerificationToken.String != req.VerificationToken {
			tx.Rollback()
			return nil, validationf("appointment verification token mismatch")
		}

		patientID = appt.PatientID
		if serviceID == 0 {
			serviceID = appt.ServiceID
		}
		if now.Before(appt.ScheduledAt.Add(lateGrace)) {
			attendance = "on_time"
		} else {
			attendance = "late"
		}
		appointmentID = sql.NullInt64{Int64: appt.ID, Valid: true}

		if err := s.Appointments.SetStatus(tx, appt.ID, apptmodels.StatusCheckedIn); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if patientID == 0 {
		tx.Rollback()
		return nil, validationf("patient_id is required for walk-in check-in")
	}

	res, err := tx.Exec(`
		INSERT INTO Visit (id_appointment, id_patient, visit_code, time_arrival, attendance)
		VALUES (?, ?, ?, ?, ?)
	`, appointmentID, patientID, uuid.NewString(), now, attendance)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert visit: %w", err)
	}
	visitID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	stationID, err := leastLoadedStation(tx, req.StationType, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	station, err := regservices.GetStationTx(tx, stationID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read station %d: %w", stationID, err)
	}
	if !station.AllowsRole(actor.Role) {
		tx.Rollback()
		return nil, ErrForbidden
	}

	number, err := nextQueueNumber(tx, stationID, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	code := BuildQueueCode(stationID, req.Priority, number)

	queueType := req.QueueType
	if queueType == "" {
		queueType = req.StationType
	}

	res, err = tx.Exec(`
		INSERT INTO Queue_Entry
			(id_station, id_patient, id_visit, id_appointment, id_service,
			 queue_type, priority_level, status, queue_number, queue_code, time_in, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, stationID, patientID, visitID, appointmentID, serviceID,
		queueType, req.Priority, models.StatusWaiting, number, code, now,
		auditNote("check_in", actor, req.Note))
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert queue entry: %w", err)
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return &CheckInResult{
		VisitID:      visitID,
		QueueEntryID: entryID,
		StationID:    stationID,
		QueueNumber:  number,
		QueueCode:    code,
	}, nil
}
