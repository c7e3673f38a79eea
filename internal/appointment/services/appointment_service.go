package services

import (
	"database/sql"
	"fmt"

	"github.com/altamedika/queue-engine/internal/appointment/models"
)

// AppointmentService is the adapter over the Appointment table owned by the
// external scheduling collaborator. Reads and the checked_in write run on
// the caller's transaction so check-in stays one atomic unit.
type AppointmentService struct{}

func NewAppointmentService() *AppointmentService {
	return &AppointmentService{}
}

// GetForUpdate reads one appointment, locking the row for the duration of
// the transaction.
func (s *AppointmentService) GetForUpdate(tx *sql.Tx, id int64) (*models.Appointment, error) {
	var a models.Appointment
	err := tx.QueryRow(`
		SELECT id_appointment, id_patient, id_service, scheduled_at, status, verification_token
		FROM Appointment
		WHERE id_appointment = ?
		FOR UPDATE
	`, id).Scan(&a.ID, &a.PatientID, &a.ServiceID, &a.ScheduledAt, &a.Status, &a.VerificationToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read appointment: %w", err)
	}
	return &a, nil
}

// SetStatus writes a status transition on the appointment row.
func (s *AppointmentService) SetStatus(tx *sql.Tx, id int64, status string) error {
	res, err := tx.Exec(`UPDATE Appointment SET status = ? WHERE id_appointment = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("appointment %d not found", id)
	}
	return nil
}
