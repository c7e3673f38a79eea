package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/altamedika/queue-engine/internal/queue/models"
	regservices "github.com/altamedika/queue-engine/internal/registry/services"
)

// TransferService re-routes a patient from one station's queue into
// another's: the source entry reaches `transferred` and a fresh waiting
// entry is created at the destination, both in one transaction. A transfer
// never leaves the patient in two queues or in none.
type TransferService struct {
	DB *sql.DB
}

func NewTransferService(db *sql.DB) *TransferService {
	return &TransferService{DB: db}
}

type TransferResult struct {
	SourceEntryID   int64  `json:"source_entry_id"`
	SourceStationID int    `json:"source_station_id"`
	NewQueueEntryID int64  `json:"new_queue_entry_id"`
	NewStationID    int    `json:"new_station_id"`
	NewQueueNumber  int    `json:"new_queue_number"`
	NewQueueCode    string `json:"new_queue_code"`
}

func (s *TransferService) Transfer(entryID int64, destType string, destServiceID *int, actor Actor, note string) (*TransferResult, error) {
	if destType == "" {
		return nil, validationf("destination_station_type is required")
	}

	result, err := s.transferTx(entryID, destType, destServiceID, actor, note)
	if isDuplicateNumber(err) {
		// a concurrent insert took the destination number and the unique
		// key rolled everything back; one fresh attempt recomputes it
		result, err = s.transferTx(entryID, destType, destServiceID, actor, note)
		if isDuplicateNumber(err) {
			return nil, ErrConflict
		}
	}
	return result, err
}

func (s *TransferService) transferTx(entryID int64, destType string, destServiceID *int, actor Actor, note string) (*TransferResult, error) {
	now := time.Now()

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var (
		srcStationID  int
		patientID     int
		visitID       int64
		appointmentID sql.NullInt64
		serviceID     int
		priority      string
		status        string
	)
	err = tx.QueryRow(`
		SELECT id_station, id_patient, id_visit, id_appointment, id_service, priority_level, status
		FROM Queue_Entry
		WHERE id_entry = ?
	`, entryID).Scan(&srcStationID, &patientID, &visitID, &appointmentID, &serviceID, &priority, &status)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read source entry: %w", err)
	}

	srcStation, err := regservices.GetStationTx(tx, srcStationID)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, validationf("station %d not found", srcStationID)
		}
		return nil, err
	}
	if !srcStation.AllowsRole(actor.Role) {
		tx.Rollback()
		return nil, ErrForbidden
	}
	if !srcStation.CanRouteTo(destType) {
		tx.Rollback()
		return nil, validationf("station %q cannot route to %q", srcStation.Name, destType)
	}
	if !ValidTransition("transfer", status) {
		tx.Rollback()
		return nil, validationf("cannot transfer entry %d in status %s", entryID, status)
	}

	res, err := tx.Exec(`
		UPDATE Queue_Entry
		SET status = ?, time_completed = ?, note = TRIM(CONCAT_WS('\n', NULLIF(note, ''), ?))
		WHERE id_entry = ? AND status = ?
	`, models.StatusTransferred, now, auditNote("transfer", actor, note),
		entryID, models.StatusInProgress)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to close source entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if affected == 0 {
		tx.Rollback()
		return nil, ErrConflict
	}

	destStationID, err := leastLoadedStation(tx, destType, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// a visit may hold at most one non-terminal entry per station
	var active int
	err = tx.QueryRow(`
		SELECT COUNT(*)
		FROM Queue_Entry
		WHERE id_visit = ? AND id_station = ? AND status IN (?, ?)
	`, visitID, destStationID, models.StatusWaiting, models.StatusInProgress).Scan(&active)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check destination queue: %w", err)
	}
	if active > 0 {
		tx.Rollback()
		return nil, validationf("visit %d already has an active entry at station %d", visitID, destStationID)
	}

	number, err := nextQueueNumber(tx, destStationID, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	code := BuildQueueCode(destStationID, priority, number)

	newServiceID := serviceID
	if destServiceID != nil {
		newServiceID = *destServiceID
	}

	res, err = tx.Exec(`
		INSERT INTO Queue_Entry
			(id_station, id_patient, id_visit, id_appointment, id_service,
			 queue_type, priority_level, status, queue_number, queue_code, time_in, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, destStationID, patientID, visitID, appointmentID, newServiceID,
		destType, priority, models.StatusWaiting, number, code, now,
		auditNote("transfer_in", actor, note))
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert destination entry: %w", err)
	}
	newEntryID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}

	return &TransferResult{
		SourceEntryID:   entryID,
		SourceStationID: srcStationID,
		NewQueueEntryID: newEntryID,
		NewStationID:    destStationID,
		NewQueueNumber:  number,
		NewQueueCode:    code,
	}, nil
}
