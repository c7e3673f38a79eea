package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/altamedika/queue-engine/internal/queue/models"
	regmodels "github.com/altamedika/queue-engine/internal/registry/models"
)

// StationDirectory is the slice of the station registry the state machine
// needs for routing and capability checks.
type StationDirectory interface {
	GetStation(id int) (*regmodels.Station, error)
}

// QueueService is the per-entry transition engine. Each mutation is a single
// conditional UPDATE (compare-and-set on status) so two operators can never
// both win the same entry.
type QueueService struct {
	DB       *sql.DB
	Stations StationDirectory
}

func NewQueueService(db *sql.DB, stations StationDirectory) *QueueService {
	return &QueueService{DB: db, Stations: stations}
}

// CalledEntry is the result handed to the operator after call-next.
type CalledEntry struct {
	QueueEntryID int64  `json:"queue_entry_id"`
	PatientID    int    `json:"patient_id"`
	QueueCode    string `json:"queue_code"`
	StationID    int    `json:"station_id"`
}

// TransitionResult identifies the mutated entry for the response and the
// notification broadcast.
type TransitionResult struct {
	QueueEntryID int64  `json:"queue_entry_id"`
	StationID    int    `json:"station_id"`
	QueueCode    string `json:"queue_code"`
	Status       string `json:"status"`
}

func (s *QueueService) stationForRole(stationID int, actor Actor) (*regmodels.Station, error) {
	st, err := s.Stations.GetStation(stationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, validationf("station %d not found", stationID)
		}
		return nil, err
	}
	if !st.AllowsRole(actor.Role) {
		return nil, ErrForbidden
	}
	return st, nil
}

// CallNext hands the operator the oldest waiting entry at the station,
// ordered emergency > priority > normal, then arrival time. The claim is a
// conditional update; a lost race re-runs selection once, then surfaces
// ErrConflict.
func (s *QueueService) CallNext(stationID int, actor Actor, note string) (*CalledEntry, error) {
	if _, err := s.stationForRole(stationID, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	start, end := dayRange(now)

	for attempt := 0; attempt < 2; attempt++ {
		var (
			entryID   int64
			patientID int
			queueCode string
		)
		err := s.DB.QueryRow(`
			SELECT id_entry, id_patient, queue_code
			FROM Queue_Entry
			WHERE id_station = ? AND status = ? AND time_in >= ? AND time_in < ?
			ORDER BY FIELD(priority_level, 'emergency', 'priority', 'normal'), time_in ASC, id_entry ASC
			LIMIT 1
		`, stationID, models.StatusWaiting, start, end).Scan(&entryID, &patientID, &queueCode)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrEmptyQueue
			}
			return nil, fmt.Errorf("failed to select next entry: %w", err)
		}

		res, err := s.DB.Exec(`
			UPDATE Queue_Entry
			SET status = ?, time_called = ?, note = TRIM(CONCAT_WS('\n', NULLIF(note, ''), ?))
			WHERE id_entry = ? AND status = ?
		`, models.StatusInProgress, now, auditNote("call_next", actor, note),
			entryID, models.StatusWaiting)
		if err != nil {
			return nil, fmt.Errorf("failed to claim entry: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 1 {
			return &CalledEntry{
				QueueEntryID: entryID,
				PatientID:    patientID,
				QueueCode:    queueCode,
				StationID:    stationID,
			}, nil
		}
		// another operator claimed it between select and update; retry once
	}
	return nil, ErrConflict
}

// Complete marks an in-progress entry served.
func (s *QueueService) Complete(entryID int64, actor Actor, note string) (*TransitionResult, error) {
	return s.finish(entryID, "complete", models.StatusCompleted, actor, note)
}

// Skip sets an in-progress entry aside; it can be recalled later.
func (s *QueueService) Skip(entryID int64, actor Actor, note string) (*TransitionResult, error) {
	return s.finish(entryID, "skip", models.StatusSkipped, actor, note)
}

func (s *QueueService) finish(entryID int64, action, toStatus string, actor Actor, note string) (*TransitionResult, error) {
	stationID, queueCode, status, err := s.entryHead(entryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.stationForRole(stationID, actor); err != nil {
		return nil, err
	}
	if !ValidTransition(action, status) {
		return nil, validationf("cannot %s entry %d in status %s", action, entryID, status)
	}

	res, err := s.DB.Exec(`
		UPDATE Queue_Entry
		SET status = ?, time_completed = ?, note = TRIM(CONCAT_WS('\n', NULLIF(note, ''), ?))
		WHERE id_entry = ? AND status = ?
	`, toStatus, time.Now(), auditNote(action, actor, note),
		entryID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to %s entry: %w", action, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConflict
	}
	return &TransitionResult{
		QueueEntryID: entryID,
		StationID:    stationID,
		QueueCode:    queueCode,
		Status:       toStatus,
	}, nil
}

// Recall puts a skipped entry back into the waiting pool. The original
// time_in is kept so the patient retains queue seniority; the prior call
// and completion stamps are cleared.
func (s *QueueService) Recall(entryID int64, actor Actor, note string) (*TransitionResult, error) {
	stationID, queueCode, status, err := s.entryHead(entryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.stationForRole(stationID, actor); err != nil {
		return nil, err
	}
	if !ValidTransition("recall", status) {
		return nil, validationf("cannot recall entry %d in status %s", entryID, status)
	}
	return s.recallEntry(entryID, stationID, queueCode, actor, note)
}

// RecallOldestSkipped recalls the station's oldest skipped entry of the day.
func (s *QueueService) RecallOldestSkipped(stationID int, actor Actor, note string) (*TransitionResult, error) {
	if _, err := s.stationForRole(stationID, actor); err != nil {
		return nil, err
	}

	start, end := dayRange(time.Now())
	for attempt := 0; attempt < 2; attempt++ {
		var (
			entryID   int64
			queueCode string
		)
		err := s.DB.QueryRow(`
			SELECT id_entry, queue_code
			FROM Queue_Entry
			WHERE id_station = ? AND status = ? AND time_in >= ? AND time_in < ?
			ORDER BY time_in ASC, id_entry ASC
			LIMIT 1
		`, stationID, models.StatusSkipped, start, end).Scan(&entryID, &queueCode)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrEmptyQueue
			}
			return nil, fmt.Errorf("failed to select skipped entry: %w", err)
		}

		result, err := s.recallEntry(entryID, stationID, queueCode, actor, note)
		if err == ErrConflict {
			continue
		}
		return result, err
	}
	return nil, ErrConflict
}

func (s *QueueService) recallEntry(entryID int64, stationID int, queueCode string, actor Actor, note string) (*TransitionResult, error) {
	res, err := s.DB.Exec(`
		UPDATE Queue_Entry
		SET status = ?, time_called = NULL, time_completed = NULL,
		    note = TRIM(CONCAT_WS('\n', NULLIF(note, ''), ?))
		WHERE id_entry = ? AND status = ?
	`, models.StatusWaiting, auditNote("recall", actor, note),
		entryID, models.StatusSkipped)
	if err != nil {
		return nil, fmt.Errorf("failed to recall entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConflict
	}
	return &TransitionResult{
		QueueEntryID: entryID,
		StationID:    stationID,
		QueueCode:    queueCode,
		Status:       models.StatusWaiting,
	}, nil
}

// entryHead reads the fields every transition needs up front.
func (s *QueueService) entryHead(entryID int64) (stationID int, queueCode, status string, err error) {
	err = s.DB.QueryRow(`
		SELECT id_station, queue_code, status
		FROM Queue_Entry
		WHERE id_entry = ?
	`, entryID).Scan(&stationID, &queueCode, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", "", ErrNotFound
		}
		return 0, "", "", fmt.Errorf("failed to read entry %d: %w", entryID, err)
	}
	return stationID, queueCode, status, nil
}
