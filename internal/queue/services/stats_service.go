package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/altamedika/queue-engine/internal/queue/models"
)

// StatsService computes per-station, per-day aggregates from the queue
// store. Pure reads; results are a snapshot, not cached state.
type StatsService struct {
	DB *sql.DB
}

func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{DB: db}
}

// GetStationStats returns the served count and average wait for one station
// and one calendar day.
func (s *StatsService) GetStationStats(stationID int, day time.Time) (*models.StationStats, error) {
	start, end := dayRange(day)

	stats := &models.StationStats{
		StationID: stationID,
		Date:      start.Format("2006-01-02"),
	}

	err := s.DB.QueryRow(`
		SELECT COUNT(*)
		FROM Queue_Entry
		WHERE id_station = ? AND status IN (?, ?) AND time_in >= ? AND time_in < ?
	`, stationID, models.StatusCompleted, models.StatusTransferred, start, end).
		Scan(&stats.TotalServed)
	if err != nil {
		return nil, fmt.Errorf("failed to count served entries: %w", err)
	}

	err = s.DB.QueryRow(`
		SELECT COALESCE(AVG(TIMESTAMPDIFF(MINUTE, time_in, time_called)), 0)
		FROM Queue_Entry
		WHERE id_station = ? AND time_called IS NOT NULL AND time_in >= ? AND time_in < ?
	`, stationID, start, end).Scan(&stats.AvgWaitMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average wait: %w", err)
	}

	return stats, nil
}

// GetStationSnapshot returns the station's entries for the day bucketed by
// status, plus the day's stats.
func (s *StatsService) GetStationSnapshot(stationID int, day time.Time) (*models.StationSnapshot, error) {
	start, end := dayRange(day)

	rows, err := s.DB.Query(`
		SELECT id_entry, id_station, id_patient, id_visit, id_appointment, id_service,
		       queue_type, priority_level, status, queue_number, queue_code,
		       time_in, time_called, time_completed, note
		FROM Queue_Entry
		WHERE id_station = ? AND time_in >= ? AND time_in < ?
		ORDER BY queue_number ASC
	`, stationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read station queue: %w", err)
	}
	defer rows.Close()

	snapshot := &models.StationSnapshot{}
	for rows.Next() {
		var e models.QueueEntry
		if err := rows.Scan(
			&e.ID, &e.StationID, &e.PatientID, &e.VisitID, &e.AppointmentID, &e.ServiceID,
			&e.QueueType, &e.PriorityLevel, &e.Status, &e.QueueNumber, &e.QueueCode,
			&e.TimeIn, &e.TimeCalled, &e.TimeCompleted, &e.Note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		e.PrepareJSON()

		switch e.Status {
		case models.StatusWaiting:
			snapshot.Waiting = append(snapshot.Waiting, e)
		case models.StatusInProgress:
			snapshot.InProgress = append(snapshot.InProgress, e)
		case models.StatusCompleted:
			snapshot.Completed = append(snapshot.Completed, e)
		case models.StatusSkipped:
			snapshot.Skipped = append(snapshot.Skipped, e)
		case models.StatusTransferred:
			snapshot.Transferred = append(snapshot.Transferred, e)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats, err := s.GetStationStats(stationID, day)
	if err != nil {
		return nil, err
	}
	snapshot.Stats = *stats

	return snapshot, nil
}
