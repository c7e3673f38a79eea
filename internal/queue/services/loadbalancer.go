package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/altamedika/queue-engine/internal/queue/models"
)

// StationLoad is one candidate station with its active entry count for the
// current day.
type StationLoad struct {
	StationID   int
	ActiveCount int
}

// pickStation selects the least-loaded candidate; ties break to the lowest
// station id so the choice is deterministic and stable.
func pickStation(loads []StationLoad) (int, error) {
	if len(loads) == 0 {
		return 0, fmt.Errorf("no candidate station")
	}
	best := loads[0]
	for _, l := range loads[1:] {
		if l.ActiveCount < best.ActiveCount ||
			(l.ActiveCount == best.ActiveCount && l.StationID < best.StationID) {
			best = l
		}
	}
	return best.StationID, nil
}

// leastLoadedStation picks, among active stations of the requested type, the
// one with the fewest waiting + in-progress entries today. It reads on the
// caller's transaction so the pick and the subsequent insert share one
// atomic boundary.
func leastLoadedStation(tx *sql.Tx, stationType string, now time.Time) (int, error) {
	start, end := dayRange(now)
	rows, err := tx.Query(`
		SELECT s.id_station, COUNT(e.id_entry) AS active_count
		FROM Station s
		LEFT JOIN Queue_Entry e
			ON e.id_station = s.id_station
			AND e.status IN (?, ?)
			AND e.time_in >= ? AND e.time_in < ?
		WHERE s.station_type = ? AND s.active = 1
		GROUP BY s.id_station
	`, models.StatusWaiting, models.StatusInProgress, start, end, stationType)
	if err != nil {
		return 0, fmt.Errorf("failed to read station loads: %w", err)
	}
	defer rows.Close()

	var loads []StationLoad
	for rows.Next() {
		var l StationLoad
		if err := rows.Scan(&l.StationID, &l.ActiveCount); err != nil {
			return 0, fmt.Errorf("failed to scan station load: %w", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(loads) == 0 {
		return 0, validationf("no active station of type %q", stationType)
	}
	return pickStation(loads)
}
