package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/altamedika/queue-engine/internal/queue/models"
)

// dayLocation anchors the queue-day boundary. Defaults to the server clock;
// main replaces it with the configured clinic timezone at startup.
var dayLocation = time.Local

// SetDayLocation sets the timezone that decides when a queue day rolls over.
func SetDayLocation(loc *time.Location) {
	if loc != nil {
		dayLocation = loc
	}
}

// dayRange returns the [start, end) bounds of the clinic calendar day
// containing t. Queue numbers and load counts are scoped to this window.
func dayRange(t time.Time) (time.Time, time.Time) {
	t = t.In(dayLocation)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, dayLocation)
	return start, start.Add(24 * time.Hour)
}

// nextQueueNumber computes the next day-scoped sequential number for a
// station. It must run on the same transaction as the entry insert; the
// (station, day, number) unique key catches the residual race and rolls the
// whole operation back.
func nextQueueNumber(tx *sql.Tx, stationID int, now time.Time) (int, error) {
	start, end := dayRange(now)
	var maxNumber sql.NullInt64
	err := tx.QueryRow(`
		SELECT COALESCE(MAX(queue_number), 0)
		FROM Queue_Entry
		WHERE id_station = ? AND time_in >= ? AND time_in < ?
	`, stationID, start, end).Scan(&maxNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next queue number: %w", err)
	}
	next := 1
	if maxNumber.Valid {
		next = int(maxNumber.Int64) + 1
	}
	return next, nil
}

// isDuplicateNumber reports whether err is the duplicate-key violation of
// the (station, day, number) unique index, i.e. a lost numbering race.
func isDuplicateNumber(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// priorityPrefix maps a priority level to its single-letter code marker.
func priorityPrefix(priority string) string {
	switch priority {
	case models.PriorityEmergency:
		return "E"
	case models.PriorityPriority:
		return "P"
	default:
		return "N"
	}
}

// BuildQueueCode renders the human-readable code shown on displays and
// tickets, e.g. "T3-P12" for the 12th entry of station 3 at priority level.
func BuildQueueCode(stationID int, priority string, number int) string {
	return fmt.Sprintf("T%d-%s%d", stationID, priorityPrefix(priority), number)
}
