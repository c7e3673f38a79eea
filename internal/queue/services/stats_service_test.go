package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/altamedika/queue-engine/internal/queue/models"
)

func TestGetStationStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(14))
	mock.ExpectQuery("TIMESTAMPDIFF").
		WillReturnRows(sqlmock.NewRows([]string{"avg_wait"}).AddRow(12.5))

	svc := NewStatsService(db)
	stats, err := svc.GetStationStats(3, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalServed != 14 {
		t.Errorf("total served = %d, want 14", stats.TotalServed)
	}
	if stats.AvgWaitMinutes != 12.5 {
		t.Errorf("avg wait = %v, want 12.5", stats.AvgWaitMinutes)
	}
	if stats.Date != "2025-06-03" {
		t.Errorf("date = %q, want 2025-06-03", stats.Date)
	}
}

func snapshotEntryRows() *sqlmock.Rows {
	now := time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id_entry", "id_station", "id_patient", "id_visit", "id_appointment", "id_service",
		"queue_type", "priority_level", "status", "queue_number", "queue_code",
		"time_in", "time_called", "time_completed", "note",
	})
	rows.AddRow(1, 3, 70, 1, nil, 1, "triage", "normal", models.StatusCompleted, 1, "T3-N1",
		now, now.Add(5*time.Minute), now.Add(20*time.Minute), "")
	rows.AddRow(2, 3, 71, 2, nil, 1, "triage", "emergency", models.StatusInProgress, 2, "T3-E2",
		now.Add(time.Minute), now.Add(3*time.Minute), nil, "")
	rows.AddRow(3, 3, 72, 3, nil, 1, "triage", "normal", models.StatusWaiting, 3, "T3-N3",
		now.Add(2*time.Minute), nil, nil, "")
	rows.AddRow(4, 3, 73, 4, nil, 1, "triage", "normal", models.StatusSkipped, 4, "T3-N4",
		now.Add(3*time.Minute), nil, nil, "")
	return rows
}

func expectSnapshot(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("ORDER BY queue_number").
		WillReturnRows(snapshotEntryRows())
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))
	mock.ExpectQuery("TIMESTAMPDIFF").
		WillReturnRows(sqlmock.NewRows([]string{"avg_wait"}).AddRow(4))
}

func TestGetStationSnapshot_BucketsByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	expectSnapshot(mock)

	svc := NewStatsService(db)
	snapshot, err := svc.GetStationSnapshot(3, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot.Waiting) != 1 || snapshot.Waiting[0].ID != 3 {
		t.Errorf("waiting bucket = %+v, want entry 3", snapshot.Waiting)
	}
	if len(snapshot.InProgress) != 1 || snapshot.InProgress[0].ID != 2 {
		t.Errorf("in_progress bucket = %+v, want entry 2", snapshot.InProgress)
	}
	if len(snapshot.Completed) != 1 || snapshot.Completed[0].ID != 1 {
		t.Errorf("completed bucket = %+v, want entry 1", snapshot.Completed)
	}
	if len(snapshot.Skipped) != 1 || snapshot.Skipped[0].ID != 4 {
		t.Errorf("skipped bucket = %+v, want entry 4", snapshot.Skipped)
	}
	if len(snapshot.Transferred) != 0 {
		t.Errorf("transferred bucket should be empty, got %+v", snapshot.Transferred)
	}
	if snapshot.Stats.TotalServed != 1 {
		t.Errorf("stats served = %d, want 1", snapshot.Stats.TotalServed)
	}

	// nullable stamps lifted for serialization
	if snapshot.Completed[0].TimeCompletedPtr == nil {
		t.Error("completed entry should expose time_completed")
	}
	if snapshot.Waiting[0].TimeCalledPtr != nil {
		t.Error("waiting entry must not expose time_called")
	}
}

func TestGetStationSnapshot_IdempotentWithoutMutation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	expectSnapshot(mock)
	expectSnapshot(mock)

	svc := NewStatsService(db)
	day := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

	first, err := svc.GetStationSnapshot(3, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetStationSnapshot(3, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Waiting) != len(second.Waiting) ||
		len(first.Completed) != len(second.Completed) ||
		first.Stats != second.Stats {
		t.Error("two snapshots with no intervening mutation must be identical")
	}
}
