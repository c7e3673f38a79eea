package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCallNextHandler_RequiresStationID(t *testing.T) {
	qc := NewQueueController(nil, nil, nil)

	c, rec := newContext(http.MethodPost, "/api/queue/call-next", "")
	if err := qc.CallNextHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	c, rec = newContext(http.MethodPost, "/api/queue/call-next?station_id=abc", "")
	if err := qc.CallNextHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric station_id: status = %d, want 400", rec.Code)
	}
}

func TestRecallHandler_RequiresTarget(t *testing.T) {
	qc := NewQueueController(nil, nil, nil)

	c, rec := newContext(http.MethodPut, "/api/queue/recall", "")
	if err := qc.RecallHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTransferHandler_RequiresEntryID(t *testing.T) {
	qc := NewQueueController(nil, nil, nil)

	c, rec := newContext(http.MethodPost, "/api/queue/transfer", `{"destination_station_type":"lab"}`)
	if err := qc.TransferHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSnapshotHandler_RejectsBadDate(t *testing.T) {
	qc := NewQueueController(nil, nil, nil)

	c, rec := newContext(http.MethodGet, "/api/queue/snapshot?station_id=1&date=03-06-2025", "")
	if err := qc.SnapshotHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
