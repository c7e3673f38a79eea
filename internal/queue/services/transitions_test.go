package services

import (
	"testing"

	"github.com/altamedika/queue-engine/internal/queue/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		want   bool
	}{
		{"call_next", models.StatusWaiting, true},
		{"call_next", models.StatusInProgress, false},
		{"call_next", models.StatusSkipped, false},
		{"complete", models.StatusInProgress, true},
		{"complete", models.StatusWaiting, false},
		{"complete", models.StatusCompleted, false},
		{"skip", models.StatusInProgress, true},
		{"skip", models.StatusSkipped, false},
		{"recall", models.StatusSkipped, true},
		{"recall", models.StatusWaiting, false},
		{"recall", models.StatusCompleted, false},
		{"recall", models.StatusTransferred, false},
		{"transfer", models.StatusInProgress, true},
		{"transfer", models.StatusWaiting, false},
		{"transfer", models.StatusTransferred, false},
		{"unknown_action", models.StatusWaiting, false},
	}

	for _, tc := range cases {
		if got := ValidTransition(tc.action, tc.from); got != tc.want {
			t.Errorf("ValidTransition(%q, %q) = %v, want %v", tc.action, tc.from, got, tc.want)
		}
	}
}
