package services

import (
	"fmt"
	"strings"
)

// Actor is the authenticated operator performing a queue action, taken from
// the JWT claims. Every transition note is attributed to it.
type Actor struct {
	OperatorID int
	Name       string
	Role       string
}

// auditNote renders the note line appended to an entry on each transition.
func auditNote(action string, actor Actor, note string) string {
	line := fmt.Sprintf("%s by %s (%s)", action, actor.Name, actor.Role)
	if strings.TrimSpace(note) != "" {
		line += ": " + strings.TrimSpace(note)
	}
	return line
}
