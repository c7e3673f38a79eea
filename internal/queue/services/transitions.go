package services

import "github.com/altamedika/queue-engine/internal/queue/models"

// transitionMap lists, per action, the statuses an entry may be in for the
// action to apply. Any pair not listed here is an illegal transition.
var transitionMap = map[string][]string{
	"call_next": {models.StatusWaiting},
	"complete":  {models.StatusInProgress},
	"skip":      {models.StatusInProgress},
	"recall":    {models.StatusSkipped},
	"transfer":  {models.StatusInProgress},
}

// ValidTransition reports whether action may be applied to an entry whose
// current status is fromStatus.
func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
