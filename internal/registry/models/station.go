package models

import "strings"

// Station types known to the routing engine. The registry may carry more;
// routing only requires that source and destination agree on the tag.
const (
	TypeTriage       = "triage"
	TypeConsultation = "consultation"
	TypeLab          = "lab"
	TypePharmacy     = "pharmacy"
	TypeBilling      = "billing"
)

// Station is one service point patients queue at. Administered externally;
// the engine reads it to route, load-balance and authorize.
type Station struct {
	ID             int      `json:"id_station"`
	Name           string   `json:"name"`
	StationType    string   `json:"station_type"`
	RoutingTargets []string `json:"routing_targets"` // successor station types, in display order
	AllowedRoles   []string `json:"allowed_roles"`
	Active         bool     `json:"active"`
}

// CanRouteTo reports whether this station may transfer patients to the given
// station type.
func (s *Station) CanRouteTo(stationType string) bool {
	for _, t := range s.RoutingTargets {
		if t == stationType {
			return true
		}
	}
	return false
}

// AllowsRole reports whether an operator role may act on this station's queue.
// An empty allowed-roles list means the station is open to every role.
func (s *Station) AllowsRole(role string) bool {
	if len(s.AllowedRoles) == 0 {
		return true
	}
	for _, r := range s.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SplitList parses the comma-separated list columns (routing_targets,
// allowed_roles) as stored in the Station table.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
