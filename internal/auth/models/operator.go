package models

import (
	"database/sql"
	"time"
)

// Operator is a station terminal user (registration clerk, nurse, doctor,
// cashier). StationID is null for roving/admin operators.
type Operator struct {
	ID        int           `json:"id_operator"`
	Name      string        `json:"name"`
	Username  string        `json:"username"`
	Password  string        `json:"-"`
	Role      string        `json:"role"`
	StationID sql.NullInt64 `json:"id_station,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}
