package services

import (
	"database/sql"
	"fmt"

	"github.com/altamedika/queue-engine/internal/registry/models"
)

type StationService struct {
	DB *sql.DB
}

func NewStationService(db *sql.DB) *StationService {
	return &StationService{DB: db}
}

// GetStation returns one station by id, active or not.
func (s *StationService) GetStation(id int) (*models.Station, error) {
	row := s.DB.QueryRow(`
		SELECT id_station, name, station_type, routing_targets, allowed_roles, active
		FROM Station
		WHERE id_station = ?
	`, id)
	return scanStation(row)
}

// ListStations returns active stations, optionally filtered by type.
func (s *StationService) ListStations(stationType string) ([]models.Station, error) {
	query := `
		SELECT id_station, name, station_type, routing_targets, allowed_roles, active
		FROM Station
		WHERE active = 1
	`
	args := []interface{}{}
	if stationType != "" {
		query += " AND station_type = ?"
		args = append(args, stationType)
	}
	query += " ORDER BY id_station"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var (
			st                   models.Station
			targetsRaw, rolesRaw string
		)
		if err := rows.Scan(&st.ID, &st.Name, &st.StationType, &targetsRaw, &rolesRaw, &st.Active); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		st.RoutingTargets = models.SplitList(targetsRaw)
		st.AllowedRoles = models.SplitList(rolesRaw)
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		st                   models.Station
		targetsRaw, rolesRaw string
	)
	err := row.Scan(&st.ID, &st.Name, &st.StationType, &targetsRaw, &rolesRaw, &st.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan station: %w", err)
	}
	st.RoutingTargets = models.SplitList(targetsRaw)
	st.AllowedRoles = models.SplitList(rolesRaw)
	return &st, nil
}

// GetStationTx reads a station on the caller's transaction. Used by the
// queue services so authorization and routing checks see the same snapshot
// as the mutation they guard.
func GetStationTx(tx *sql.Tx, id int) (*models.Station, error) {
	row := tx.QueryRow(`
		SELECT id_station, name, station_type, routing_targets, allowed_roles, active
		FROM Station
		WHERE id_station = ?
	`, id)
	return scanStation(row)
}
