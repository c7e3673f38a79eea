package services

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/altamedika/queue-engine/internal/auth/models"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	DB *sql.DB
}

func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{DB: db}
}

// Authenticate verifies an operator's credentials and returns the operator
// record used to mint the session token.
func (s *AuthService) Authenticate(username, password string) (*models.Operator, error) {
	var op models.Operator
	err := s.DB.QueryRow(`
		SELECT id_operator, name, username, password, role, id_station, created_at
		FROM Operator
		WHERE username = ?
	`, username).Scan(&op.ID, &op.Name, &op.Username, &op.Password, &op.Role, &op.StationID, &op.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &op, nil
}
