package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims carries the authenticated operator identity attached to every
// mutating queue action. StationID is the operator's home station, 0 when
// the operator is not bound to a single station.
type Claims struct {
	OperatorID int    `json:"id_operator"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	StationID  int    `json:"id_station,omitempty"`
	Username   string `json:"username"`
	jwt.RegisteredClaims
}

func GenerateJWTToken(operatorID int, name, role string, stationID int, username string, exp time.Time) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	if len(jwtKey) == 0 {
		return "", fmt.Errorf("JWT secret key is missing")
	}

	claims := Claims{
		OperatorID: operatorID,
		Name:       name,
		Role:       role,
		StationID:  stationID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ValidateJWTToken(tokenString string) (*Claims, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET_KEY"))
	if len(jwtKey) == 0 {
		return nil, fmt.Errorf("JWT secret key is missing")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
