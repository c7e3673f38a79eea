package mariadb

import (
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/altamedika/queue-engine/config"
)

var (
	db   *sql.DB
	once sync.Once
)

// Connect opens the shared MariaDB connection used by every station terminal
// request. Credentials come from the environment through config.LoadConfig.
func Connect() *sql.DB {
	once.Do(func() {
		cfg := config.LoadConfig()
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			url.QueryEscape(cfg.Timezone))

		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database connection")
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err = db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("failed to ping database")
		}

		log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to MariaDB")
	})

	return db
}

// GetDB returns the already-established database handle.
func GetDB() *sql.DB {
	return db
}
