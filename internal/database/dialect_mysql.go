package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	// MySQL driver needs parseTime for DATETIME scanning
	dsn := config.URL
	if dsn != "" {
		sep := "?"
		for i := 0; i < len(dsn); i++ {
			if dsn[i] == '?' {
				sep = "&"
				break
			}
		}
		dsn += sep + "parseTime=true"
	}
	return dsn
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders, no rewrite needed
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *MySQLDialect) UpsertSettings() string {
	// `key` is a reserved word in MySQL; the settings table only ever lives
	// in the local SQLite store, this exists for interface completeness
	return "INSERT INTO settings (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)"
}

func (d *MySQLDialect) UpsertSession(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			profile_id = VALUES(profile_id),
			subject = VALUES(subject),
			prompt = VALUES(prompt),
			response = VALUES(response),
			created_at = VALUES(created_at),
			confusing_words = VALUES(confusing_words),
			wins = VALUES(wins)`, table, SessionColumns)
}
