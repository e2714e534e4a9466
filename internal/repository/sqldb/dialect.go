package sqldb

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported driver names
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// dialect captures the differences between the supported SQL backends
type dialect struct {
	name string
	// schema statements are executed one by one; mysql rejects multi-statement Exec
	schema []string
	// lockSession is appended to the session SELECT inside InsertNode
	lockSession string
	// maxOpenConns of zero leaves the pool unbounded
	maxOpenConns int
	dsn          func(string) (string, error)
}

func dialectFor(driver string) (*dialect, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite, "sqlite3":
		return sqliteDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

var sqliteDialect = &dialect{
	name: DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS markers (
			session_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, idx),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			from_idx INTEGER NOT NULL,
			to_idx INTEGER NOT NULL,
			weight REAL NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_session ON edges(session_id, to_idx)`,
	},
	// One connection serializes writers and keeps :memory: databases alive.
	maxOpenConns: 1,
	dsn: func(path string) (string, error) {
		if path == "" {
			path = "./routegraph.db"
		}
		if strings.Contains(path, "?") {
			return path, nil
		}
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", nil
	},
}

var mysqlDialect = &dialect{
	name: DriverMySQL,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			version BIGINT NOT NULL DEFAULT 0,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS markers (
			session_id VARCHAR(64) NOT NULL,
			idx INT NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			created_at DATETIME(6) NOT NULL,
			PRIMARY KEY (session_id, idx),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS edges (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			session_id VARCHAR(64) NOT NULL,
			from_idx INT NOT NULL,
			to_idx INT NOT NULL,
			weight DOUBLE NOT NULL,
			INDEX idx_edges_session (session_id, to_idx),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	},
	lockSession: " FOR UPDATE",
	dsn: func(dsn string) (string, error) {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		// DATETIME columns must scan into time.Time
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	},
}
