package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is the database/sql driver registered with REGEXP
// support. Registration happens once at package init.
const sqliteDriverName = "sqlite3_tutor"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("regexp", regexpMatch, true)
		},
	})
}

// globalRegexpCache caches compiled patterns across rows. sync.Map is
// optimized for write-once read-many entries, which matches a pattern
// being probed against every row of a scan.
var globalRegexpCache sync.Map // map[string]*regexp.Regexp

// regexpMatch backs the SQLite REGEXP operator. SQLite invokes the
// "regexp" function with (pattern, value). Patterns compile in
// case-insensitive mode to match the behavior of ~* on PostgreSQL.
func regexpMatch(pattern, value string) (bool, error) {
	if cached, ok := globalRegexpCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value), nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false, fmt.Errorf("invalid regular expression: %w", err)
	}
	actual, _ := globalRegexpCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp).MatchString(value), nil
}

// OpenSQLite opens a SQLite database with the REGEXP function
// registered. Use ":memory:" for an in-process throwaway database.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(sqlite.Dialector{DriverName: sqliteDriverName, DSN: dsn}, cfg)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
