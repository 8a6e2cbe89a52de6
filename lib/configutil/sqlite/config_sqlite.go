package configsqlite

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	devenv "cardvault-backend/dev/env"

	_ "modernc.org/sqlite"
)

type Struct struct {
	File string `json:"file"`
}

// OpenDB opens (creating if necessary) the sqlite database named by
// the config and applies the given schema. Re-applying an existing
// schema is not an error.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(dbpath)
	if os.IsNotExist(statErr) {
		f, err := os.Create(dbpath)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return nil, err
		}
	}

	return db, nil
}
