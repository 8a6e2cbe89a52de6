package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	devenv "cardvault-backend/dev/env"
	"cardvault-backend/lib/telemetry"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService prepares slog/telemetry and, when a schema is given,
// an sqlite database for a service test. The returned cleanup should
// be deferred.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}
	sqlite, err := sql.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = sqlite.Exec(params.DbSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatal(err)
	}

	return ServiceResult{
		DB: sqlite,
	}, cleanup
}
