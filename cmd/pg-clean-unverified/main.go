// Command pg-clean-unverified deletes unverified signups whose verification token has expired from the PostgreSQL users table.
// It is intended to be invoked by an external scheduler (cron), once per run.
//
// Usage:
//
//	pg-clean-unverified
//
// Configuration comes from the environment (or CONFIG_PATH). The only stdout
// output is the summary line. Exit codes: 0 = success, 1 = connection or
// write error, 2 = configuration error.
package main

import (
	"context"
	"os"

	"github.com/heartmarshall/imagehub-sweeper/internal/app"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

func main() {
	os.Exit(app.RunJob(context.Background(), domain.StorePostgres, "unverified", os.Stdout, os.Stderr))
}
