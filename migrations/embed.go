// Package migrations embeds the postgres schema migrations so the migrate
// binary and the integration tests run the same files.
package migrations

import "embed"

// FS holds every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
