package migrations

import "embed"

// FS contains the embedded SQLite migrations for the declaration catalog.
//
//go:embed *.sql
var FS embed.FS
