package migrations

import "embed"

// FS contains the embedded SQLite migrations for the user store.
//
//go:embed *.sql
var FS embed.FS
