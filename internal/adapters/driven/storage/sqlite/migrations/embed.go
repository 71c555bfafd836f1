// Package migrations embeds the SQL schema migrations for the vector
// index store.
package migrations

import "embed"

// FS holds the migration files, embedded at compile time so the binary
// can initialise a fresh index without external assets.
//
//go:embed *.sql
var FS embed.FS
