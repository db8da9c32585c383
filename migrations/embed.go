// Package migrations holds the relay journal schema as embedded golang-migrate files.
package migrations

import "embed"

// FS contains the *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
