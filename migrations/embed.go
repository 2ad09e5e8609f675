// Package migrations embeds the schema migrations applied by loadctl.
package migrations

import "embed"

// FS holds the up and down SQL files.
//
//go:embed *.sql
var FS embed.FS
