// Package migrations embeds the SQLite schema of the client cookie file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
