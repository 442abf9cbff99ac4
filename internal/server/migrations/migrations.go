// Package migrations embeds the PostgreSQL schema of the auth API.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
