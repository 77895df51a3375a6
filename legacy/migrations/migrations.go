// Package migrations embeds the goose SQL schema for the legacy session
// tables so the store can bootstrap itself in development and tests.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
