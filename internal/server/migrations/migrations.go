// Package migrations embeds the SQL migrations applied by goose at server
// startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
