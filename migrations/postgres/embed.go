// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the PostgreSQL migrations for the social accounts schema.
//
//go:embed *.sql
var FS embed.FS
