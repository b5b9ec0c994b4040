// Package migrations embeds the schema files of the local snapshot cache.
package migrations

import "embed"

//go:embed sqlite/*.sql
var FS embed.FS
