package migrations

import "embed"

// FS embeds the SQL migration files in this directory. golang-migrate reads
// them through the iofs driver on startup.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version main migrates up to.
const Version = 1
