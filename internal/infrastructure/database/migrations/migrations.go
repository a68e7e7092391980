package migrations

import "embed"

// FS holds the versioned SQL migrations applied at startup, one directory
// per database driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
