package migrations

import "embed"

// FS holds the postgres schema for campaigns, deliveries and the subscriber
// directory. The sqlite store keeps its own schema in code.
//
//go:embed *.sql
var FS embed.FS

// Version is the latest migration in FS.
const Version = 1
