package migrations

import "embed"

// FS содержит sql-миграции схемы в формате golang-migrate
//
//go:embed *.sql
var FS embed.FS
