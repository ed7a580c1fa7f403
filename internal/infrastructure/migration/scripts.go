package migration

import "embed"

//go:embed scripts/mysql/*.sql scripts/sqlite/*.sql
var scriptsFS embed.FS

func scriptsDir(driver string) string {
	if driver == "sqlite" {
		return "scripts/sqlite"
	}
	return "scripts/mysql"
}

func gooseDialect(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "mysql"
}
