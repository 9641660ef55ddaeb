// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL connections (the production beatmap store)
// from the application's configuration. SQLite is accepted as a driver for
// local runs and tests.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the `schema` command, which checks
// that the beatmaps table carries every column the store reads and writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "beatmaps", models.StorageColumns)
package database
