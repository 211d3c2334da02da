// Package database handles database connections.
//
// It wraps GORM to configure MySQL, Postgres or SQLite connections from the
// application's configuration. SQLite (pure Go, no cgo) is used for local runs
// and tests; MySQL is the production default.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
