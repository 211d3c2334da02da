// Package config provides configuration management for the country cache.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each field as `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port)
//   - Sources: country facts and exchange rate endpoints, fetch timeout
//   - Database: MySQL, Postgres or SQLite connection details
//   - Artifact: where the summary image and report are written
//   - Storage: S3/MinIO credentials and bucket settings (artifact backend "s3")
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
