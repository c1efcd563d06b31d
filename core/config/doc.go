// Package config loads the archiver configuration.
//
// Values come from environment variables, optionally seeded from a .env file,
// with defaults declared as `default:"..."` struct tags on each section.
// Nested keys map to upper-case variables joined by underscores, so
// archive.backend is read from ARCHIVE_BACKEND.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Storage: S3/MinIO credentials and bucket for the object backend
//   - Log: logging level and format
//   - Database: MySQL or sqlite connection for the sql backend
//   - Archive: record store backend, directory and object prefix
//   - YouTube: token directory, OAuth client secrets, callback port, rate and retries
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Archive.Backend)
package config
