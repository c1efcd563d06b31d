package store

// Config holds configuration for the archive record store.
type Config struct {
	// Backend selects where tables are persisted: file, object or sql.
	Backend string `mapstructure:"backend" default:"file"`
	// Dir is the directory holding CSV tables for the file backend.
	Dir string `mapstructure:"dir" default:"data"`
	// Prefix is the object key prefix for the object backend.
	Prefix string `mapstructure:"prefix" default:"archive"`
}

const (
	BackendFile   = "file"
	BackendObject = "object"
	BackendSQL    = "sql"
)

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFile, BackendObject, BackendSQL:
		return true
	default:
		return false
	}
}
