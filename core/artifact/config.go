package artifact

import "fmt"

const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// Config holds configuration for published artifacts.
type Config struct {
	// Backend selects where artifacts are written (fs, s3).
	Backend string `mapstructure:"backend" default:"fs"`
	// Dir is the cache directory used by the fs backend.
	Dir string `mapstructure:"dir" default:"./cache"`
	// Key is the logical name shared by every summary artifact.
	Key string `mapstructure:"key" default:"summary"`
	// Prefix is prepended to object names by the s3 backend.
	Prefix string `mapstructure:"prefix" default:"artifacts"`
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFS:
		if c.Dir == "" {
			return fmt.Errorf("artifact dir is required for the %s backend", BackendFS)
		}
	case BackendS3:
	default:
		return fmt.Errorf("unsupported artifact backend: %q", c.Backend)
	}
	if c.Key == "" {
		return fmt.Errorf("artifact key is required")
	}
	return nil
}
