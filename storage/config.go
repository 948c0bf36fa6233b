package storage

import "time"

// Config selects and configures the storage backend.
type Config struct {
	Local    bool          `yaml:"-"`
	BaseDir  string        `yaml:"base_dir"`
	Debounce time.Duration `yaml:"debounce"`
	S3       S3Config      `yaml:"s3"`
}

// S3Config holds the remote bucket settings. Empty credentials fall back
// to the default AWS credential chain.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Defaults applies default values to the config.
func (c *Config) Defaults() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Debounce <= 0 {
		c.Debounce = 500 * time.Millisecond
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
}
