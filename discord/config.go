package discord

// Config holds Discord-specific configuration.
type Config struct {
	Token string `yaml:"token"`
	// AnnounceLogin DMs the developers when the gateway session is ready.
	AnnounceLogin bool `yaml:"announce_login"`
	// MaxConcurrentDMs bounds the operator notification fan-out.
	MaxConcurrentDMs int `yaml:"max_concurrent_dms"`
}

// Defaults applies default values to the config.
func (c *Config) Defaults() {
	if c.MaxConcurrentDMs <= 0 {
		c.MaxConcurrentDMs = 4
	}
}
