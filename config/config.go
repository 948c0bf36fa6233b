package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tnicklin/screambot/discord"
	"github.com/tnicklin/screambot/logger"
	"github.com/tnicklin/screambot/storage"
	"go.uber.org/config"
)

// DocumentsConfig names the remote configuration resources.
type DocumentsConfig struct {
	Config string `yaml:"config"`
	Ranks  string `yaml:"ranks"`
}

// AppConfig holds all application configuration.
type AppConfig struct {
	Logger    logger.Config   `yaml:"logger"`
	Discord   discord.Config  `yaml:"discord"`
	Storage   storage.Config  `yaml:"storage"`
	Documents DocumentsConfig `yaml:"documents"`
	// LocalMode selects local files with hot reload; "0" and "false"
	// select the S3 bucket. Local mode also announces logins.
	LocalMode string `yaml:"local_mode"`
}

// Environment variables read by ApplyEnv.
const (
	EnvToken       = "DISCORD_BOT_TOKEN"
	EnvLocalMode   = "LOCAL_MODE"
	EnvConfigName  = "CONFIG_FILENAME"
	EnvRanksName   = "RANKS_FILENAME"
	EnvBaseDir     = "LOCAL_BASE_DIR"
	EnvBucket      = "S3_BUCKET_NAME"
	EnvRegion      = "AWS_REGION"
	EnvAccessKeyID = "AWS_ACCESS_KEY_ID"
	EnvSecretKey   = "AWS_SECRET_ACCESS_KEY"
	EnvS3Endpoint  = "S3_ENDPOINT"
	EnvLogLevel    = "LOG_LEVEL"
)

// LoadEnv loads .env style files into the process environment. Variables
// already set are not overridden.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads configuration from the specified YAML files.
// Files are merged in order, with later files overriding earlier ones.
// Missing files are silently ignored. ${VAR} references are expanded from
// the environment.
func Load(files ...string) (*AppConfig, error) {
	opts := make([]config.YAMLOption, 0, len(files)+1)
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			opts = append(opts, config.File(f))
		}
	}

	if len(opts) == 0 {
		return nil, os.ErrNotExist
	}
	opts = append(opts, config.Expand(os.LookupEnv))

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration, applies environment overrides and
// fills in defaults. Having no YAML file at all is not an error: the bot
// can be configured from the environment alone.
func LoadWithDefaults(files ...string) (*AppConfig, error) {
	cfg, err := Load(files...)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = &AppConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)

	// Apply defaults
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "json"
	}
	if len(cfg.Logger.OutputPaths) == 0 {
		cfg.Logger.OutputPaths = []string{"stdout"}
	}
	if cfg.Documents.Config == "" {
		cfg.Documents.Config = "config.json"
	}
	if cfg.Documents.Ranks == "" {
		cfg.Documents.Ranks = "ranks.json"
	}
	cfg.Storage.Defaults()
	cfg.Discord.Defaults()

	local := storage.ParseLocalMode(cfg.LocalMode)
	cfg.Storage.Local = local
	cfg.Discord.AnnounceLogin = cfg.Discord.AnnounceLogin || local

	return cfg, nil
}

// ApplyEnv overrides values with the environment variables that are set.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.Discord.Token, EnvToken)
	set(&c.Documents.Config, EnvConfigName)
	set(&c.Documents.Ranks, EnvRanksName)
	set(&c.Storage.BaseDir, EnvBaseDir)
	set(&c.Storage.S3.Bucket, EnvBucket)
	set(&c.Storage.S3.Region, EnvRegion)
	set(&c.Storage.S3.AccessKeyID, EnvAccessKeyID)
	set(&c.Storage.S3.SecretAccessKey, EnvSecretKey)
	set(&c.Storage.S3.Endpoint, EnvS3Endpoint)
	set(&c.Logger.Level, EnvLogLevel)
	set(&c.LocalMode, EnvLocalMode)
}

// Validate reports missing required settings.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New(EnvToken+" environment variable or discord.token config required"))
	}
	if c.Documents.Config == "" {
		errs = append(errs, errors.New(EnvConfigName+" environment variable or documents.config config required"))
	}
	if c.Documents.Ranks == "" {
		errs = append(errs, errors.New(EnvRanksName+" environment variable or documents.ranks config required"))
	}
	if !c.Storage.Local && c.Storage.S3.Bucket == "" {
		errs = append(errs, errors.New(EnvBucket+" environment variable or storage.s3.bucket config required in remote mode"))
	}
	return errors.Join(errs...)
}
