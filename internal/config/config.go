package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"clickmate/internal/appdir"
	"clickmate/internal/logger"
	"clickmate/internal/profiles"
)

// EnvPrefix prefixes every environment override, e.g. CLICKMATE_DATA_DIR.
const EnvPrefix = "CLICKMATE"

// AppFs is the filesystem config and .env files are looked up on.
var AppFs = afero.NewOsFs()

// Config represents the root configuration structure
type Config struct {
	Identity     appdir.Identity `mapstructure:"identity"`
	DataDir      string          `mapstructure:"data_dir"`
	DatabaseFile string          `mapstructure:"database_file"`
	Log          LogConfig       `mapstructure:"log"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Identity: appdir.Identity{
			Qualifier:    "com",
			Organization: "clickmate",
			Application:  "clickmate",
		},
		DatabaseFile: profiles.DefaultFileName,
		Log:          LogConfig{Level: "warn"},
	}
}

// Load reads configuration from path (or the default search paths when
// empty), a .env file in the working directory, and CLICKMATE_* variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := AppFs.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v.SetFs(AppFs)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clickmate"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("identity.qualifier", d.Identity.Qualifier)
	v.SetDefault("identity.organization", d.Identity.Organization)
	v.SetDefault("identity.application", d.Identity.Application)
	v.SetDefault("data_dir", "")
	v.SetDefault("database_file", d.DatabaseFile)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
}

// Validate validates the configuration values
func Validate(cfg *Config) error {
	if cfg.DatabaseFile == "" {
		return fmt.Errorf("database_file cannot be empty")
	}
	if strings.ContainsAny(cfg.DatabaseFile, `/\`) {
		return fmt.Errorf("database_file must be a file name, got %q", cfg.DatabaseFile)
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Resolver returns the directory resolver for cfg.
func (c *Config) Resolver() *appdir.Resolver {
	r := appdir.NewResolver(c.Identity)
	r.Override = c.DataDir
	return r
}

// Locator returns the database locator for cfg.
func (c *Config) Locator() *profiles.Locator {
	return profiles.NewLocator(c.Resolver(), c.DatabaseFile)
}
