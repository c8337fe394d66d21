package qsdk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL string        `mapstructure:"baseUrl"`
	Timeout time.Duration `mapstructure:"timeout"`
	// APIKey from config or VITALSYNC_APIKEY; the keyring entry is used
	// when empty.
	APIKey string `mapstructure:"apiKey"`

	v *viper.Viper
}

const (
	EnvPrefix  = "VITALSYNC"
	ConfigRoot = ".vitalsync"

	BaseUrlKey = "baseUrl"
	TimeoutKey = "timeout"
	APIKeyKey  = "apiKey"

	DefaultBaseURL = "http://localhost:3000"
	// Batches walk every user sequentially, so the default is generous.
	DefaultTimeout = 10 * time.Minute
)

// LoadConfig reads vitalsync.yaml from the working directory, merges
// .vitalsync/config.yaml on top and lets VITALSYNC_* variables override both.
// An explicit cfgFile replaces the lookup.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{BaseUrlKey, TimeoutKey, APIKeyKey} {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key))
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		for _, name := range []string{"vitalsync.yaml", "vitalsync.yml", ".vitalsync.yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err == nil {
					break
				}
			}
		}

		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging local config: %w", err)
			}
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.v = v
	return &cfg, nil
}

// Viper exposes the instance so commands can bind flags to it.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(BaseUrlKey, DefaultBaseURL)
	v.SetDefault(TimeoutKey, DefaultTimeout)
	if v.IsSet(BaseUrlKey) {
		v.Set(BaseUrlKey, strings.TrimRight(v.GetString(BaseUrlKey), "/"))
	}
}
