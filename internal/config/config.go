// Package config loads the application configuration from file and
// environment and owns global logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MinYear is the earliest year any collector has data for (ACS 5-year floor).
const MinYear = 2009

// publicationLag is how far behind the current year the ACS publishes.
const publicationLag = 2

// Config holds the full application configuration.
type Config struct {
	CensusAPIKey string `yaml:"census_api_key" mapstructure:"census_api_key"`
	BLSAPIKey    string `yaml:"bls_api_key" mapstructure:"bls_api_key"`

	Census   CensusConfig   `yaml:"census" mapstructure:"census"`
	BLS      BLSConfig      `yaml:"bls" mapstructure:"bls"`
	CityData CityDataConfig `yaml:"citydata" mapstructure:"citydata"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CensusConfig configures the Census API client.
type CensusConfig struct {
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// BLSConfig configures the BLS API client and batching.
type BLSConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit      float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	BatchSize      int     `yaml:"batch_size" mapstructure:"batch_size"`
	BatchPauseSecs float64 `yaml:"batch_pause_secs" mapstructure:"batch_pause_secs"`
}

// CityDataConfig configures the city-data.com directory client. Delay windows
// are courtesy pauses before outbound requests; zero maximums disable them.
type CityDataConfig struct {
	BaseURL             string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimit           float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	ProfileDelayMinSecs float64 `yaml:"profile_delay_min_secs" mapstructure:"profile_delay_min_secs"`
	ProfileDelayMaxSecs float64 `yaml:"profile_delay_max_secs" mapstructure:"profile_delay_max_secs"`
	PageDelayMinSecs    float64 `yaml:"page_delay_min_secs" mapstructure:"page_delay_min_secs"`
	PageDelayMaxSecs    float64 `yaml:"page_delay_max_secs" mapstructure:"page_delay_max_secs"`
}

// OutputConfig configures where run artifacts land.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the artifact dashboard server.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchPause returns the pause between consecutive BLS batch requests.
func (c BLSConfig) BatchPause() time.Duration {
	return time.Duration(c.BatchPauseSecs * float64(time.Second))
}

// ProfileDelay returns the profile-fetch delay window.
func (c CityDataConfig) ProfileDelay() (time.Duration, time.Duration) {
	return secs(c.ProfileDelayMinSecs), secs(c.ProfileDelayMaxSecs)
}

// PageDelay returns the linked-page delay window.
func (c CityDataConfig) PageDelay() (time.Duration, time.Duration) {
	return secs(c.PageDelayMinSecs), secs(c.PageDelayMaxSecs)
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Load reads configuration from file and environment. With an empty path it
// looks for market.yaml in the working directory; otherwise the named file
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("market")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("census.base_url", "https://api.census.gov")
	v.SetDefault("census.rate_limit", 5.0)
	v.SetDefault("bls.base_url", "https://api.bls.gov")
	v.SetDefault("bls.rate_limit", 2.0)
	v.SetDefault("bls.batch_size", 50)
	v.SetDefault("bls.batch_pause_secs", 1.0)
	v.SetDefault("citydata.base_url", "https://www.city-data.com")
	v.SetDefault("citydata.rate_limit", 1.0)
	v.SetDefault("citydata.profile_delay_min_secs", 1.0)
	v.SetDefault("citydata.profile_delay_max_secs", 2.0)
	v.SetDefault("citydata.page_delay_min_secs", 1.0)
	v.SetDefault("citydata.page_delay_max_secs", 3.0)
	v.SetDefault("output.dir", "market_data")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// The default file is optional; an explicitly named one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidateKeys checks the fatal precondition that both API credentials are
// present before any fetch begins.
func (c *Config) ValidateKeys() error {
	if strings.TrimSpace(c.CensusAPIKey) == "" {
		return eris.New("config: census_api_key is required (MARKET_CENSUS_API_KEY)")
	}
	if strings.TrimSpace(c.BLSAPIKey) == "" {
		return eris.New("config: bls_api_key is required (MARKET_BLS_API_KEY)")
	}
	return nil
}

// ValidateYears checks a requested year range against the data floor and the
// ACS publication lag relative to now.
func ValidateYears(start, end int, now time.Time) error {
	maxYear := now.Year() - publicationLag
	if start < MinYear {
		return eris.Errorf("config: start year %d precedes %d, the first year with data", start, MinYear)
	}
	if end > maxYear {
		return eris.Errorf("config: end year %d exceeds %d, the most recent published year", end, maxYear)
	}
	if start > end {
		return eris.Errorf("config: start year %d is after end year %d", start, end)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
