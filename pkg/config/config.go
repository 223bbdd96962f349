// Package config provides centralized configuration management for the
// weather bridge. Values come from defaults, an optional config file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/forecast"
	"github.com/theapemachine/mcp-server-weather-bridge/pkg/geocode"
)

// EnvPrefix namespaces every environment override, e.g.
// WEATHER_MCP_SERVER_TRANSPORT=http.
const EnvPrefix = "WEATHER_MCP"

// Config holds the complete configuration for the application
type Config struct {
	Server struct {
		Name        string        `validate:"required"`
		Version     string        `validate:"required"`
		Transport   string        `validate:"oneof=stdio http"`
		Addr        string        `validate:"required_if=Transport http"`
		MaxDuration time.Duration `validate:"gte=0"`
	}

	HTTP struct {
		Timeout   time.Duration `validate:"gt=0"`
		UserAgent string        `validate:"required"`
	}

	Geocoding struct {
		Provider   string `validate:"oneof=openmeteo nominatim"`
		BaseURL    string `validate:"omitempty,url"`
		APIKey     string
		RequireKey bool
	}

	Forecast struct {
		BaseURL         string `validate:"required,url"`
		APIKey          string
		RequireKey      bool
		TemperatureUnit string `validate:"oneof=fahrenheit celsius"`
		Timezone        string `validate:"required"`
		WindowHours     int    `validate:"gte=1,lte=24"`
	}

	Log struct {
		Level string `validate:"oneof=debug info warn error fatal"`
	}
}

var validate = validator.New()

// LoadDotEnv loads a .env file into the process environment. A missing file is
// not an error.
func LoadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}
}

// NewViper returns a viper instance with defaults and environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.name", "weather-mcp")
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.max_duration", 60*time.Second)
	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.user_agent", "weather-mcp/1.0 (+https://github.com/theapemachine/mcp-server-weather-bridge)")
	v.SetDefault("geocoding.provider", geocode.OpenMeteo.Name)
	v.SetDefault("geocoding.base_url", "")
	v.SetDefault("geocoding.api_key", "")
	v.SetDefault("geocoding.require_key", false)

	defaults := forecast.DefaultOptions()
	v.SetDefault("forecast.base_url", defaults.BaseURL)
	v.SetDefault("forecast.api_key", "")
	v.SetDefault("forecast.require_key", false)
	v.SetDefault("forecast.temperature_unit", defaults.TemperatureUnit)
	v.SetDefault("forecast.timezone", defaults.Timezone)
	v.SetDefault("forecast.window_hours", defaults.WindowHours)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare names are what deployments already export.
	_ = v.BindEnv("geocoding.api_key", EnvPrefix+"_GEOCODING_API_KEY", "GEOCODING_API_KEY")
	_ = v.BindEnv("forecast.api_key", EnvPrefix+"_FORECAST_API_KEY", "WEATHER_API_KEY")

	return v
}

// Load reads an optional config file into v and materializes a Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to load config %s: %w", configFile, err)
			}
		}
	}

	cfg := &Config{}

	cfg.Server.Name = v.GetString("server.name")
	cfg.Server.Version = v.GetString("server.version")
	cfg.Server.Transport = strings.ToLower(v.GetString("server.transport"))
	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Server.MaxDuration = v.GetDuration("server.max_duration")

	cfg.HTTP.Timeout = v.GetDuration("http.timeout")
	cfg.HTTP.UserAgent = v.GetString("http.user_agent")

	cfg.Geocoding.Provider = strings.ToLower(v.GetString("geocoding.provider"))
	cfg.Geocoding.BaseURL = v.GetString("geocoding.base_url")
	cfg.Geocoding.APIKey = v.GetString("geocoding.api_key")
	cfg.Geocoding.RequireKey = v.GetBool("geocoding.require_key")

	cfg.Forecast.BaseURL = v.GetString("forecast.base_url")
	cfg.Forecast.APIKey = v.GetString("forecast.api_key")
	cfg.Forecast.RequireKey = v.GetBool("forecast.require_key")
	cfg.Forecast.TemperatureUnit = strings.ToLower(v.GetString("forecast.temperature_unit"))
	cfg.Forecast.Timezone = v.GetString("forecast.timezone")
	cfg.Forecast.WindowHours = v.GetInt("forecast.window_hours")

	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))

	return cfg, nil
}

// Validate checks enumerations and ranges. Missing API keys are not reported
// here; they surface on first use.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var problems []string
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}

	return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
}

// GeocodingProvider resolves the configured provider profile and applies
// overrides.
func (c *Config) GeocodingProvider() (geocode.Provider, error) {
	p, err := geocode.ProviderByName(c.Geocoding.Provider)
	if err != nil {
		return geocode.Provider{}, err
	}

	if c.Geocoding.BaseURL != "" {
		p.BaseURL = c.Geocoding.BaseURL
	}

	p.APIKey = c.Geocoding.APIKey
	p.RequireKey = c.Geocoding.RequireKey

	return p, nil
}

// ForecastOptions maps the forecast section onto forecaster options.
func (c *Config) ForecastOptions() forecast.Options {
	return forecast.Options{
		BaseURL:         c.Forecast.BaseURL,
		APIKey:          c.Forecast.APIKey,
		RequireKey:      c.Forecast.RequireKey,
		TemperatureUnit: c.Forecast.TemperatureUnit,
		Timezone:        c.Forecast.Timezone,
		WindowHours:     c.Forecast.WindowHours,
	}
}
