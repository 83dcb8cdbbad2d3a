//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default file when no config file is provided
const DefaultConfigFile string = "./restapi-transactions.yaml"

const (
	DefaultTimeoutSeconds  = 5
	MaxTimeoutSeconds      = 60
	DefaultCooldown        = 500 * time.Millisecond
	DefaultMonitoringPort  = 2112
	DefaultTestAPIDuration = 100 * time.Millisecond
)

// Mode decides which requests enter the locking path.
type Mode string

const (
	// ModeAlways locks every request that declares resources.
	ModeAlways Mode = "Always"
	// ModeHeaders only locks requests carrying the activation header.
	ModeHeaders Mode = "Headers"
	// ModeDisabled leaves the middleware out of the chain.
	ModeDisabled Mode = ""
)

// ParseMode recognizes the exact values "Always" and "Headers". Anything
// else disables locking.
func ParseMode(value string) Mode {
	switch Mode(value) {
	case ModeAlways, ModeHeaders:
		return Mode(value)
	default:
		return ModeDisabled
	}
}

func (m Mode) Enabled() bool {
	return m != ModeDisabled
}

// Config outline of the config file
type Config struct {
	RestApiTransactions RestApiTransactions `json:"rest_api_transactions" yaml:"rest_api_transactions"`
	Monitoring          Monitoring          `json:"monitoring" yaml:"monitoring"`
	TestAPI             TestAPI             `json:"test_api" yaml:"test_api"`
	Origin              string              `json:"origin" yaml:"origin"`
	Debug               bool                `json:"debug" yaml:"debug"`
}

// RestApiTransactions configures the admission scheduler and the gateway.
type RestApiTransactions struct {
	Mode           string        `json:"mode" yaml:"mode"`
	TimeoutSeconds int           `json:"timeout_seconds" yaml:"timeout_seconds"`
	Cooldown       time.Duration `json:"cooldown" yaml:"cooldown"`
	MaxPending     int           `json:"max_pending" yaml:"max_pending"`
}

// RunMode returns the parsed activation mode.
func (r RestApiTransactions) RunMode() Mode {
	return ParseMode(r.Mode)
}

// Timeout is the transaction timeout. Values outside (0, 60] seconds fall
// back to the default of 5 seconds.
func (r RestApiTransactions) Timeout() time.Duration {
	if !validTimeoutSeconds(r.TimeoutSeconds) {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// CooldownOrDefault returns the delay between releasing locks and rescanning
// the queue. Negative values mean no configured value.
func (r RestApiTransactions) CooldownOrDefault() time.Duration {
	if r.Cooldown < 0 {
		return DefaultCooldown
	}
	return r.Cooldown
}

func (r RestApiTransactions) Validate() error {
	var errs *multierror.Error
	if r.MaxPending < 0 {
		errs = multierror.Append(errs, fmt.Errorf("max_pending must not be negative, got %d", r.MaxPending))
	}
	if r.Cooldown > time.Minute {
		errs = multierror.Append(errs, fmt.Errorf("cooldown must not exceed 1m, got %s", r.Cooldown))
	}
	return errs.ErrorOrNil()
}

func validTimeoutSeconds(seconds int) bool {
	return seconds > 0 && seconds <= MaxTimeoutSeconds
}

type Monitoring struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Port    int  `json:"port" yaml:"port"`
}

func (m Monitoring) Validate() error {
	if !m.Enabled {
		return nil
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("monitoring port must be between 1 and 65535, got %d", m.Port)
	}
	return nil
}

// TestAPI configures the example endpoints.
type TestAPI struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	QuickDuration time.Duration `json:"quick_duration" yaml:"quick_duration"`
	LongDuration  time.Duration `json:"long_duration" yaml:"long_duration"`
}

// Validate the configuration
func (c *Config) Validate() error {
	var errs *multierror.Error

	if err := c.RestApiTransactions.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := c.Monitoring.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	if c.TestAPI.QuickDuration < 0 || c.TestAPI.LongDuration < 0 {
		errs = multierror.Append(errs, fmt.Errorf("test api durations must not be negative"))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return configErr(err)
	}
	return nil
}

// Defaults returns the configuration used when neither a file nor the
// environment provide values.
func Defaults() Config {
	return Config{
		RestApiTransactions: RestApiTransactions{
			TimeoutSeconds: DefaultTimeoutSeconds,
			Cooldown:       DefaultCooldown,
		},
		Monitoring: Monitoring{
			Port: DefaultMonitoringPort,
		},
		TestAPI: TestAPI{
			QuickDuration: DefaultTestAPIDuration,
			LongDuration:  20 * DefaultTestAPIDuration,
		},
	}
}

// Flags are the command line options.
type Flags struct {
	ConfigFile  string `long:"config-file" description:"path to config file (.yaml or .json)"`
	Host        string `long:"host" description:"the IP to listen on" default:"0.0.0.0" env:"HOST"`
	Port        int    `long:"port" description:"the port to listen on" default:"8080" env:"PORT"`
	WithTestAPI bool   `long:"with-test-api" description:"serve the example /test endpoints"`
}

// ServerConfig holds the loaded configuration and the listen address.
type ServerConfig struct {
	Config Config
	Host   string
	Port   int
}

// GetHostAddress returns the address the API server listens on.
func (s *ServerConfig) GetHostAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig from config locations. The load order for configuration values if the following
// 1. Defaults
// 2. Config file
// 3. Environment variables
// 4. Command line flags
// If a config option is specified multiple times in different locations, the latest one will be used in this order.
func (s *ServerConfig) LoadConfig(flags *Flags, logger logrus.FieldLogger) error {
	s.Config = Defaults()

	configFileName := flags.ConfigFile
	explicit := configFileName != ""
	if !explicit {
		configFileName = DefaultConfigFile
	}

	file, err := os.ReadFile(configFileName)
	if err != nil && explicit {
		return configErr(fmt.Errorf("read config file: %w", err))
	}

	if len(file) > 0 {
		logger.WithField("action", "config_load").
			WithField("config_file_path", configFileName).
			Info("loading config file")
		if err := parseConfigFile(file, configFileName, &s.Config); err != nil {
			return configErr(err)
		}
	}

	if err := FromEnv(&s.Config); err != nil {
		return configErr(err)
	}

	s.fromFlags(flags)

	if seconds := s.Config.RestApiTransactions.TimeoutSeconds; !validTimeoutSeconds(seconds) {
		logger.WithField("action", "config_load").
			WithField("timeout_seconds", seconds).
			Warnf("transaction timeout outside (0, %d], using %ds", MaxTimeoutSeconds, DefaultTimeoutSeconds)
		s.Config.RestApiTransactions.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if raw := s.Config.RestApiTransactions.Mode; raw != "" && !ParseMode(raw).Enabled() {
		logger.WithField("action", "config_load").
			WithField("mode", raw).
			Warn("unrecognized mode, rest api transactions are disabled")
	}

	return s.Config.Validate()
}

// parseConfigFile overlays the file content onto config, so fields missing
// from the file keep their defaults.
func parseConfigFile(file []byte, name string, config *Config) error {
	switch ext := filepath.Ext(name); ext {
	case ".json":
		if err := json.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	case "":
		return fmt.Errorf("config file does not have a file ending, got '%s'", name)
	default:
		return fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", ext)
	}

	return nil
}

// fromFlags parses values from flags given as parameter and overrides values in the config
func (s *ServerConfig) fromFlags(flags *Flags) {
	s.Host = flags.Host
	s.Port = flags.Port

	if flags.WithTestAPI {
		s.Config.TestAPI.Enabled = true
	}
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
