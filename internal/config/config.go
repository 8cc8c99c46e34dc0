package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// APIKeyEnv is the environment variable holding the Meetup API key. It is read
// at call time so a rotated key takes effect without a restart.
const APIKeyEnv = "MEETUP_API_KEY"

// Config holds the runtime configuration for the fulfillment service.
type Config struct {
	BindAddr      string        `mapstructure:"bind_addr"`
	MeetupBaseURL string        `mapstructure:"meetup_base_url"`
	ClientTimeout time.Duration `mapstructure:"client_timeout"`
	Verbose       bool          `mapstructure:"verbose"`
}

// Init wires viper defaults and environment binding. Every key is overridable
// via MEETUP_AGENT_<KEY>.
func Init() {
	viper.SetDefault("bind_addr", ":8080")
	viper.SetDefault("meetup_base_url", "https://api.meetup.com")
	viper.SetDefault("client_timeout", 10*time.Second)
	viper.SetDefault("verbose", false)

	viper.SetEnvPrefix("MEETUP_AGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Get unmarshals the effective configuration.
func Get() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// APIKey reads the Meetup API key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// Validate collects every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BindAddr == "" {
		result = multierror.Append(result, fmt.Errorf("bind_addr must not be empty"))
	}
	if c.MeetupBaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("meetup_base_url must not be empty"))
	}
	if c.ClientTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("client_timeout must be positive, got %s", c.ClientTimeout))
	}

	return result.ErrorOrNil()
}
