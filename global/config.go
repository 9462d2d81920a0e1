package global

import (
	"errors"
	"time"

	"github.com/spf13/viper"

	"AMProject/tools/errs"
)

// Config is loaded once at boot and passed down explicitly; nothing reads
// viper after LoadConfig returns.
type Config struct {
	APIBaseURL  string `json:"api_base_url" mapstructure:"api_base_url"`
	WSURL       string `json:"ws_url" mapstructure:"ws_url"`
	SessionFile string `json:"session_file" mapstructure:"session_file"`
	LogFile     string `json:"log_file" mapstructure:"log_file"`
	DownloadDir string `json:"download_dir" mapstructure:"download_dir"`
	NodeID      int64  `json:"node_id" mapstructure:"node_id"`

	Reconnect ReconnectConfig `json:"reconnect" mapstructure:"reconnect"`

	// BannerTTL is how long a view keeps a transient error/success banner
	// before auto-clearing it.
	BannerTTL time.Duration `json:"banner_ttl" mapstructure:"banner_ttl"`
}

type ReconnectConfig struct {
	InitialDelay time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay" mapstructure:"max_delay"`
	MaxAttempts  uint64        `json:"max_attempts" mapstructure:"max_attempts"`
}

func (c *Config) norm() {
	if c.Reconnect.InitialDelay <= 0 {
		c.Reconnect.InitialDelay = time.Second
	}
	if c.Reconnect.MaxDelay <= 0 {
		c.Reconnect.MaxDelay = 30 * time.Second
	}
	if c.Reconnect.MaxAttempts == 0 {
		c.Reconnect.MaxAttempts = 12
	}
	if c.BannerTTL <= 0 {
		c.BannerTTL = 5 * time.Second
	}
	if c.SessionFile == "" {
		c.SessionFile = defaultSessionFile()
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "."
	}
}

// LoadConfig reads client.yaml (path optional) plus AMCLIENT_* env overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("client")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.amclient")
	}
	v.SetEnvPrefix("AMCLIENT")
	v.AutomaticEnv()

	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("ws_url", "ws://localhost:8080/ws")
	v.SetDefault("node_id", 1)

	if err := v.ReadInConfig(); err != nil {
		// env-only boot is fine, a missing file is not
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, errs.Wrap(err, "read config")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.Wrap(err, "unmarshal config")
	}
	cfg.norm()
	return cfg, nil
}
