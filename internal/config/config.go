package config

import (
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"
	configPathEnv     = "BRANDMEMBER_CONFIG"
	cookiesEnv        = "BRANDMEMBER_COOKIES"
	catalogURLEnv     = "BRANDMEMBER_SHOP_ID_URL"
)

// Config holds everything the run needs; it is built once in main and passed
// into constructors, never looked up ambiently.
type Config struct {
	CatalogURL  string           `yaml:"shop_id_url"`
	CatalogFile string           `yaml:"catalog_file"`
	UserAgent   string           `yaml:"user_agent"`
	Cookies     []string         `yaml:"cookies"`
	Threads     int              `yaml:"thread"`
	Screening   ScreeningConfig  `yaml:"screening"`
	Registrant  RegistrantConfig `yaml:"register"`
	Platform    PlatformConfig   `yaml:"platform"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// ScreeningConfig sets the thresholds for which reward offers are worth
// claiming.
type ScreeningConfig struct {
	MinBean int  `yaml:"bean"`
	Voucher bool `yaml:"voucher"`
}

// RegistrantConfig is the fixed demographic profile sent with every
// enrollment call.
type RegistrantConfig struct {
	Sex      string `yaml:"v_sex"`
	Birthday string `yaml:"v_birthday"`
	Name     string `yaml:"v_name"`
}

// PlatformConfig points at the remote platform's endpoints. The defaults
// match the production hosts; tests swap in httptest URLs.
type PlatformConfig struct {
	UserInfoURL  string        `yaml:"user_info_url"`
	UserInfoHost string        `yaml:"user_info_host"`
	ActionURL    string        `yaml:"action_url"`
	ActionHost   string        `yaml:"action_host"`
	ShopURL      string        `yaml:"shop_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LoggingConfig controls verbosity and the rolling log file location.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of the defaults.
func Load() Config {
	cfg := defaultConfig()

	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigPath
	}

	if raw, err := os.ReadFile(path); err != nil {
		log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		cfg = defaultConfig()
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(cookiesEnv); v != "" {
		c.Cookies = c.Cookies[:0]
		for _, cookie := range strings.Split(v, ",") {
			if cookie = strings.TrimSpace(cookie); cookie != "" {
				c.Cookies = append(c.Cookies, cookie)
			}
		}
	}

	if v := os.Getenv(catalogURLEnv); v != "" {
		c.CatalogURL = v
	}
}

func (c *Config) normalize() {
	if c.Threads < 1 {
		c.Threads = 1
	}
	if c.Platform.Timeout <= 0 {
		c.Platform.Timeout = 30 * time.Second
	}
	if c.CatalogFile == "" {
		c.CatalogFile = "shopid.yaml"
	}
}

func defaultConfig() Config {
	return Config{
		CatalogFile: "shopid.yaml",
		UserAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
		Threads:     5,
		Screening:   ScreeningConfig{MinBean: 10, Voucher: true},
		Registrant:  RegistrantConfig{Sex: "未知", Birthday: "1990-01-01", Name: "用户"},
		Platform: PlatformConfig{
			UserInfoURL:  "https://me-api.jd.com/user_new/info/GetJDUserInfoUnion",
			UserInfoHost: "me-api.jd.com",
			ActionURL:    "https://api.m.jd.com/client.action",
			ActionHost:   "api.m.jd.com",
			ShopURL:      "https://shop.m.jd.com/",
			Timeout:      30 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", File: "logs/brandmember.log"},
	}
}
