package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Behavior describes how a configured user is expected to act on the
// target application. Scenarios use it to pick users and session
// settings (e.g. slow users get a scaled timeout).
type Behavior string

// Known user behaviors.
const (
	BehaviorNormal  Behavior = "normal"
	BehaviorLocked  Behavior = "locked"
	BehaviorBuggyUI Behavior = "buggy-ui"
	BehaviorSlow    Behavior = "slow"
)

const defaultSlowTimeoutScale = 3.0

// Viewport ...
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Environment ...
type Environment struct {
	BaseURL   string   `yaml:"base_url"`
	TimeoutMS int      `yaml:"timeout"`
	Headless  bool     `yaml:"headless"`
	Browser   string   `yaml:"browser"`
	Viewport  Viewport `yaml:"viewport"`
}

// Timeout returns the configured default interaction timeout.
func (e Environment) Timeout() time.Duration {
	return time.Duration(e.TimeoutMS) * time.Millisecond
}

// User is one credential entry of the `users` section.
type User struct {
	Username     string   `yaml:"username"`
	Password     string   `yaml:"password"`
	Description  string   `yaml:"description"`
	Behavior     Behavior `yaml:"behavior"`
	TimeoutScale float64  `yaml:"timeout_scale"`
}

// EffectiveTimeoutScale returns the timeout multiplier to apply to
// sessions driven by this user. Slow users default to
// defaultSlowTimeoutScale unless the config sets an explicit scale.
func (u User) EffectiveTimeoutScale() float64 {
	if u.TimeoutScale > 0 {
		return u.TimeoutScale
	}
	if u.Behavior == BehaviorSlow {
		return defaultSlowTimeoutScale
	}
	return 1.0
}

// CustomerInfo ...
type CustomerInfo struct {
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	PostalCode string `yaml:"postal_code"`
}

// InvalidCredential is one invalid username/password pair of the
// negative login data set.
type InvalidCredential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TestData ...
type TestData struct {
	CustomerInfo       CustomerInfo        `yaml:"customer_info"`
	InvalidCredentials []InvalidCredential `yaml:"invalid_credentials"`
}

// Reporting ...
type Reporting struct {
	ScreenshotsOnFailure bool `yaml:"screenshots_on_failure"`
	VideoRecording       bool `yaml:"video_recording"`
	TraceOnFailure       bool `yaml:"trace_on_failure"`
}

// Logging ...
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DebugLogging reports whether the document asks for debug level logs.
func (l Logging) DebugLogging() bool {
	return strings.EqualFold(l.Level, "DEBUG")
}

// Config is the typed form of the test configuration document. It is
// loaded once at startup and read-only afterwards, so it is safe to
// share across workers without locking.
type Config struct {
	Environment Environment     `yaml:"environment"`
	Users       map[string]User `yaml:"users"`
	TestData    TestData        `yaml:"test_data"`
	Reporting   Reporting       `yaml:"reporting"`
	Logging     Logging         `yaml:"logging"`
}

var supportedBrowsers = []string{"chromium", "firefox", "webkit"}

// Load reads and validates the configuration document at pth.
// A missing file, malformed YAML or missing required key is an error.
func Load(pth string) (Config, error) {
	content, err := os.ReadFile(pth)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file (%s): %w", pth, err)
	}
	return Parse(content)
}

// Parse decodes and validates a raw configuration document.
func Parse(content []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config document: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment.TimeoutMS == 0 {
		c.Environment.TimeoutMS = 30000
	}
	if c.Environment.Browser == "" {
		c.Environment.Browser = "chromium"
	}
	if c.Environment.Viewport.Width == 0 {
		c.Environment.Viewport.Width = 1920
	}
	if c.Environment.Viewport.Height == 0 {
		c.Environment.Viewport.Height = 1080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}

	for key, user := range c.Users {
		if user.Behavior == "" {
			user.Behavior = BehaviorNormal
			c.Users[key] = user
		}
	}
}

func (c Config) validate() error {
	if c.Environment.BaseURL == "" {
		return fmt.Errorf("missing required config key: environment.base_url")
	}
	if c.Environment.TimeoutMS < 0 {
		return fmt.Errorf("invalid environment.timeout (%d), should not be negative", c.Environment.TimeoutMS)
	}
	if !isSupportedBrowser(c.Environment.Browser) {
		return fmt.Errorf("invalid environment.browser (%s), should be one of: %v", c.Environment.Browser, supportedBrowsers)
	}
	if len(c.Users) == 0 {
		return fmt.Errorf("missing required config section: users")
	}
	for key, user := range c.Users {
		if user.Username == "" {
			return fmt.Errorf("missing required config key: users.%s.username", key)
		}
		if user.Password == "" {
			return fmt.Errorf("missing required config key: users.%s.password", key)
		}
		switch user.Behavior {
		case BehaviorNormal, BehaviorLocked, BehaviorBuggyUI, BehaviorSlow:
		default:
			return fmt.Errorf("invalid behavior (%s) for user %s", user.Behavior, key)
		}
	}
	if c.TestData.CustomerInfo.FirstName == "" || c.TestData.CustomerInfo.LastName == "" || c.TestData.CustomerInfo.PostalCode == "" {
		return fmt.Errorf("missing required config section: test_data.customer_info")
	}
	if len(c.TestData.InvalidCredentials) == 0 {
		return fmt.Errorf("missing required config section: test_data.invalid_credentials")
	}
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid logging.level (%s), should be one of: DEBUG, INFO, WARN, ERROR", c.Logging.Level)
	}
	return nil
}

func isSupportedBrowser(name string) bool {
	for _, b := range supportedBrowsers {
		if b == name {
			return true
		}
	}
	return false
}

// GetUser returns the credential entry stored under key.
func (c Config) GetUser(key string) (User, error) {
	user, ok := c.Users[key]
	if !ok {
		return User{}, fmt.Errorf("user %s not found, available users: %v", key, c.UserKeys())
	}
	return user, nil
}

// UserKeys returns the configured user keys in stable order.
func (c Config) UserKeys() []string {
	keys := make([]string, 0, len(c.Users))
	for key := range c.Users {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// UserKeysWithout returns the configured user keys in stable order,
// skipping users with any of the given behaviors.
func (c Config) UserKeysWithout(excluded ...Behavior) []string {
	var keys []string
	for _, key := range c.UserKeys() {
		skip := false
		for _, behavior := range excluded {
			if c.Users[key].Behavior == behavior {
				skip = true
				break
			}
		}
		if !skip {
			keys = append(keys, key)
		}
	}
	return keys
}
