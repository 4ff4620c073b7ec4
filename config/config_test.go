package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `
environment:
  base_url: https://www.saucedemo.com
  timeout: 30000
  headless: true
  browser: chromium
  viewport:
    width: 1280
    height: 720
users:
  standard_user:
    username: standard_user
    password: secret_sauce
    description: Standard user with normal behavior
  locked_out_user:
    username: locked_out_user
    password: secret_sauce
    description: User that has been locked out
    behavior: locked
  performance_glitch_user:
    username: performance_glitch_user
    password: secret_sauce
    description: User with slow page rendering
    behavior: slow
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
  invalid_credentials:
    - username: invalid_user
      password: wrong_password
    - username: standard_user
      password: wrong_password
    - username: ""
      password: secret_sauce
reporting:
  screenshots_on_failure: true
  video_recording: false
  trace_on_failure: true
logging:
  level: INFO
  format: "{time} | {level} | {message}"
`

func Test_GivenValidDocument_WhenParsed_ThenTypedAccessorsWork(t *testing.T) {
	cfg, err := Parse([]byte(validDocument))
	require.NoError(t, err)

	assert.Equal(t, "https://www.saucedemo.com", cfg.Environment.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Environment.Timeout())
	assert.True(t, cfg.Environment.Headless)
	assert.Equal(t, 1280, cfg.Environment.Viewport.Width)
	assert.Len(t, cfg.TestData.InvalidCredentials, 3)
	assert.True(t, cfg.Reporting.TraceOnFailure)

	user, err := cfg.GetUser("standard_user")
	require.NoError(t, err)
	assert.Equal(t, BehaviorNormal, user.Behavior)
}

func Test_GivenDocumentWithoutOptionalKeys_WhenParsed_ThenDefaultsApply(t *testing.T) {
	cfg, err := Parse([]byte(`
environment:
  base_url: https://www.saucedemo.com
users:
  standard_user:
    username: standard_user
    password: secret_sauce
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
  invalid_credentials:
    - username: invalid_user
      password: wrong_password
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Environment.Timeout())
	assert.Equal(t, "chromium", cfg.Environment.Browser)
	assert.Equal(t, 1920, cfg.Environment.Viewport.Width)
	assert.Equal(t, 1080, cfg.Environment.Viewport.Height)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func Test_GivenMissingRequiredKey_WhenParsed_ThenFails(t *testing.T) {
	tests := []struct {
		name     string
		document string
	}{
		{
			name:     "missing base URL",
			document: "users:\n  u:\n    username: u\n    password: p\n",
		},
		{
			name:     "missing users",
			document: "environment:\n  base_url: https://www.saucedemo.com\n",
		},
		{
			name: "user without password",
			document: `
environment:
  base_url: https://www.saucedemo.com
users:
  standard_user:
    username: standard_user
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
`,
		},
		{
			name: "missing customer info",
			document: `
environment:
  base_url: https://www.saucedemo.com
users:
  standard_user:
    username: standard_user
    password: secret_sauce
`,
		},
		{
			name: "missing invalid credentials",
			document: `
environment:
  base_url: https://www.saucedemo.com
users:
  standard_user:
    username: standard_user
    password: secret_sauce
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.document))
			require.Error(t, err)
		})
	}
}

func Test_GivenUnsupportedBrowser_WhenParsed_ThenFails(t *testing.T) {
	document := `
environment:
  base_url: https://www.saucedemo.com
  browser: opera
users:
  standard_user:
    username: standard_user
    password: secret_sauce
test_data:
  customer_info:
    first_name: John
    last_name: Doe
    postal_code: "12345"
`
	_, err := Parse([]byte(document))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opera")
}

func Test_GivenUnknownLoggingLevel_WhenParsed_ThenFails(t *testing.T) {
	document := strings.Replace(validDocument, "level: INFO", "level: CHATTY", 1)
	_, err := Parse([]byte(document))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHATTY")
}

func Test_DebugLogging(t *testing.T) {
	assert.True(t, Logging{Level: "DEBUG"}.DebugLogging())
	assert.True(t, Logging{Level: "debug"}.DebugLogging())
	assert.False(t, Logging{Level: "INFO"}.DebugLogging())
	assert.False(t, Logging{Level: "WARN"}.DebugLogging())
}

func Test_GivenUnknownUser_WhenLookedUp_ThenErrorListsAvailableUsers(t *testing.T) {
	cfg, err := Parse([]byte(validDocument))
	require.NoError(t, err)

	_, err = cfg.GetUser("ghost_user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard_user")
}

func Test_EffectiveTimeoutScale(t *testing.T) {
	assert.Equal(t, 1.0, User{Behavior: BehaviorNormal}.EffectiveTimeoutScale())
	assert.Equal(t, 3.0, User{Behavior: BehaviorSlow}.EffectiveTimeoutScale())
	assert.Equal(t, 2.5, User{Behavior: BehaviorSlow, TimeoutScale: 2.5}.EffectiveTimeoutScale())
	assert.Equal(t, 1.5, User{Behavior: BehaviorNormal, TimeoutScale: 1.5}.EffectiveTimeoutScale())
}

func Test_UserKeysWithout_SkipsExcludedBehaviors(t *testing.T) {
	cfg, err := Parse([]byte(validDocument))
	require.NoError(t, err)

	keys := cfg.UserKeysWithout(BehaviorLocked)
	assert.Equal(t, []string{"performance_glitch_user", "standard_user"}, keys)
}

func Test_GivenConfigFileOnDisk_WhenLoaded_ThenParses(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "test_config.yaml")
	require.NoError(t, os.WriteFile(pth, []byte(validDocument), 0600))

	cfg, err := Load(pth)
	require.NoError(t, err)
	assert.Equal(t, "https://www.saucedemo.com", cfg.Environment.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
